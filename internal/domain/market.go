package domain

import "github.com/shopspring/decimal"

// MarketInfo holds the trading rules for one symbol, fetched from the
// exchange catalog once per session.
type MarketInfo struct {
	Pair Pair
	// PricePrecision is the number of decimal places the exchange accepts
	// for prices on this symbol.
	PricePrecision int32
	// AmountPrecision is the number of decimal places the exchange accepts
	// for order sizes. Order amounts must be floored to it, never rounded up.
	AmountPrecision int32
	// MinCost is the minimum order cost in quote currency. Nil means the
	// exchange imposes no floor on this symbol.
	MinCost *decimal.Decimal
}
