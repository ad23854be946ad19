// Package trader places live market orders on the exchange.
package trader

import (
	"context"

	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

// Trader executes market orders sized in base-asset units and reports
// whatever the exchange echoed back. Fields the exchange omitted stay nil;
// the executor substitutes pre-trade computed values.
type Trader interface {
	MarketBuy(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error)
	MarketSell(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error)
}

// optional converts an exchange-reported string into a result field,
// treating empty and zero values as absent.
func optional(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}
