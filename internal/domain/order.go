package domain

import "github.com/shopspring/decimal"

// Side of a spot order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// SimulatedOrderID marks orders produced in dry-run mode.
const SimulatedOrderID = "dry-run"

// StatusSimulated marks results that never reached the exchange.
const StatusSimulated = "simulated"

// OrderResult is the normalized outcome of a placed or simulated order.
// Nil fields mean the exchange response omitted the value.
type OrderResult struct {
	ID     string
	Pair   Pair
	Side   Side
	Price  *decimal.Decimal
	Amount *decimal.Decimal
	Cost   *decimal.Decimal
	Status string
}

// Simulated reports whether the order was produced by dry-run mode.
func (r OrderResult) Simulated() bool {
	return r.Status == StatusSimulated
}
