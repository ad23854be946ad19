// Package pricer fetches current market prices for trading pairs.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

// Pricer returns the current price for a pair. Values must be fetched fresh
// for every decision; a price returned earlier is not assumed valid.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}
