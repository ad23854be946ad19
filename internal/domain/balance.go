package domain

import "github.com/shopspring/decimal"

// Balances maps currency codes to free amounts. Snapshots are fetched fresh
// for every decision and must not be reused across purchases.
type Balances map[string]decimal.Decimal

// Get returns the free amount for currency. A currency the account never
// held is zero, not an error.
func (b Balances) Get(currency string) decimal.Decimal {
	amount, ok := b[currency]
	if !ok {
		return decimal.Zero
	}
	return amount
}
