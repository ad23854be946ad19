// Package account reads free balances from the exchange.
package account

import (
	"context"

	"buybot/internal/domain"
)

// BalanceReader fetches the current balance snapshot. Implementations must
// not cache: balances go stale the moment another trade or deposit lands, so
// every decision re-reads them.
type BalanceReader interface {
	Balances(ctx context.Context) (domain.Balances, error)
}
