package account

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

// BybitReader reads the unified wallet of a Bybit account.
type BybitReader struct {
	client *bybit.Client
}

func NewBybitReader(client *bybit.Client) *BybitReader {
	return &BybitReader{client: client}
}

func (r *BybitReader) Balances(ctx context.Context) (domain.Balances, error) {
	res, err := r.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5("UNIFIED"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "bybit wallet balance")
	}
	if len(res.Result.List) == 0 {
		return domain.Balances{}, nil
	}

	balances := make(domain.Balances)
	for _, coin := range res.Result.List[0].Coin {
		free, err := decimal.NewFromString(coin.WalletBalance)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s balance", coin.Coin)
		}
		balances[string(coin.Coin)] = free
	}
	return balances, nil
}
