package account

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

// BinanceReader reads the spot account of a Binance user.
type BinanceReader struct {
	client *binance.Client
}

func NewBinanceReader(client *binance.Client) *BinanceReader {
	return &BinanceReader{client: client}
}

func (r *BinanceReader) Balances(ctx context.Context) (domain.Balances, error) {
	acc, err := r.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "binance account balance")
	}

	balances := make(domain.Balances)
	for _, b := range acc.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s balance", b.Asset)
		}
		balances[b.Asset] = free
	}
	return balances, nil
}
