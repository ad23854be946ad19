package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

type BinancePricer struct {
	client *binance.Client
}

func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

func (p *BinancePricer) GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	prices, err := p.client.NewListPricesService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "binance prices for %s", pair)
	}
	if len(prices) == 0 {
		return decimal.Decimal{}, errors.Wrapf(domain.ErrPriceUnavailable, "binance returned no price for %s", pair)
	}

	price, ok := parsePositive(prices[0].Price)
	if !ok {
		return decimal.Decimal{}, errors.Wrapf(domain.ErrPriceUnavailable, "binance reported zero price for %s", pair)
	}
	return price, nil
}
