package pricer

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

type BybitPricer struct {
	client *bybit.Client
}

func NewBybitPricer(client *bybit.Client) *BybitPricer {
	return &BybitPricer{client: client}
}

// GetPrice returns the last trade price for the pair, falling back to the
// 24h close. A symbol with neither fails with ErrPriceUnavailable rather
// than reporting zero, which would corrupt downstream amount math.
func (p *BybitPricer) GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	symbol := bybit.SymbolV5(pair.Symbol())

	result, err := p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: "spot",
		Symbol:   &symbol,
	})
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "bybit tickers for %s", pair)
	}

	if len(result.Result.Spot.List) == 0 {
		return decimal.Decimal{}, errors.Wrapf(domain.ErrPriceUnavailable, "bybit returned no ticker for %s", pair)
	}

	item := result.Result.Spot.List[0]
	if price, ok := parsePositive(item.LastPrice); ok {
		return price, nil
	}
	if price, ok := parsePositive(item.PrevPrice24H); ok {
		return price, nil
	}
	return decimal.Decimal{}, errors.Wrapf(domain.ErrPriceUnavailable, "no last or close price for %s", pair)
}

func parsePositive(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}
