package catalog

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

// BybitSource reads the spot instruments catalog from the Bybit v5 API.
type BybitSource struct {
	client *bybit.Client
}

func NewBybitSource(client *bybit.Client) *BybitSource {
	return &BybitSource{client: client}
}

func (s *BybitSource) FetchMarkets(ctx context.Context) ([]domain.MarketInfo, error) {
	res, err := s.client.V5().Market().GetInstrumentsInfo(bybit.V5GetInstrumentsInfoParam{
		Category: "spot",
	})
	if err != nil {
		return nil, errors.Wrap(err, "bybit instruments info")
	}
	if res.Result.Spot == nil {
		return nil, errors.New("bybit API returned no spot instruments")
	}

	markets := make([]domain.MarketInfo, 0, len(res.Result.Spot.List))
	for _, it := range res.Result.Spot.List {
		info := domain.MarketInfo{
			Pair: domain.Pair{
				Base:  string(it.BaseCoin),
				Quote: string(it.QuoteCoin),
			},
			PricePrecision:  stepPrecision(it.PriceFilter.TickSize),
			AmountPrecision: stepPrecision(it.LotSizeFilter.BasePrecision),
		}
		if minCost := parseMinCost(it.LotSizeFilter.MinOrderAmt); minCost != nil {
			info.MinCost = minCost
		}
		markets = append(markets, info)
	}
	return markets, nil
}

// parseMinCost returns nil for absent or zero minimums, which mean the
// exchange imposes no floor.
func parseMinCost(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}
