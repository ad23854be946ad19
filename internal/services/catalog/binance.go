package catalog

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"buybot/internal/domain"
)

// BinanceSource reads the exchange-info catalog from the Binance spot API.
type BinanceSource struct {
	client *binance.Client
}

func NewBinanceSource(client *binance.Client) *BinanceSource {
	return &BinanceSource{client: client}
}

func (s *BinanceSource) FetchMarkets(ctx context.Context) ([]domain.MarketInfo, error) {
	res, err := s.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "binance exchange info")
	}

	markets := make([]domain.MarketInfo, 0, len(res.Symbols))
	for _, sym := range res.Symbols {
		if info, ok := marketFromSymbol(sym); ok {
			markets = append(markets, info)
		}
	}
	return markets, nil
}

// marketFromSymbol maps one exchange-info symbol onto MarketInfo. Symbols not
// open for trading are skipped. The minimum order cost comes from the NOTIONAL
// filter, which replaced MIN_NOTIONAL on Binance spot.
func marketFromSymbol(sym binance.Symbol) (domain.MarketInfo, bool) {
	if sym.Status != "TRADING" {
		return domain.MarketInfo{}, false
	}

	info := domain.MarketInfo{
		Pair: domain.Pair{
			Base:  sym.BaseAsset,
			Quote: sym.QuoteAsset,
		},
	}
	if f := sym.PriceFilter(); f != nil {
		info.PricePrecision = stepPrecision(f.TickSize)
	}
	if f := sym.LotSizeFilter(); f != nil {
		info.AmountPrecision = stepPrecision(f.StepSize)
	}
	if f := sym.NotionalFilter(); f != nil {
		info.MinCost = parseMinCost(f.MinNotional)
	}
	return info, true
}
