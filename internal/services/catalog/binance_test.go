package catalog

import (
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketFromSymbol(t *testing.T) {
	sym := binance.Symbol{
		Symbol:     "PEPEUSDC",
		Status:     "TRADING",
		BaseAsset:  "PEPE",
		QuoteAsset: "USDC",
		Filters: []map[string]interface{}{
			{
				"filterType": "PRICE_FILTER",
				"minPrice":   "0.00000001",
				"maxPrice":   "1000.00000000",
				"tickSize":   "0.00000001",
			},
			{
				"filterType": "LOT_SIZE",
				"minQty":     "1.00000000",
				"maxQty":     "9000000000.00000000",
				"stepSize":   "1.00000000",
			},
			{
				"filterType":       "NOTIONAL",
				"minNotional":      "5.00000000",
				"applyMinToMarket": true,
				"maxNotional":      "9000000.00000000",
				"applyMaxToMarket": false,
			},
		},
	}

	info, ok := marketFromSymbol(sym)
	require.True(t, ok)
	assert.Equal(t, "PEPE/USDC", info.Pair.String())
	assert.Equal(t, int32(8), info.PricePrecision)
	assert.Equal(t, int32(0), info.AmountPrecision)
	require.NotNil(t, info.MinCost)
	assert.True(t, info.MinCost.Equal(decimal.NewFromInt(5)), "min cost %s", info.MinCost)
}

func TestMarketFromSymbol_SkipsHalted(t *testing.T) {
	_, ok := marketFromSymbol(binance.Symbol{
		Symbol:     "DELISTUSDT",
		Status:     "BREAK",
		BaseAsset:  "DELIST",
		QuoteAsset: "USDT",
	})
	assert.False(t, ok)
}

func TestMarketFromSymbol_NoFilters(t *testing.T) {
	info, ok := marketFromSymbol(binance.Symbol{
		Symbol:     "BTCUSDC",
		Status:     "TRADING",
		BaseAsset:  "BTC",
		QuoteAsset: "USDC",
	})
	require.True(t, ok)
	assert.Nil(t, info.MinCost, "no NOTIONAL filter means no cost floor")
	assert.Equal(t, int32(0), info.AmountPrecision)
}
