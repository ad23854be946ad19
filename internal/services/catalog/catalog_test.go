package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buybot/internal/domain"
)

type stubSource struct {
	markets []domain.MarketInfo
	err     error
	calls   int
}

func (s *stubSource) FetchMarkets(ctx context.Context) ([]domain.MarketInfo, error) {
	s.calls++
	return s.markets, s.err
}

func TestCatalog_LoadAndFind(t *testing.T) {
	minCost := decimal.NewFromInt(1)
	source := &stubSource{markets: []domain.MarketInfo{
		{
			Pair:            domain.Pair{Base: "BTC", Quote: "USDC"},
			PricePrecision:  2,
			AmountPrecision: 6,
			MinCost:         &minCost,
		},
		{
			Pair:            domain.Pair{Base: "USDC", Quote: "USDT"},
			AmountPrecision: 2,
		},
	}}

	cat := New(source)
	require.NoError(t, cat.Load(context.Background()))
	assert.Equal(t, 2, cat.Len())

	market, ok := cat.Find("BTC", "USDC")
	require.True(t, ok)
	assert.Equal(t, int32(6), market.AmountPrecision)
	require.NotNil(t, market.MinCost)
	assert.True(t, market.MinCost.Equal(minCost))

	// a missing market is a valid negative answer, not an error
	_, ok = cat.Find("BTC", "USDT")
	assert.False(t, ok)
}

func TestCatalog_LoadUnavailable(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	cat := New(source)

	err := cat.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Equal(t, 0, cat.Len())
}

func TestCatalog_Reload(t *testing.T) {
	source := &stubSource{markets: []domain.MarketInfo{
		{Pair: domain.Pair{Base: "BTC", Quote: "USDT"}},
	}}
	cat := New(source)
	require.NoError(t, cat.Load(context.Background()))
	require.Equal(t, 1, cat.Len())

	source.markets = []domain.MarketInfo{
		{Pair: domain.Pair{Base: "ETH", Quote: "USDT"}},
	}
	require.NoError(t, cat.Load(context.Background()))

	_, ok := cat.Find("BTC", "USDT")
	assert.False(t, ok, "reload should replace the whole snapshot")
	_, ok = cat.Find("ETH", "USDT")
	assert.True(t, ok)
	assert.Equal(t, 2, source.calls)
}

func TestParseMinCost(t *testing.T) {
	assert.Nil(t, parseMinCost(""))
	assert.Nil(t, parseMinCost("0"))
	assert.Nil(t, parseMinCost("garbage"))

	minCost := parseMinCost("5.5")
	require.NotNil(t, minCost)
	assert.True(t, minCost.Equal(decimal.NewFromFloat(5.5)))
}
