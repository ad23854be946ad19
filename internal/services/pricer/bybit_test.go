package pricer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hirokisan/bybit/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buybot/internal/domain"
)

func newTestBybitPricer(t *testing.T, handler http.HandlerFunc) *BybitPricer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBybitPricer(bybit.NewClient().WithBaseURL(server.URL))
}

func tickersBody(lastPrice, prevPrice24h string) string {
	return fmt.Sprintf(`{
		"retCode": 0,
		"retMsg": "OK",
		"result": {
			"category": "spot",
			"list": [{
				"symbol": "USDCUSDT",
				"bid1Price": "1.0004",
				"bid1Size": "100",
				"ask1Price": "1.0006",
				"ask1Size": "100",
				"lastPrice": %q,
				"prevPrice24h": %q,
				"price24hPcnt": "0.0001",
				"highPrice24h": "1.0010",
				"lowPrice24h": "0.9999",
				"turnover24h": "1000000",
				"volume24h": "999500"
			}]
		},
		"retExtInfo": {},
		"time": 1690000000000
	}`, lastPrice, prevPrice24h)
}

func TestBybitGetPrice_LastPrice(t *testing.T) {
	pricer := newTestBybitPricer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "spot", r.URL.Query().Get("category"))
		assert.Equal(t, "USDCUSDT", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, tickersBody("1.0005", "1.0003"))
	})

	price, err := pricer.GetPrice(context.Background(), domain.Pair{Base: "USDC", Quote: "USDT"})
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(1.0005)), "price %s", price)
}

func TestBybitGetPrice_FallsBackTo24hClose(t *testing.T) {
	pricer := newTestBybitPricer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tickersBody("", "1.0003"))
	})

	price, err := pricer.GetPrice(context.Background(), domain.Pair{Base: "USDC", Quote: "USDT"})
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(1.0003)), "price %s", price)
}

func TestBybitGetPrice_NoUsablePrice(t *testing.T) {
	pricer := newTestBybitPricer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tickersBody("", ""))
	})

	_, err := pricer.GetPrice(context.Background(), domain.Pair{Base: "USDC", Quote: "USDT"})
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestBybitGetPrice_ZeroPriceIsUnusable(t *testing.T) {
	pricer := newTestBybitPricer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tickersBody("0", "0"))
	})

	_, err := pricer.GetPrice(context.Background(), domain.Pair{Base: "USDC", Quote: "USDT"})
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestBybitGetPrice_UnknownSymbol(t *testing.T) {
	pricer := newTestBybitPricer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"retCode":0,"retMsg":"OK","result":{"category":"spot","list":[]},"retExtInfo":{},"time":1690000000000}`)
	})

	_, err := pricer.GetPrice(context.Background(), domain.Pair{Base: "ZZZ", Quote: "USDT"})
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}
