package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buybot/internal/domain"
	"buybot/internal/services/coininfo"
	"buybot/internal/services/purchase"
)

type stubPurchaser struct {
	pair  domain.Pair
	price decimal.Decimal
	buys  int
}

func (s *stubPurchaser) Quote(ctx context.Context, ticker string) (domain.Pair, decimal.Decimal, error) {
	return s.pair, s.price, nil
}

func (s *stubPurchaser) Buy(ctx context.Context, ticker string, spend decimal.Decimal) (purchase.Purchase, error) {
	s.buys++
	return purchase.Purchase{}, nil
}

type stubCoins struct {
	coin *coininfo.Coin
}

func (s *stubCoins) Search(ctx context.Context, ticker string) (*coininfo.Coin, error) {
	return s.coin, nil
}

// apiRecorder replies to Telegram API calls and remembers which methods were
// hit with what payloads.
type apiRecorder struct {
	mu       sync.Mutex
	methods  []string
	payloads map[string]map[string]any
	fail     map[string]bool
}

func newAPIRecorder() *apiRecorder {
	return &apiRecorder{
		payloads: make(map[string]map[string]any),
		fail:     make(map[string]bool),
	}
}

func (a *apiRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[len("/bottest-token/"):]

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		a.mu.Lock()
		a.methods = append(a.methods, method)
		a.payloads[method] = payload
		failed := a.fail[method]
		a.mu.Unlock()

		if failed {
			w.Write([]byte(`{"ok":false,"description":"forced failure"}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}
}

func (a *apiRecorder) called(method string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range a.methods {
		if m == method {
			return true
		}
	}
	return false
}

func (a *apiRecorder) payload(method string) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.payloads[method]
}

func TestParseBuyCommand(t *testing.T) {
	assert.Equal(t, "PEPE", parseBuyCommand("/buy pepe"))
	assert.Equal(t, "BTC", parseBuyCommand("/buy   BTC  "))
	assert.Equal(t, "DOGE", parseBuyCommand("/buy doge extra words"))
	assert.Equal(t, "", parseBuyCommand("/buy"))
	assert.Equal(t, "", parseBuyCommand(""))
}

func TestParseCallback(t *testing.T) {
	ticker, spend, err := parseCallback("buy:PEPE:20")
	require.NoError(t, err)
	assert.Equal(t, "PEPE", ticker)
	assert.True(t, spend.Equal(decimal.NewFromInt(20)))

	_, spend, err = parseCallback("buy:BTC:0.5")
	require.NoError(t, err)
	assert.True(t, spend.Equal(decimal.NewFromFloat(0.5)))

	for _, data := range []string{"", "buy:PEPE", "sell:PEPE:20", "buy::20", "buy:PEPE:abc"} {
		_, _, err := parseCallback(data)
		assert.Error(t, err, "data %q", data)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "20.00 USDC", formatMoney(decimal.NewFromInt(20), "USDC"))
	assert.Equal(t, "15.01 USDT", formatMoney(decimal.NewFromFloat(15.0075), "USDT"))
	assert.Equal(t, "0.00002 BTC", formatMoney(decimal.NewFromFloat(0.00002), "BTC"))
	assert.Equal(t, "0.00000123 PEPE", formatMoney(decimal.NewFromFloat(0.0000012399), "PEPE"))
}

func TestBuildKeyboard(t *testing.T) {
	b := New("token", nil, nil, []decimal.Decimal{
		decimal.NewFromInt(10),
		decimal.NewFromInt(20),
		decimal.NewFromInt(50),
	}, "USDC", nil)

	keyboard := b.buildKeyboard("PEPE")
	require.Len(t, keyboard.InlineKeyboard, 3, "two buttons per amount row plus the cancel row")
	assert.Len(t, keyboard.InlineKeyboard[0], 2)
	assert.Len(t, keyboard.InlineKeyboard[1], 1)

	first := keyboard.InlineKeyboard[0][0]
	assert.Equal(t, "Buy 10 USDC", first.Text)
	assert.Equal(t, "buy:PEPE:10", first.CallbackData)

	last := keyboard.InlineKeyboard[2]
	require.Len(t, last, 1)
	assert.Equal(t, "Cancel", last[0].Text)
	assert.Equal(t, "cancel", last[0].CallbackData)
}

func TestRenderOrder(t *testing.T) {
	b := New("token", nil, nil, nil, "USDC", nil)
	price := decimal.NewFromFloat(0.00002)
	amount := decimal.NewFromInt(1000000)
	cost := decimal.NewFromInt(20)

	live := domain.OrderResult{
		ID:     "42",
		Pair:   domain.Pair{Base: "PEPE", Quote: "USDC"},
		Side:   domain.SideBuy,
		Price:  &price,
		Amount: &amount,
		Cost:   &cost,
		Status: "Filled",
	}
	lines := b.renderOrder("PEPE", live)
	require.Len(t, lines, 3)
	assert.Equal(t, "Bought 1000000 PEPE at 0.00002 USDC", lines[0])
	assert.Equal(t, "Spent 20.00 USDC", lines[1])
	assert.Contains(t, lines[2], "42")
	assert.Contains(t, lines[2], "Filled")

	simulated := live
	simulated.ID = domain.SimulatedOrderID
	simulated.Status = domain.StatusSimulated
	lines = b.renderOrder("PEPE", simulated)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, "DRY-RUN")
	}
}

func TestHandleCallback_Cancel(t *testing.T) {
	recorder := newAPIRecorder()
	purchases := &stubPurchaser{}
	b := New("test-token", purchases, &stubCoins{}, nil, "USDC", nil)
	b.api = newTestAPI(t, recorder.handler(t))

	b.handleCallback(context.Background(), &callbackQuery{
		ID:      "cb1",
		Data:    "cancel",
		Message: &message{MessageID: 2, Chat: chat{ID: 99}},
	})

	assert.Zero(t, purchases.buys, "cancel must not reach the purchase service")
	require.True(t, recorder.called("editMessageText"))
	assert.Equal(t, "Canceled.", recorder.payload("editMessageText")["text"])
}

func TestHandleBuyCommand_SendsThumbnail(t *testing.T) {
	recorder := newAPIRecorder()
	purchases := &stubPurchaser{
		pair:  domain.Pair{Base: "PEPE", Quote: "USDC"},
		price: decimal.NewFromFloat(0.00002),
	}
	coins := &stubCoins{coin: &coininfo.Coin{Name: "Pepe", Thumb: "https://example.com/pepe.png"}}
	b := New("test-token", purchases, coins, []decimal.Decimal{decimal.NewFromInt(10)}, "USDC", nil)
	b.api = newTestAPI(t, recorder.handler(t))

	b.handleBuyCommand(context.Background(), &message{Chat: chat{ID: 99}, Text: "/buy pepe"})

	require.True(t, recorder.called("sendPhoto"))
	assert.False(t, recorder.called("sendMessage"), "photo delivery needs no text fallback")
	payload := recorder.payload("sendPhoto")
	assert.Equal(t, "https://example.com/pepe.png", payload["photo"])
	assert.Contains(t, payload["caption"], "Pepe")
}

func TestHandleBuyCommand_PhotoFallsBackToText(t *testing.T) {
	recorder := newAPIRecorder()
	recorder.fail["sendPhoto"] = true
	purchases := &stubPurchaser{
		pair:  domain.Pair{Base: "PEPE", Quote: "USDC"},
		price: decimal.NewFromFloat(0.00002),
	}
	coins := &stubCoins{coin: &coininfo.Coin{Name: "Pepe", Thumb: "https://example.com/pepe.png"}}
	b := New("test-token", purchases, coins, []decimal.Decimal{decimal.NewFromInt(10)}, "USDC", nil)
	b.api = newTestAPI(t, recorder.handler(t))

	b.handleBuyCommand(context.Background(), &message{Chat: chat{ID: 99}, Text: "/buy pepe"})

	require.True(t, recorder.called("sendPhoto"))
	require.True(t, recorder.called("sendMessage"), "failed photo falls back to a text message")
	assert.Contains(t, recorder.payload("sendMessage")["text"], "Pepe")
}

func TestRenderError(t *testing.T) {
	b := New("token", nil, nil, nil, "USDC", nil)

	assert.Contains(t, b.renderError("ZZZ", domain.ErrMarketNotFound), "Pair not found for ZZZ")
	assert.Contains(t, b.renderError("PEPE", domain.ErrInsufficientFunds), "Insufficient funds")
	assert.Contains(t, b.renderError("PEPE", domain.ErrPriceUnavailable), "temporarily unavailable")

	// Exchange internals never reach the chat.
	opaque := b.renderError("PEPE", domain.ErrExchange)
	assert.Equal(t, "Exchange error: the order could not be executed.", opaque)
}
