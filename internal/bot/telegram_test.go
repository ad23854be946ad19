package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *telegramAPI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := newTelegramAPI("test-token")
	api.baseURL = server.URL
	return api
}

func TestGetUpdates(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getUpdates", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, 7, payload["offset"])

		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":8,"message":{"message_id":1,"chat":{"id":99},"text":"/buy pepe"}},
			{"update_id":9,"callback_query":{"id":"cb1","data":"buy:PEPE:20","message":{"message_id":2,"chat":{"id":99}}}}
		]}`))
	})

	updates, err := api.getUpdates(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "/buy pepe", updates[0].Message.Text)
	assert.EqualValues(t, 99, updates[0].Message.Chat.ID)

	require.NotNil(t, updates[1].CallbackQuery)
	assert.Equal(t, "buy:PEPE:20", updates[1].CallbackQuery.Data)
}

func TestSendMessage_Keyboard(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ChatID      int64           `json:"chat_id"`
			Text        string          `json:"text"`
			ReplyMarkup *inlineKeyboard `json:"reply_markup"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, 99, payload.ChatID)
		assert.Equal(t, "pick an amount", payload.Text)
		require.NotNil(t, payload.ReplyMarkup)
		assert.Equal(t, "buy:PEPE:10", payload.ReplyMarkup.InlineKeyboard[0][0].CallbackData)

		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	keyboard := &inlineKeyboard{InlineKeyboard: [][]inlineButton{
		{{Text: "Buy 10 USDC", CallbackData: "buy:PEPE:10"}},
	}}
	require.NoError(t, api.sendMessage(context.Background(), 99, "pick an amount", keyboard))
}

func TestSendPhoto(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendPhoto", r.URL.Path)

		var payload struct {
			ChatID  int64  `json:"chat_id"`
			Photo   string `json:"photo"`
			Caption string `json:"caption"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, 99, payload.ChatID)
		assert.Equal(t, "https://example.com/pepe.png", payload.Photo)
		assert.Equal(t, "Found PEPE/USDC.", payload.Caption)

		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	require.NoError(t, api.sendPhoto(context.Background(), 99, "https://example.com/pepe.png", "Found PEPE/USDC.", nil))
}

func TestCall_APIError(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: message is not modified"}`))
	})

	err := api.editMessageText(context.Background(), 99, 1, "same text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message is not modified")
}
