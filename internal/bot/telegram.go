package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// telegramAPI is a minimal Telegram Bot API client: long polling plus the
// handful of send/edit methods the bot needs.
type telegramAPI struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func newTelegramAPI(token string) *telegramAPI {
	return &telegramAPI{
		token:   token,
		baseURL: "https://api.telegram.org",
		// Long polling holds the connection open for up to pollTimeout;
		// the client timeout must exceed it.
		httpClient: &http.Client{Timeout: (pollTimeout + 10) * time.Second},
	}
}

const pollTimeout = 30

type update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *message       `json:"message"`
	CallbackQuery *callbackQuery `json:"callback_query"`
}

type message struct {
	MessageID int64  `json:"message_id"`
	Chat      chat   `json:"chat"`
	Text      string `json:"text"`
}

type chat struct {
	ID int64 `json:"id"`
}

type callbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	Message *message `json:"message"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *telegramAPI) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshal %s payload", method)
	}

	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "build %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "telegram %s", method)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return errors.Wrapf(err, "decode %s response", method)
	}
	if !parsed.OK {
		return errors.Errorf("telegram %s failed: %s", method, parsed.Description)
	}
	if out != nil {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return errors.Wrapf(err, "decode %s result", method)
		}
	}
	return nil
}

func (t *telegramAPI) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         pollTimeout,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []update
	if err := t.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (t *telegramAPI) sendMessage(ctx context.Context, chatID int64, text string, keyboard *inlineKeyboard) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return t.call(ctx, "sendMessage", payload, nil)
}

func (t *telegramAPI) sendPhoto(ctx context.Context, chatID int64, photoURL, caption string, keyboard *inlineKeyboard) error {
	payload := map[string]any{
		"chat_id": chatID,
		"photo":   photoURL,
		"caption": caption,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return t.call(ctx, "sendPhoto", payload, nil)
}

func (t *telegramAPI) editMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	return t.call(ctx, "editMessageText", payload, nil)
}

func (t *telegramAPI) answerCallbackQuery(ctx context.Context, id string) error {
	return t.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": id}, nil)
}
