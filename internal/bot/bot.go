// Package bot is the Telegram front-end: it parses /buy commands, shows
// spend-amount buttons and renders purchase results. All trade decisions
// live in the purchase service; this layer only translates messages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buybot/internal/domain"
	"buybot/internal/services/coininfo"
	"buybot/internal/services/purchase"
)

type purchaser interface {
	Quote(ctx context.Context, ticker string) (domain.Pair, decimal.Decimal, error)
	Buy(ctx context.Context, ticker string, spend decimal.Decimal) (purchase.Purchase, error)
}

type coinSearcher interface {
	Search(ctx context.Context, ticker string) (*coininfo.Coin, error)
}

type Bot struct {
	api       *telegramAPI
	purchases purchaser
	coins     coinSearcher
	// amounts are the spend options offered as buttons, in reference units.
	amounts   []decimal.Decimal
	reference string
	logger    *zap.Logger
}

func New(token string, purchases purchaser, coins coinSearcher, amounts []decimal.Decimal, reference string, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:       newTelegramAPI(token),
		purchases: purchases,
		coins:     coins,
		amounts:   amounts,
		reference: reference,
		logger:    logger,
	}
}

// Run polls for updates until the context is canceled. Each update is
// handled on its own goroutine; two purchases for the same chat may run
// concurrently against the exchange.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("telegram bot started")

	var offset int64
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		updates, err := b.api.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Warn("poll updates failed", zap.Error(err))
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			go b.handle(ctx, u)
		}
	}
}

func (b *Bot) handle(ctx context.Context, u update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil:
		b.handleMessage(ctx, u.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *message) {
	switch {
	case strings.HasPrefix(msg.Text, "/start"):
		b.reply(ctx, msg.Chat.ID, fmt.Sprintf("Ready. Use /buy TICKER to purchase a coin for %s.", b.reference))
	case strings.HasPrefix(msg.Text, "/buy"):
		b.handleBuyCommand(ctx, msg)
	}
}

func (b *Bot) handleBuyCommand(ctx context.Context, msg *message) {
	ticker := parseBuyCommand(msg.Text)
	if ticker == "" {
		b.reply(ctx, msg.Chat.ID, "Usage: /buy TICKER — e.g. /buy pepe")
		return
	}

	pair, price, err := b.purchases.Quote(ctx, ticker)
	if err != nil {
		b.reply(ctx, msg.Chat.ID, b.renderError(ticker, err))
		return
	}

	title := fmt.Sprintf("Found %s.\nPrice: %s %s", pair, price, pair.Quote)
	var thumb string
	if coin, err := b.coins.Search(ctx, ticker); err != nil {
		b.logger.Warn("coin lookup failed", zap.String("ticker", ticker), zap.Error(err))
	} else if coin != nil {
		title = fmt.Sprintf("Found %s.\nCoin: %s\nPrice: %s %s", pair, coin.Name, price, pair.Quote)
		thumb = coin.Thumb
	}

	keyboard := b.buildKeyboard(ticker)
	if thumb != "" {
		err := b.api.sendPhoto(ctx, msg.Chat.ID, thumb, title, keyboard)
		if err == nil {
			return
		}
		b.logger.Warn("send photo failed, falling back to text", zap.Error(err))
	}
	if err := b.api.sendMessage(ctx, msg.Chat.ID, title, keyboard); err != nil {
		b.logger.Warn("send message failed", zap.Error(err))
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *callbackQuery) {
	if err := b.api.answerCallbackQuery(ctx, query.ID); err != nil {
		b.logger.Warn("answer callback failed", zap.Error(err))
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	if query.Data == cancelCallback {
		if err := b.api.editMessageText(ctx, chatID, query.Message.MessageID, "Canceled."); err != nil {
			b.logger.Warn("edit message failed", zap.Error(err))
		}
		return
	}

	ticker, spend, err := parseCallback(query.Data)
	if err != nil {
		b.logger.Warn("bad callback data", zap.String("data", query.Data), zap.Error(err))
		return
	}

	result, err := b.purchases.Buy(ctx, ticker, spend)
	lines := append([]string{}, result.Steps...)
	if err != nil {
		lines = append(lines, b.renderError(ticker, err))
	} else {
		lines = append(lines, b.renderOrder(ticker, result.Order)...)
	}

	text := strings.Join(lines, "\n")
	if err := b.api.editMessageText(ctx, chatID, query.Message.MessageID, text); err != nil {
		b.logger.Warn("edit message failed", zap.Error(err))
		b.reply(ctx, chatID, text)
	}
}

func (b *Bot) renderOrder(ticker string, order domain.OrderResult) []string {
	price, amount, cost := "—", "—", "—"
	if order.Price != nil {
		price = order.Price.String()
	}
	if order.Amount != nil {
		amount = order.Amount.String()
	}
	if order.Cost != nil {
		cost = formatMoney(*order.Cost, order.Pair.Quote)
	}

	if order.Simulated() {
		return []string{
			fmt.Sprintf("DRY-RUN: would buy %s %s at ~%s %s", amount, ticker, price, order.Pair.Quote),
			fmt.Sprintf("DRY-RUN: would spend %s", cost),
		}
	}
	return []string{
		fmt.Sprintf("Bought %s %s at %s %s", amount, ticker, price, order.Pair.Quote),
		fmt.Sprintf("Spent %s", cost),
		fmt.Sprintf("Order %s, status: %s", order.ID, order.Status),
	}
}

// renderError maps the purchase error taxonomy onto user-facing text.
// Unexpected exchange failures stay opaque so internals do not leak.
func (b *Bot) renderError(ticker string, err error) string {
	switch {
	case errors.Is(err, domain.ErrMarketNotFound):
		return fmt.Sprintf("Pair not found for %s in either quote currency.", ticker)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return fmt.Sprintf("Insufficient funds: %s", err)
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Amount is below what this market's precision allows."
	case errors.Is(err, domain.ErrPriceUnavailable), errors.Is(err, domain.ErrCatalogUnavailable):
		b.logger.Error("exchange data unavailable", zap.String("ticker", ticker), zap.Error(err))
		return "Exchange data is temporarily unavailable, try again."
	default:
		b.logger.Error("purchase failed", zap.String("ticker", ticker), zap.Error(err))
		return "Exchange error: the order could not be executed."
	}
}

func (b *Bot) buildKeyboard(ticker string) *inlineKeyboard {
	var rows [][]inlineButton
	var row []inlineButton
	for _, amount := range b.amounts {
		row = append(row, inlineButton{
			Text:         fmt.Sprintf("Buy %s %s", amount, b.reference),
			CallbackData: fmt.Sprintf("buy:%s:%s", ticker, amount),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []inlineButton{{Text: "Cancel", CallbackData: cancelCallback}})
	return &inlineKeyboard{InlineKeyboard: rows}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.api.sendMessage(ctx, chatID, text, nil); err != nil {
		b.logger.Warn("send message failed", zap.Error(err))
	}
}

// cancelCallback is the button data that dismisses a purchase prompt.
const cancelCallback = "cancel"

// parseBuyCommand extracts the ticker from "/buy TICKER".
func parseBuyCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.ToUpper(fields[1])
}

// parseCallback decodes "buy:TICKER:AMOUNT" button data.
func parseCallback(data string) (string, decimal.Decimal, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != "buy" || parts[1] == "" {
		return "", decimal.Decimal{}, fmt.Errorf("malformed callback data %q", data)
	}
	spend, err := decimal.NewFromString(parts[2])
	if err != nil {
		return "", decimal.Decimal{}, fmt.Errorf("malformed callback amount %q", parts[2])
	}
	return parts[1], spend, nil
}

// formatMoney renders stablecoin amounts with two decimals and everything
// else with up to eight.
func formatMoney(value decimal.Decimal, currency string) string {
	switch currency {
	case "USDC", "USDT", "USD":
		return value.StringFixed(2) + " " + currency
	default:
		return value.RoundFloor(8).String() + " " + currency
	}
}
