package trader

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

type BinanceTrader struct {
	client *binance.Client
}

func NewBinanceTrader(client *binance.Client) *BinanceTrader {
	return &BinanceTrader{client: client}
}

func (t *BinanceTrader) MarketBuy(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error) {
	return t.createOrder(ctx, pair, domain.SideBuy, binance.SideTypeBuy, amount, clientOrderID)
}

func (t *BinanceTrader) MarketSell(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error) {
	return t.createOrder(ctx, pair, domain.SideSell, binance.SideTypeSell, amount, clientOrderID)
}

func (t *BinanceTrader) createOrder(ctx context.Context, pair domain.Pair, side domain.Side, binanceSide binance.SideType, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error) {
	res, err := t.client.NewCreateOrderService().
		Symbol(pair.Symbol()).
		Side(binanceSide).
		Type(binance.OrderTypeMarket).
		Quantity(amount.String()).
		NewClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		return domain.OrderResult{}, errors.Wrapf(err, "failed to create %s order for %s", side, pair)
	}

	result := domain.OrderResult{
		ID:     strconv.FormatInt(res.OrderID, 10),
		Pair:   pair,
		Side:   side,
		Amount: optional(res.ExecutedQuantity),
		Cost:   optional(res.CummulativeQuoteQuantity),
		Status: string(res.Status),
	}
	// Market orders report 0 in the price field; derive the average fill
	// price from the filled amounts when both are present.
	if result.Amount != nil && result.Cost != nil {
		price := result.Cost.Div(*result.Amount)
		result.Price = &price
	}
	return result, nil
}
