package trader

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"buybot/internal/domain"
)

type BybitTrader struct {
	client *bybit.Client
}

func NewBybitTrader(client *bybit.Client) *BybitTrader {
	return &BybitTrader{client: client}
}

func (t *BybitTrader) MarketBuy(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error) {
	return t.createOrder(pair, domain.SideBuy, bybit.SideBuy, amount, clientOrderID)
}

func (t *BybitTrader) MarketSell(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error) {
	return t.createOrder(pair, domain.SideSell, bybit.SideSell, amount, clientOrderID)
}

// createOrder submits a spot market order. Bybit's create response carries
// only order identifiers, so price, amount and cost stay nil for the
// executor to fill from its pre-trade computation.
func (t *BybitTrader) createOrder(pair domain.Pair, side domain.Side, bybitSide bybit.Side, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error) {
	res, err := t.client.V5().Order().CreateOrder(bybit.V5CreateOrderParam{
		Category:    "spot",
		Symbol:      bybit.SymbolV5(pair.Symbol()),
		Side:        bybitSide,
		OrderType:   bybit.OrderTypeMarket,
		Qty:         amount.String(),
		IsLeverage:  nil,
		OrderLinkID: &clientOrderID,
	})
	if err != nil {
		return domain.OrderResult{}, errors.Wrapf(err, "failed to create %s order for %s", side, pair)
	}

	return domain.OrderResult{
		ID:   res.Result.OrderID,
		Pair: pair,
		Side: side,
	}, nil
}
