// Package executor places market buy orders, enforcing market precision and
// minimum-cost rules.
package executor

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buybot/internal/domain"
)

type marketFinder interface {
	Find(base, quote string) (domain.MarketInfo, bool)
}

type priceFetcher interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

type balanceReader interface {
	Balances(ctx context.Context) (domain.Balances, error)
}

type orderPlacer interface {
	MarketBuy(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error)
}

// Executor turns a quote-currency cost into a sized market buy. In dry-run
// mode it computes a projected fill without touching the exchange.
type Executor struct {
	markets  marketFinder
	pricer   priceFetcher
	balances balanceReader
	trader   orderPlacer
	dryRun   bool
	// adjustMinCost raises a requested cost up to the market minimum instead
	// of rejecting it. Favors order success over strict spend fidelity; the
	// returned result's cost surfaces the raise.
	adjustMinCost bool
	epsilon       decimal.Decimal
	logger        *zap.Logger
}

func New(markets marketFinder, pricer priceFetcher, balances balanceReader, trader orderPlacer,
	dryRun, adjustMinCost bool, epsilon decimal.Decimal, logger *zap.Logger) *Executor {

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		markets:       markets,
		pricer:        pricer,
		balances:      balances,
		trader:        trader,
		dryRun:        dryRun,
		adjustMinCost: adjustMinCost,
		epsilon:       epsilon,
		logger:        logger,
	}
}

// Buy spends quoteCost of the pair's quote currency on a market buy and
// returns the normalized result. The base amount is floored to the market's
// amount precision; a floor below the exchange minimum cost is raised to it
// when adjustment is enabled, rejected otherwise.
func (e *Executor) Buy(ctx context.Context, pair domain.Pair, quoteCost decimal.Decimal) (domain.OrderResult, error) {
	if !quoteCost.IsPositive() {
		return domain.OrderResult{}, errors.Wrapf(domain.ErrInvalidAmount, "order cost must be positive, got %s", quoteCost)
	}

	market, ok := e.markets.Find(pair.Base, pair.Quote)
	if !ok {
		return domain.OrderResult{}, errors.Wrapf(domain.ErrMarketNotFound, "%s", pair)
	}

	if market.MinCost != nil && quoteCost.LessThan(*market.MinCost) {
		if !e.adjustMinCost {
			return domain.OrderResult{}, errors.Wrapf(domain.ErrInvalidAmount,
				"cost %s below market minimum %s for %s", quoteCost, market.MinCost, pair)
		}
		e.logger.Info("raising order cost to exchange minimum",
			zap.String("pair", pair.String()),
			zap.String("requested", quoteCost.String()),
			zap.String("minimum", market.MinCost.String()))
		quoteCost = *market.MinCost
	}

	price, err := e.pricer.GetPrice(ctx, pair)
	if err != nil {
		return domain.OrderResult{}, err
	}
	amount := quoteCost.Div(price)

	if e.dryRun {
		// Projected fill only; no flooring on the simulated path.
		e.logger.Info("dry-run enabled, not placing real order",
			zap.String("pair", pair.String()),
			zap.String("cost", quoteCost.String()),
			zap.String("price", price.String()))
		return domain.OrderResult{
			ID:     domain.SimulatedOrderID,
			Pair:   pair,
			Side:   domain.SideBuy,
			Price:  &price,
			Amount: &amount,
			Cost:   &quoteCost,
			Status: domain.StatusSimulated,
		}, nil
	}

	amount = amount.RoundFloor(market.AmountPrecision)
	if !amount.IsPositive() {
		return domain.OrderResult{}, errors.Wrapf(domain.ErrInvalidAmount,
			"%s %s buys zero %s at precision %d", quoteCost, pair.Quote, pair.Base, market.AmountPrecision)
	}

	// Final re-check: balances may have moved since the resolver looked.
	balances, err := e.balances.Balances(ctx)
	if err != nil {
		return domain.OrderResult{}, errors.Wrapf(domain.ErrExchange, "pre-order balance check: %v", err)
	}
	free := balances.Get(pair.Quote)
	if free.Add(e.epsilon).LessThan(quoteCost) {
		return domain.OrderResult{}, errors.Wrapf(domain.ErrInsufficientFunds,
			"%s balance %s below order cost %s", pair.Quote, free, quoteCost)
	}

	order, err := e.trader.MarketBuy(ctx, pair, amount, uuid.NewString())
	if err != nil {
		return domain.OrderResult{}, errors.Wrapf(domain.ErrExchange, "market buy %s: %v", pair, err)
	}

	// Substitute pre-trade computed values wherever the exchange response
	// omitted them.
	order.Pair = pair
	order.Side = domain.SideBuy
	if order.Price == nil {
		order.Price = &price
	}
	if order.Amount == nil {
		order.Amount = &amount
	}
	if order.Cost == nil {
		cost := amount.Mul(price)
		order.Cost = &cost
	}
	if order.Status == "" {
		order.Status = "unknown"
	}

	e.logger.Info("buy order placed",
		zap.String("pair", pair.String()),
		zap.String("id", order.ID),
		zap.String("amount", order.Amount.String()),
		zap.String("price", order.Price.String()),
		zap.String("cost", order.Cost.String()),
		zap.String("status", order.Status))

	return order, nil
}
