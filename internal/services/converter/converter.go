// Package converter funds one currency from another through a same-account
// spot trade, using whichever market pair exists between them.
package converter

import (
	"context"
	"fmt"

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

type orderPlacer interface {
	MarketBuy(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error)
	MarketSell(ctx context.Context, pair domain.Pair, amount decimal.Decimal, clientOrderID string) (domain.OrderResult, error)
}

// Result describes one executed or simulated conversion.
type Result struct {
	// Spent is the source-currency amount actually traded after flooring.
	Spent decimal.Decimal
	// Received is the realized (or, in dry-run, estimated) target amount.
	Received decimal.Decimal
	// Price is the market price the conversion used.
	Price decimal.Decimal
	// Step is the human-readable description for the execution trail.
	Step string
}

// Converter trades between two currencies over a direct FROM/TO pair
// (sell) or, failing that, the inverse TO/FROM pair (buy). It trusts its
// input amount: balance sufficiency is the caller's check.
type Converter struct {
	markets marketFinder
	pricer  priceFetcher
	trader  orderPlacer
	dryRun  bool
	logger  *zap.Logger
}

func New(markets marketFinder, pricer priceFetcher, trader orderPlacer, dryRun bool, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		markets: markets,
		pricer:  pricer,
		trader:  trader,
		dryRun:  dryRun,
		logger:  logger,
	}
}

// Convert turns fromAmount of one currency into another. Amounts are floored
// to the pair's amount precision before order placement; in dry-run mode no
// order is placed and the received amount is an estimate at current price.
func (c *Converter) Convert(ctx context.Context, from, to string, fromAmount decimal.Decimal) (Result, error) {
	if !fromAmount.IsPositive() {
		return Result{}, errors.Wrapf(domain.ErrInvalidAmount, "conversion amount must be positive, got %s", fromAmount)
	}

	if market, ok := c.markets.Find(from, to); ok {
		return c.sellDirect(ctx, market, fromAmount)
	}
	if market, ok := c.markets.Find(to, from); ok {
		return c.buyInverse(ctx, market, fromAmount)
	}
	return Result{}, errors.Wrapf(domain.ErrNoConversionPath, "no %s/%s or %s/%s market", from, to, to, from)
}

// sellDirect sells fromAmount of the source currency on the FROM/TO pair.
func (c *Converter) sellDirect(ctx context.Context, market domain.MarketInfo, fromAmount decimal.Decimal) (Result, error) {
	price, err := c.pricer.GetPrice(ctx, market.Pair)
	if err != nil {
		return Result{}, err
	}

	sellAmount := fromAmount.RoundFloor(market.AmountPrecision)
	if !sellAmount.IsPositive() {
		return Result{}, errors.Wrapf(domain.ErrInvalidAmount,
			"%s %s floors to zero at precision %d", fromAmount, market.Pair.Base, market.AmountPrecision)
	}
	received := sellAmount.Mul(price)

	if c.dryRun {
		return Result{
			Spent:    sellAmount,
			Received: received,
			Price:    price,
			Step: fmt.Sprintf("[simulated] would sell %s %s for ~%s %s at %s (estimate)",
				sellAmount, market.Pair.Base, received, market.Pair.Quote, price),
		}, nil
	}

	order, err := c.trader.MarketSell(ctx, market.Pair, sellAmount, uuid.NewString())
	if err != nil {
		return Result{}, errors.Wrapf(domain.ErrExchange, "convert %s -> %s: %v", market.Pair.Base, market.Pair.Quote, err)
	}
	if order.Cost != nil {
		received = *order.Cost
	}

	c.logger.Info("conversion executed",
		zap.String("pair", market.Pair.String()),
		zap.String("side", "sell"),
		zap.String("spent", sellAmount.String()),
		zap.String("received", received.String()),
		zap.String("price", price.String()))

	return Result{
		Spent:    sellAmount,
		Received: received,
		Price:    price,
		Step: fmt.Sprintf("sold %s %s for %s %s at %s",
			sellAmount, market.Pair.Base, received, market.Pair.Quote, price),
	}, nil
}

// buyInverse spends fromAmount of the source currency buying the target on
// the TO/FROM pair.
func (c *Converter) buyInverse(ctx context.Context, market domain.MarketInfo, fromAmount decimal.Decimal) (Result, error) {
	price, err := c.pricer.GetPrice(ctx, market.Pair)
	if err != nil {
		return Result{}, err
	}

	buyAmount := fromAmount.Div(price).RoundFloor(market.AmountPrecision)
	if !buyAmount.IsPositive() {
		return Result{}, errors.Wrapf(domain.ErrInvalidAmount,
			"%s %s buys zero %s at precision %d", fromAmount, market.Pair.Quote, market.Pair.Base, market.AmountPrecision)
	}
	spent := buyAmount.Mul(price)
	received := buyAmount

	if c.dryRun {
		return Result{
			Spent:    spent,
			Received: received,
			Price:    price,
			Step: fmt.Sprintf("[simulated] would buy ~%s %s with %s %s at %s (estimate)",
				received, market.Pair.Base, spent, market.Pair.Quote, price),
		}, nil
	}

	order, err := c.trader.MarketBuy(ctx, market.Pair, buyAmount, uuid.NewString())
	if err != nil {
		return Result{}, errors.Wrapf(domain.ErrExchange, "convert %s -> %s: %v", market.Pair.Quote, market.Pair.Base, err)
	}
	if order.Amount != nil {
		received = *order.Amount
	}
	if order.Cost != nil {
		spent = *order.Cost
	}

	c.logger.Info("conversion executed",
		zap.String("pair", market.Pair.String()),
		zap.String("side", "buy"),
		zap.String("spent", spent.String()),
		zap.String("received", received.String()),
		zap.String("price", price.String()))

	return Result{
		Spent:    spent,
		Received: received,
		Price:    price,
		Step: fmt.Sprintf("bought %s %s with %s %s at %s",
			received, market.Pair.Base, spent, market.Pair.Quote, price),
	}, nil
}
