// Package purchase is the buy entry point: it resolves which quote currency
// can fund an order, performs at most one conversion, and executes the buy.
package purchase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buybot/internal/domain"
	"buybot/internal/services/converter"
)

type marketFinder interface {
	Find(base, quote string) (domain.MarketInfo, bool)
}

type balanceReader interface {
	Balances(ctx context.Context) (domain.Balances, error)
}

type priceFetcher interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

type converterService interface {
	Convert(ctx context.Context, from, to string, fromAmount decimal.Decimal) (converter.Result, error)
}

type orderExecutor interface {
	Buy(ctx context.Context, pair domain.Pair, quoteCost decimal.Decimal) (domain.OrderResult, error)
}

// Purchase is what a completed (or failed-midway) buy returns. Steps holds
// the human-readable trail of conversions and adjustments; on partial
// failure the steps already executed are still reported so the user can
// reconcile funds left in the converted currency.
type Purchase struct {
	Order domain.OrderResult
	Steps []string
}

// Service implements quote-currency resolution. Spend amounts are
// denominated in the preferred (reference) currency; when the preferred
// market or balance is short, the secondary currency covers the difference
// through at most one conversion.
type Service struct {
	markets   marketFinder
	account   balanceReader
	pricer    priceFetcher
	converter converterService
	executor  orderExecutor
	preferred string
	secondary string
	epsilon   decimal.Decimal
	logger    *zap.Logger
}

func NewService(markets marketFinder, account balanceReader, pricer priceFetcher,
	conv converterService, exec orderExecutor,
	preferred, secondary string, epsilon decimal.Decimal, logger *zap.Logger) (*Service, error) {

	preferred = normalizeCurrency(preferred)
	secondary = normalizeCurrency(secondary)
	if preferred == "" || secondary == "" || preferred == secondary {
		return nil, errors.Errorf("invalid quote currencies: preferred=%q secondary=%q", preferred, secondary)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		markets:   markets,
		account:   account,
		pricer:    pricer,
		converter: conv,
		executor:  exec,
		preferred: preferred,
		secondary: secondary,
		epsilon:   epsilon,
		logger:    logger,
	}, nil
}

// Quote looks up the market a ticker would trade on (preferred quote first,
// secondary as fallback) and its current price. Used by the front-end to
// preview a purchase before the user picks an amount.
func (s *Service) Quote(ctx context.Context, ticker string) (domain.Pair, decimal.Decimal, error) {
	ticker = normalizeCurrency(ticker)

	market, ok := s.markets.Find(ticker, s.preferred)
	if !ok {
		market, ok = s.markets.Find(ticker, s.secondary)
	}
	if !ok {
		return domain.Pair{}, decimal.Decimal{}, errors.Wrapf(domain.ErrMarketNotFound,
			"no %s/%s or %s/%s market", ticker, s.preferred, ticker, s.secondary)
	}

	price, err := s.pricer.GetPrice(ctx, market.Pair)
	if err != nil {
		return domain.Pair{}, decimal.Decimal{}, err
	}
	return market.Pair, price, nil
}

// Buy purchases spend worth (in preferred-currency units) of ticker. On
// error the returned Purchase still carries any steps already executed.
func (s *Service) Buy(ctx context.Context, ticker string, spend decimal.Decimal) (Purchase, error) {
	ticker = normalizeCurrency(ticker)
	if !spend.IsPositive() {
		return Purchase{}, errors.Wrapf(domain.ErrInvalidAmount, "spend amount must be positive, got %s", spend)
	}

	preferredMarket, hasPreferred := s.markets.Find(ticker, s.preferred)
	secondaryMarket, hasSecondary := s.markets.Find(ticker, s.secondary)
	if !hasPreferred && !hasSecondary {
		return Purchase{}, errors.Wrapf(domain.ErrMarketNotFound,
			"no %s/%s or %s/%s market", ticker, s.preferred, ticker, s.secondary)
	}

	balances, err := s.account.Balances(ctx)
	if err != nil {
		return Purchase{}, errors.Wrapf(domain.ErrExchange, "fetch balances: %v", err)
	}

	s.logger.Info("resolving purchase",
		zap.String("ticker", ticker),
		zap.String("spend", spend.String()),
		zap.String("preferred_balance", balances.Get(s.preferred).String()),
		zap.String("secondary_balance", balances.Get(s.secondary).String()))

	if hasPreferred {
		return s.buyPreferred(ctx, preferredMarket, spend, balances)
	}
	return s.buySecondary(ctx, secondaryMarket, spend, balances)
}

// buyPreferred funds an order on the TICKER/PREFERRED market, converting the
// shortfall from the secondary currency when the preferred balance is short.
func (s *Service) buyPreferred(ctx context.Context, market domain.MarketInfo, spend decimal.Decimal, balances domain.Balances) (Purchase, error) {
	var steps []string

	prefBalance := balances.Get(s.preferred)
	if prefBalance.Add(s.epsilon).LessThan(spend) {
		// Preferred is short: value the secondary balance in preferred terms
		// at the live cross price before touching anything.
		cross, err := s.crossPrice(ctx)
		if err != nil {
			return Purchase{}, err
		}

		secBalance := balances.Get(s.secondary)
		totalInPreferred := prefBalance.Add(secBalance.Div(cross))
		if totalInPreferred.Add(s.epsilon).LessThan(spend) {
			return Purchase{}, errors.Wrapf(domain.ErrInsufficientFunds,
				"need %s %s, have %s %s and %s %s", spend, s.preferred,
				prefBalance, s.preferred, secBalance, s.secondary)
		}

		shortfall := spend.Sub(prefBalance)
		conv, err := s.converter.Convert(ctx, s.secondary, s.preferred, shortfall.Mul(cross))
		if err != nil {
			return Purchase{}, err
		}
		steps = append(steps, conv.Step)
	}

	return s.execute(ctx, market.Pair, spend, steps)
}

// buySecondary falls back to the TICKER/SECONDARY market: the preferred
// spend is translated into secondary units at the live cross price and
// funded from the secondary balance, converting preferred for the shortfall.
func (s *Service) buySecondary(ctx context.Context, market domain.MarketInfo, spend decimal.Decimal, balances domain.Balances) (Purchase, error) {
	var steps []string

	cross, err := s.crossPrice(ctx)
	if err != nil {
		return Purchase{}, err
	}
	spendSecondary := spend.Mul(cross)

	secBalance := balances.Get(s.secondary)
	if secBalance.Add(s.epsilon).LessThan(spendSecondary) {
		prefBalance := balances.Get(s.preferred)
		totalInSecondary := secBalance.Add(prefBalance.Mul(cross))
		if totalInSecondary.Add(s.epsilon).LessThan(spendSecondary) {
			return Purchase{}, errors.Wrapf(domain.ErrInsufficientFunds,
				"need %s %s, have %s %s and %s %s", spendSecondary, s.secondary,
				secBalance, s.secondary, prefBalance, s.preferred)
		}

		shortfall := spendSecondary.Sub(secBalance)
		conv, err := s.converter.Convert(ctx, s.preferred, s.secondary, shortfall.Div(cross))
		if err != nil {
			return Purchase{}, err
		}
		steps = append(steps, conv.Step)
	}

	return s.execute(ctx, market.Pair, spendSecondary, steps)
}

// execute runs the final buy. A failure after a conversion already settled
// is reported together with the executed steps; the converted funds stay in
// the account and are not rolled back.
func (s *Service) execute(ctx context.Context, pair domain.Pair, cost decimal.Decimal, steps []string) (Purchase, error) {
	order, err := s.executor.Buy(ctx, pair, cost)
	if err != nil {
		return Purchase{Steps: steps}, err
	}

	if order.Cost != nil && order.Cost.Sub(cost).GreaterThan(s.epsilon) {
		steps = append(steps, fmt.Sprintf("order cost raised to exchange minimum: %s %s", order.Cost, pair.Quote))
	}
	return Purchase{Order: order, Steps: steps}, nil
}

// crossPrice returns the live price of one preferred-currency unit in
// secondary units, read from the PREFERRED/SECONDARY market or the inverse.
func (s *Service) crossPrice(ctx context.Context) (decimal.Decimal, error) {
	if _, ok := s.markets.Find(s.preferred, s.secondary); ok {
		return s.pricer.GetPrice(ctx, domain.Pair{Base: s.preferred, Quote: s.secondary})
	}
	if _, ok := s.markets.Find(s.secondary, s.preferred); ok {
		inverse, err := s.pricer.GetPrice(ctx, domain.Pair{Base: s.secondary, Quote: s.preferred})
		if err != nil {
			return decimal.Decimal{}, err
		}
		if !inverse.IsPositive() {
			return decimal.Decimal{}, errors.Wrapf(domain.ErrPriceUnavailable, "%s/%s price is zero", s.secondary, s.preferred)
		}
		return decimal.NewFromInt(1).Div(inverse), nil
	}
	return decimal.Decimal{}, errors.Wrapf(domain.ErrNoConversionPath,
		"no %s/%s or %s/%s market", s.preferred, s.secondary, s.secondary, s.preferred)
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
