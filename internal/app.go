// Package internal wires the purchase pipeline for one exchange session.
package internal

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"buybot/config"
	"buybot/internal/services/catalog"
	"buybot/internal/services/converter"
	"buybot/internal/services/executor"
	"buybot/internal/services/purchase"
)

// App holds the session-scoped services. The exchange client is constructed
// by the caller and passed in explicitly; there is no implicit global state.
type App struct {
	Catalog   *catalog.Catalog
	Purchases *purchase.Service
}

func NewApp(conf config.Config, client any, logger *zap.Logger) (*App, error) {
	provider, err := NewServiceProvider(client)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(provider.CatalogSource())
	prices := provider.Pricer()
	balances := provider.BalanceReader()
	orders := provider.Trader()

	conv := converter.New(cat, prices, orders, conf.DryRun, logger)
	exec := executor.New(cat, prices, balances, orders, conf.DryRun, conf.AdjustMinCost, conf.Epsilon, logger)

	purchases, err := purchase.NewService(cat, balances, prices, conv, exec,
		conf.Preferred, conf.Secondary, conf.Epsilon, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create purchase service")
	}

	return &App{
		Catalog:   cat,
		Purchases: purchases,
	}, nil
}
