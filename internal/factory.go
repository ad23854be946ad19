package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"

	"buybot/internal/services/account"
	"buybot/internal/services/catalog"
	"buybot/internal/services/pricer"
	"buybot/internal/services/trader"
)

// ServiceProvider builds the platform-specific halves of the purchase
// pipeline: catalog source, balance reader, pricer and order placement.
type ServiceProvider interface {
	CatalogSource() catalog.Source
	BalanceReader() account.BalanceReader
	Pricer() pricer.Pricer
	Trader() trader.Trader
}

// NewServiceProvider dispatches on the client type. This is the single
// point of truth for platform-specific wiring.
func NewServiceProvider(client any) (ServiceProvider, error) {
	switch c := client.(type) {
	case *bybit.Client:
		return &bybitProvider{client: c}, nil
	case *binance.Client:
		return &binanceProvider{client: c}, nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}

type bybitProvider struct {
	client *bybit.Client
}

func (p *bybitProvider) CatalogSource() catalog.Source        { return catalog.NewBybitSource(p.client) }
func (p *bybitProvider) BalanceReader() account.BalanceReader { return account.NewBybitReader(p.client) }
func (p *bybitProvider) Pricer() pricer.Pricer                { return pricer.NewBybitPricer(p.client) }
func (p *bybitProvider) Trader() trader.Trader                { return trader.NewBybitTrader(p.client) }

type binanceProvider struct {
	client *binance.Client
}

func (p *binanceProvider) CatalogSource() catalog.Source        { return catalog.NewBinanceSource(p.client) }
func (p *binanceProvider) BalanceReader() account.BalanceReader { return account.NewBinanceReader(p.client) }
func (p *binanceProvider) Pricer() pricer.Pricer                { return pricer.NewBinancePricer(p.client) }
func (p *binanceProvider) Trader() trader.Trader                { return trader.NewBinanceTrader(p.client) }
