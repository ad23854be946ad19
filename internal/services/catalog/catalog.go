// Package catalog loads and caches per-symbol trading rules from the exchange.
package catalog

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"buybot/internal/domain"
)

// Source fetches the full set of tradable spot markets from an exchange.
type Source interface {
	FetchMarkets(ctx context.Context) ([]domain.MarketInfo, error)
}

// Catalog is the session-scoped market cache. Load replaces the whole
// snapshot; Find is a pure lookup and is safe for concurrent use by
// in-flight purchases.
type Catalog struct {
	source Source

	mu      sync.RWMutex
	markets map[string]domain.MarketInfo
}

func New(source Source) *Catalog {
	return &Catalog{
		source:  source,
		markets: make(map[string]domain.MarketInfo),
	}
}

// Load fetches all tradable symbols with their precision and minimum-cost
// metadata. It may be called again to refresh the snapshot.
func (c *Catalog) Load(ctx context.Context) error {
	markets, err := c.source.FetchMarkets(ctx)
	if err != nil {
		return errors.Wrapf(domain.ErrCatalogUnavailable, "fetch markets: %v", err)
	}

	snapshot := make(map[string]domain.MarketInfo, len(markets))
	for _, m := range markets {
		snapshot[m.Pair.String()] = m
	}

	c.mu.Lock()
	c.markets = snapshot
	c.mu.Unlock()

	return nil
}

// Find returns the market for BASE/QUOTE. A missing market is a valid
// negative answer used for quote-currency fallback, not an error.
func (c *Catalog) Find(base, quote string) (domain.MarketInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.markets[domain.Pair{Base: base, Quote: quote}.String()]
	return m, ok
}

// Len reports how many markets the current snapshot holds.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.markets)
}
