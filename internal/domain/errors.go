package domain

import (
	"errors"
	"fmt"
)

// Terminal failure classes of the purchase pipeline. Callers classify with
// errors.Is; context is attached at the failure site via wrapping.
var (
	// ErrMarketNotFound means no tradable pair exists for the requested
	// ticker in either quote currency.
	ErrMarketNotFound = errors.New("market not found")
	// ErrInsufficientFunds means the combined balances cannot cover the
	// requested spend, either at valuation time or at the pre-order recheck.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrPriceUnavailable means the exchange reported no usable price.
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrCatalogUnavailable means the market catalog could not be fetched.
	ErrCatalogUnavailable = errors.New("market catalog unavailable")
	// ErrInvalidAmount means the computed trade size rounds to zero or
	// negative at the market's precision.
	ErrInvalidAmount = errors.New("invalid order amount")
	// ErrExchange is the catch-all for unexpected exchange responses.
	ErrExchange = errors.New("exchange error")
)

// ErrNoConversionPath means no direct or inverse pair exists between two
// currencies. It is a variant of ErrMarketNotFound and matches it under
// errors.Is.
var ErrNoConversionPath = fmt.Errorf("no conversion path: %w", ErrMarketNotFound)
