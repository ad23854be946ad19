// Package coininfo looks up display metadata for a ticker on CoinGecko.
// Results are presentation-only and have no bearing on trade correctness.
package coininfo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Coin is the display metadata for one listed coin.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Thumb  string `json:"thumb"`
}

type searchResponse struct {
	Coins []Coin `json:"coins"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
}

// Search finds the coin matching a ticker, preferring an exact symbol match
// over the first search hit. A nil result without error means nothing was
// found; lookup failures are returned but callers treat them as non-fatal.
func (c *Client) Search(ctx context.Context, ticker string) (*Coin, error) {
	query := strings.ToLower(strings.TrimSpace(ticker))
	if query == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build coingecko request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "coingecko search")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("coingecko search returned %s", resp.Status)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode coingecko response")
	}
	if len(body.Coins) == 0 {
		return nil, nil
	}

	for i := range body.Coins {
		if strings.ToLower(body.Coins[i].Symbol) == query {
			return &body.Coins[i], nil
		}
	}
	return &body.Coins[0], nil
}
