package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config drives one bot session. Monetary policy knobs (epsilon tolerance,
// minimum-cost adjustment) are explicit here rather than hardcoded.
type Config struct {
	Platform string
	// Preferred is the reference quote currency spend amounts are
	// denominated in.
	Preferred string
	// Secondary is the fallback quote currency used when the preferred one
	// is short or has no market for a ticker.
	Secondary string
	DryRun    bool
	// AdjustMinCost raises orders below the exchange minimum cost up to it
	// instead of rejecting them.
	AdjustMinCost bool
	// Epsilon absorbs float noise in balance-sufficiency comparisons. It is
	// a tolerance, not permission for genuinely insufficient funds.
	Epsilon decimal.Decimal
	// BuyAmounts are the spend options offered in chat, in preferred units.
	BuyAmounts []decimal.Decimal
}

type configTmp struct {
	Platform      string   `yaml:"platform"`
	Preferred     string   `yaml:"preferred_quote"`
	Secondary     string   `yaml:"secondary_quote"`
	DryRun        *bool    `yaml:"dry_run"`
	AdjustMinCost *bool    `yaml:"adjust_min_cost"`
	Epsilon       string   `yaml:"epsilon,omitempty"`
	BuyAmounts    []string `yaml:"buy_amounts,omitempty"`
}

// Load reads the yaml config at path and applies defaults.
func Load(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromTmp(tmp)
}

func fromTmp(tmp configTmp) (Config, error) {
	conf := Config{
		Platform:      strings.ToLower(strings.TrimSpace(tmp.Platform)),
		Preferred:     strings.ToUpper(strings.TrimSpace(tmp.Preferred)),
		Secondary:     strings.ToUpper(strings.TrimSpace(tmp.Secondary)),
		DryRun:        true,
		AdjustMinCost: true,
	}

	if conf.Platform == "" {
		return Config{}, fmt.Errorf("'platform' param is required (bybit or binance)")
	}
	if conf.Preferred == "" {
		conf.Preferred = "USDC"
	}
	if conf.Secondary == "" {
		conf.Secondary = "USDT"
	}
	if conf.Preferred == conf.Secondary {
		return Config{}, fmt.Errorf("'preferred_quote' and 'secondary_quote' must differ, both are %s", conf.Preferred)
	}
	if tmp.DryRun != nil {
		conf.DryRun = *tmp.DryRun
	}
	if tmp.AdjustMinCost != nil {
		conf.AdjustMinCost = *tmp.AdjustMinCost
	}

	conf.Epsilon = decimal.New(1, -8)
	if tmp.Epsilon != "" {
		eps, err := decimal.NewFromString(tmp.Epsilon)
		if err != nil || eps.IsNegative() {
			return Config{}, fmt.Errorf("incorrect 'epsilon' param in yaml config: %s", tmp.Epsilon)
		}
		conf.Epsilon = eps
	}

	amounts := tmp.BuyAmounts
	if len(amounts) == 0 {
		amounts = []string{"10", "20", "50", "100"}
	}
	for _, raw := range amounts {
		amount, err := decimal.NewFromString(raw)
		if err != nil || !amount.IsPositive() {
			return Config{}, fmt.Errorf("incorrect 'buy_amounts' entry in yaml config: %s", raw)
		}
		conf.BuyAmounts = append(conf.BuyAmounts, amount)
	}

	return conf, nil
}

// Secrets are credentials read from the environment, never from yaml.
type Secrets struct {
	TelegramToken string
	APIKey        string
	APISecret     string
}

// LoadSecrets reads credentials for the configured platform, loading .env
// first when present.
func LoadSecrets(platform string) (Secrets, error) {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	s := Secrets{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}
	if s.TelegramToken == "" {
		return Secrets{}, fmt.Errorf("TELEGRAM_TOKEN environment variable must be set")
	}

	prefix := strings.ToUpper(platform)
	s.APIKey = os.Getenv(prefix + "_API_KEY")
	s.APISecret = os.Getenv(prefix + "_API_SECRET")
	return s, nil
}
