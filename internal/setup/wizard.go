// Package setup is the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

type fileConfig struct {
	Platform   string   `yaml:"platform"`
	Preferred  string   `yaml:"preferred_quote"`
	Secondary  string   `yaml:"secondary_quote"`
	DryRun     bool     `yaml:"dry_run"`
	AdjustMin  bool     `yaml:"adjust_min_cost"`
	BuyAmounts []string `yaml:"buy_amounts"`
}

// Run walks through the config questions and writes the yaml file at path.
func Run(path string) error {
	var (
		platform   = "bybit"
		preferred  = "USDC"
		secondary  = "USDT"
		amountsStr = "10,20,50,100"
		dryRun     = true
		adjustMin  = true
		confirm    bool
	)

	fmt.Println(headerStyle.Render("BUYBOT CONFIG WIZARD"))

	fmt.Println(stepStyle.Render("STEP 1: EXCHANGE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select exchange platform").
				Options(
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Binance", "binance"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 2: QUOTE CURRENCIES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Preferred quote currency").
				Description("Spend amounts are denominated in this currency").
				Value(&preferred),
			huh.NewInput().
				Title("Secondary quote currency").
				Description("Fallback when the preferred one is short").
				Value(&secondary),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 3: PURCHASES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Buy amounts").
				Description("Comma-separated spend options shown as buttons").
				Value(&amountsStr).
				Validate(validateAmounts),
			huh.NewConfirm().
				Title("Dry-run mode (no real orders)?").
				Value(&dryRun),
			huh.NewConfirm().
				Title("Raise orders below the exchange minimum cost?").
				Value(&adjustMin),
		),
	).Run()
	if err != nil {
		return err
	}

	conf := fileConfig{
		Platform:   platform,
		Preferred:  strings.ToUpper(strings.TrimSpace(preferred)),
		Secondary:  strings.ToUpper(strings.TrimSpace(secondary)),
		DryRun:     dryRun,
		AdjustMin:  adjustMin,
		BuyAmounts: splitAmounts(amountsStr),
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Save configuration to %s?", path)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println("Aborted, nothing written.")
		return nil
	}

	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("Saved " + path))
	fmt.Println("Set TELEGRAM_TOKEN and " + strings.ToUpper(platform) + "_API_KEY / _API_SECRET in the environment or .env, then run buybot.")
	return nil
}

func validateAmounts(raw string) error {
	for _, part := range splitAmounts(raw) {
		amount, err := decimal.NewFromString(part)
		if err != nil || !amount.IsPositive() {
			return fmt.Errorf("%q is not a positive amount", part)
		}
	}
	return nil
}

func splitAmounts(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
