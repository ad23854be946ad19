// Command buybot runs the Telegram spot purchase bot. Users buy a coin by
// ticker for a fiat-equivalent amount; the bot resolves which stablecoin
// funds the order and converts between them when the preferred one is short.
//
// Usage:
//
//	buybot --setup            interactive config wizard
//	buybot --config config.yaml
//
// Required environment variables (or .env):
//
//	TELEGRAM_TOKEN
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"buybot/config"
	"buybot/internal"
	"buybot/internal/bot"
	"buybot/internal/clients"
	"buybot/internal/services/coininfo"
	"buybot/internal/setup"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to yaml config")
	runSetup := flag.Bool("setup", false, "run the interactive config wizard")
	flag.Parse()

	if *runSetup {
		if err := setup.Run(*configPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	secrets, err := config.LoadSecrets(conf.Platform)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var client any
	switch conf.Platform {
	case "bybit":
		client = clients.NewBybitClient(secrets.APIKey, secrets.APISecret)
	case "binance":
		client = clients.NewBinanceClient(secrets.APIKey, secrets.APISecret)
	default:
		log.Fatalf("unsupported platform: %s", conf.Platform)
	}

	app, err := internal.NewApp(conf, client, logger)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Catalog.Load(ctx); err != nil {
		log.Fatal(err)
	}
	logger.Info("market catalog loaded",
		zap.Int("markets", app.Catalog.Len()),
		zap.String("platform", conf.Platform),
		zap.Bool("dry_run", conf.DryRun))

	tgBot := bot.New(secrets.TelegramToken, app.Purchases, coininfo.NewClient(logger), conf.BuyAmounts, conf.Preferred, logger)
	if err := tgBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}
