package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Holo-Host/holofuel-model/params"
	"github.com/Holo-Host/holofuel-model/pkg/reserve"
	"github.com/Holo-Host/holofuel-model/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLoggerWithFile(cfg.Node.LogFile, zap.InfoLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("reserve_demo_started", "pairs", cfg.Reserve.Pairs)

	registry := reserve.NewRegistry()
	for _, pair := range cfg.Reserve.Pairs {
		account, err := reserve.New(pair, reserve.Params{
			SupplyFactor: cfg.Reserve.SupplyFactor,
			StartPrice:   cfg.Reserve.StartPrice,
			ReservePrice: cfg.Reserve.ReservePrice,
			OrderBookLen: cfg.Reserve.OrderBookLen,
		})
		if err != nil {
			sugar.Fatalw("account_create_failed", "pair", pair, "err", err)
		}
		if err := registry.Register(account); err != nil {
			sugar.Fatalw("account_register_failed", "pair", pair, "err", err)
		}
	}

	printBooks(registry)

	// Walk an issue up the ladder at one account and retire against the
	// buy-back reserve of another, the simplest exchange-rate arbitrage
	// round this model is meant to explore.
	unit := cfg.Reserve.SupplyFactor.Mul(reserve.TrancheUnit)
	pairs := registry.Pairs()

	issuePair := pairs[0]
	issueVolume := unit.Mul(decimal.RequireFromString("2.1"))
	if err := registry.Issue(issuePair, issueVolume); err != nil {
		sugar.Fatalw("issue_failed", "pair", issuePair, "volume", issueVolume, "err", err)
	}
	quote, err := registry.Quote(issuePair, reserve.Sell)
	if err != nil {
		sugar.Fatalw("quote_failed", "pair", issuePair, "err", err)
	}
	sugar.Infow("issued", "pair", issuePair, "volume", issueVolume,
		"buyback_price", quote.Price, "buyback_volume", quote.Volume)

	// The retire leg stays inside the seed reserve tranche
	retirePair := pairs[len(pairs)-1]
	retireVolume := unit.Mul(decimal.RequireFromString("0.6"))
	if err := registry.Retire(retirePair, retireVolume); err != nil {
		sugar.Fatalw("retire_failed", "pair", retirePair, "volume", retireVolume, "err", err)
	}
	sugar.Infow("retired", "pair", retirePair, "volume", retireVolume)

	printBooks(registry)
	printSummary(registry)
}

// printBooks dumps each account's rendered ladder and reserve.
func printBooks(registry *reserve.Registry) {
	for _, pair := range registry.Pairs() {
		lines, err := registry.Render(pair)
		if err != nil {
			continue
		}
		fmt.Printf("\n--- %s ---\n", pair)
		for _, line := range lines {
			fmt.Println(line)
		}
	}
}

// printSummary prints the cross-currency reserve table: volume-weighted
// average price, Fuel held, and counter-currency value per pair.
func printSummary(registry *reserve.Registry) {
	fmt.Printf("\n%-10s %12s %16s %16s\n", "Currency", "Price avg.", "Fuel", "Reserves")
	for _, s := range registry.Summary() {
		fmt.Printf("%-10s %12s %16s %16s\n",
			s.Pair, s.AvgPrice.StringFixed(6), s.FuelVolume, s.CurrencyValue)
	}
	fmt.Printf("%-10s %12s %16s %16s\n", "Total", "", "", registry.TotalCurrencyValue())
}
