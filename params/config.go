package params

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Reserve holds the seed parameters shared by every demonstration account.
type Reserve struct {
	// Pairs lists the counter currencies Fuel trades against; one reserve
	// account is created per pair.
	Pairs []string

	// SupplyFactor scales each ladder rung: one rung holds
	// SupplyFactor * 1,000,000 Fuel.
	SupplyFactor decimal.Decimal

	// StartPrice is the cheapest issuance price at construction.
	StartPrice decimal.Decimal

	// ReservePrice seeds the initial buy-back tranche.
	ReservePrice decimal.Decimal

	// OrderBookLen is the number of tranches each ask ladder holds.
	OrderBookLen int
}

type Node struct {
	// LogFile is where the demo tees its structured log.
	LogFile string
}

type Config struct {
	Reserve Reserve
	Node    Node
}

// Default returns the demonstration seed: two currency pairs with a
// five-rung ladder starting at 0.001 and a buy-back seed just below it.
func Default() Config {
	return Config{
		Reserve: Reserve{
			Pairs:        []string{"EUR", "USD"},
			SupplyFactor: decimal.NewFromInt(1),
			StartPrice:   decimal.RequireFromString("0.001"),
			ReservePrice: decimal.RequireFromString("0.00099"),
			OrderBookLen: 5,
		},
		Node: Node{
			LogFile: "data/reserve.log",
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if pairs := os.Getenv("RESERVE_PAIRS"); pairs != "" {
		// Example: "EUR,USD,HOT"
		cfg.Reserve.Pairs = strings.Split(pairs, ",")
	}
	if factor := os.Getenv("RESERVE_SUPPLY_FACTOR"); factor != "" {
		if d, err := decimal.NewFromString(factor); err == nil && d.IsPositive() {
			cfg.Reserve.SupplyFactor = d
		}
	}
	if price := os.Getenv("RESERVE_START_PRICE"); price != "" {
		if d, err := decimal.NewFromString(price); err == nil && d.IsPositive() {
			cfg.Reserve.StartPrice = d
		}
	}
	if price := os.Getenv("RESERVE_SEED_PRICE"); price != "" {
		if d, err := decimal.NewFromString(price); err == nil && d.IsPositive() {
			cfg.Reserve.ReservePrice = d
		}
	}
	if n := os.Getenv("RESERVE_ORDERBOOK_LEN"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.Reserve.OrderBookLen = v
		}
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.Node.LogFile = logFile
	}

	return cfg
}
