package reserve

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Registry manages the reserve account of each currency pair and serializes
// access per pair: accounts perform no internal locking, so every operation
// routed through the registry takes that pair's single-writer lock. Accounts
// for different pairs share no mutable state and proceed independently.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]*registryEntry // currency pair -> account
}

type registryEntry struct {
	mu      sync.Mutex
	account *ReserveAccount
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{accounts: make(map[string]*registryEntry)}
}

// Register adds an account to the registry. Returns an error if an account
// for the same currency pair already exists.
func (r *Registry) Register(a *ReserveAccount) error {
	if a == nil {
		return fmt.Errorf("cannot register nil account")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[a.CurrencyPair()]; exists {
		return fmt.Errorf("account %s already registered", a.CurrencyPair())
	}
	r.accounts[a.CurrencyPair()] = &registryEntry{account: a}
	return nil
}

// Exists reports whether an account for the pair is registered.
func (r *Registry) Exists(pair string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.accounts[pair]
	return exists
}

// Count returns the number of registered accounts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// Pairs returns the registered currency pairs in sorted order.
func (r *Registry) Pairs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := make([]string, 0, len(r.accounts))
	for pair := range r.accounts {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)
	return pairs
}

// withAccount runs fn under the pair's single-writer lock.
func (r *Registry) withAccount(pair string, fn func(*ReserveAccount) error) error {
	r.mu.RLock()
	entry, exists := r.accounts[pair]
	r.mu.RUnlock()
	if !exists {
		return fmt.Errorf("account %s not found", pair)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.account)
}

// Quote returns the pair's marginal tranche for the side.
func (r *Registry) Quote(pair string, side Side) (Tranche, error) {
	var t Tranche
	err := r.withAccount(pair, func(a *ReserveAccount) error {
		var err error
		t, err = a.Quote(side)
		return err
	})
	return t, err
}

// Issue mints volume Fuel at the pair's account.
func (r *Registry) Issue(pair string, volume decimal.Decimal) error {
	return r.withAccount(pair, func(a *ReserveAccount) error {
		return a.Issue(volume)
	})
}

// Retire burns volume Fuel at the pair's account.
func (r *Registry) Retire(pair string, volume decimal.Decimal) error {
	return r.withAccount(pair, func(a *ReserveAccount) error {
		return a.Retire(volume)
	})
}

// UpdateSupply rebuilds the pair's ladder under a possibly changed supply
// factor; pass nil to keep the existing factor.
func (r *Registry) UpdateSupply(pair string, newFactor *decimal.Decimal) error {
	return r.withAccount(pair, func(a *ReserveAccount) error {
		return a.UpdateSupply(newFactor)
	})
}

// Refresh fully rebuilds the pair's ladder from its current price.
func (r *Registry) Refresh(pair string) error {
	return r.withAccount(pair, func(a *ReserveAccount) error {
		a.Refresh()
		return nil
	})
}

// Render returns the pair's books as display lines.
func (r *Registry) Render(pair string) ([]string, error) {
	var lines []string
	err := r.withAccount(pair, func(a *ReserveAccount) error {
		lines = a.Render()
		return nil
	})
	return lines, err
}

// PairSummary aggregates one pair's buy-back reserve: the volume-weighted
// average price, the total Fuel held, and its value in the counter currency.
type PairSummary struct {
	Pair          string
	AvgPrice      decimal.Decimal
	FuelVolume    decimal.Decimal
	CurrencyValue decimal.Decimal
}

// Summary reports every pair's reserve holdings, sorted by pair.
func (r *Registry) Summary() []PairSummary {
	summaries := make([]PairSummary, 0, r.Count())
	for _, pair := range r.Pairs() {
		var s PairSummary
		err := r.withAccount(pair, func(a *ReserveAccount) error {
			s = summarize(a)
			return nil
		})
		if err != nil {
			continue // unregistered between Pairs and here
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// TotalCurrencyValue sums the reserve value of every pair. Pairs are
// denominated independently; the total is only meaningful when the caller
// treats each counter currency at par.
func (r *Registry) TotalCurrencyValue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Summary() {
		total = total.Add(s.CurrencyValue)
	}
	return total
}

func summarize(a *ReserveAccount) PairSummary {
	volume := decimal.Zero
	value := decimal.Zero
	for _, t := range a.ReserveTranches() {
		volume = volume.Add(t.Volume)
		value = value.Add(t.Volume.Mul(t.Price))
	}
	avg := decimal.Zero
	if volume.IsPositive() {
		avg = value.Div(volume)
	}
	return PairSummary{
		Pair:          a.CurrencyPair(),
		AvgPrice:      avg,
		FuelVolume:    volume,
		CurrencyValue: value,
	}
}
