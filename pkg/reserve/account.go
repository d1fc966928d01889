package reserve

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const renderSeparatorWidth = 40

// Params holds the construction parameters of a ReserveAccount.
type Params struct {
	// SupplyFactor scales the full volume of each ladder rung:
	// one rung holds SupplyFactor * 1,000,000 Fuel.
	SupplyFactor decimal.Decimal

	// StartPrice is the lowest price the ask ladder offers at construction,
	// denominated in the account's counter currency.
	StartPrice decimal.Decimal

	// ReservePrice is the price of the seed buy-back tranche.
	ReservePrice decimal.Decimal

	// ReserveBalance is accepted but does not size the seed reserve
	// tranche; the seed is always a full SupplyFactor * 1,000,000 Fuel.
	// TODO: confirm whether the seed should honor this instead.
	ReserveBalance decimal.Decimal

	// OrderBookLen is the number of tranches the ask ladder holds.
	OrderBookLen int
}

// DefaultParams returns the historical defaults: supply factor 1, start
// price 0.0001, a five-rung ladder, and a seed reserve at the start price.
func DefaultParams() Params {
	start := decimal.RequireFromString("0.0001")
	return Params{
		SupplyFactor: decimal.NewFromInt(1),
		StartPrice:   start,
		ReservePrice: start,
		OrderBookLen: 5,
	}
}

// ReserveAccount is a single-asset automated reserve: a bonded-curve market
// maker that issues Fuel against a counter currency through a tiered ask
// ladder and retires Fuel against a price-ordered LIFO buy-back reserve.
//
// An account is single-owner: it performs no internal locking, and a system
// managing several currency pairs must serialize calls per account at the
// boundary (see Registry).
type ReserveAccount struct {
	pair         string
	supplyFactor decimal.Decimal
	currentPrice decimal.Decimal
	orderBookLen int

	ladder *askLadder
	stack  *reserveStack
}

// New creates a reserve account for a currency pair. The ladder is built
// from StartPrice and the reserve is seeded with one full tranche at
// ReservePrice.
func New(pair string, p Params) (*ReserveAccount, error) {
	if pair == "" {
		return nil, fmt.Errorf("currency pair must not be empty")
	}
	if !p.SupplyFactor.IsPositive() {
		return nil, fmt.Errorf("supply factor must be positive: %s", p.SupplyFactor)
	}
	if !p.StartPrice.IsPositive() {
		return nil, fmt.Errorf("start price must be positive: %s", p.StartPrice)
	}
	if !p.ReservePrice.IsPositive() {
		return nil, fmt.Errorf("reserve price must be positive: %s", p.ReservePrice)
	}
	if p.ReserveBalance.IsNegative() {
		return nil, fmt.Errorf("reserve balance must not be negative: %s", p.ReserveBalance)
	}
	if p.OrderBookLen < 1 {
		return nil, fmt.Errorf("orderbook length must be positive: %d", p.OrderBookLen)
	}

	return &ReserveAccount{
		pair:         pair,
		supplyFactor: p.SupplyFactor,
		currentPrice: p.StartPrice,
		orderBookLen: p.OrderBookLen,
		ladder:       newAskLadder(p.StartPrice, p.SupplyFactor, p.OrderBookLen),
		stack:        newReserveStack(p.ReservePrice, p.SupplyFactor.Mul(TrancheUnit)),
	}, nil
}

// CurrencyPair returns the pair identifier Fuel trades against here.
func (a *ReserveAccount) CurrencyPair() string { return a.pair }

// SupplyFactor returns the current supply factor.
func (a *ReserveAccount) SupplyFactor() decimal.Decimal { return a.supplyFactor }

// CurrentPrice returns the settlement price of the last filled or pushed
// tranche.
func (a *ReserveAccount) CurrentPrice() decimal.Decimal { return a.currentPrice }

// OrderBookLen returns the number of tranches the ladder holds when full.
func (a *ReserveAccount) OrderBookLen() int { return a.orderBookLen }

// LadderVolume returns the total Fuel available for issuance.
func (a *ReserveAccount) LadderVolume() decimal.Decimal { return a.ladder.totalVolume() }

// ReserveVolume returns the total Fuel eligible for retirement.
func (a *ReserveAccount) ReserveVolume() decimal.Decimal { return a.stack.totalVolume() }

// LadderTranches returns a copy of the ask ladder, near to far.
func (a *ReserveAccount) LadderTranches() []Tranche { return a.ladder.snapshot() }

// ReserveTranches returns a copy of the buy-back reserve, top to bottom.
func (a *ReserveAccount) ReserveTranches() []Tranche { return a.stack.snapshot() }

// Quote returns the marginal tranche a caller could trade against: Buy reads
// the cheapest ladder tranche, Sell reads the top of the buy-back reserve.
func (a *ReserveAccount) Quote(side Side) (Tranche, error) {
	switch side {
	case Buy:
		t, ok := a.ladder.peekNear()
		if !ok {
			return Tranche{}, fmt.Errorf("%w: no issuance tranche to quote", ErrEmptyLadder)
		}
		return t, nil
	case Sell:
		t, ok := a.stack.peekTop()
		if !ok {
			return Tranche{}, fmt.Errorf("%w: no buy-back tranche to quote", ErrEmptyReserve)
		}
		return t, nil
	default:
		return Tranche{}, fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
}

// Issue mints volume Fuel against the ladder, cheapest tranche first. The
// fill walks the price upward: each consumed tranche becomes the settlement
// price, and the filled amount is recorded in the reserve at the price it
// actually filled at, not a blended average. Afterwards the far end is
// replenished with full rungs until the ladder is whole again.
//
// All-or-nothing: a request exceeding the ladder's total volume is rejected
// with ErrInsufficientLadderVolume and nothing is mutated.
func (a *ReserveAccount) Issue(volume decimal.Decimal) error {
	if !volume.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidVolume, volume)
	}
	if available := a.ladder.totalVolume(); volume.GreaterThan(available) {
		return fmt.Errorf("%w: requested %s Fuel, ladder holds %s",
			ErrInsufficientLadderVolume, volume, available)
	}

	remaining := volume
	for remaining.IsPositive() {
		near, ok := a.ladder.peekNear()
		if !ok {
			// Unreachable: the up-front total check bounds the walk.
			return fmt.Errorf("%w: ladder drained mid-issue", ErrEmptyLadder)
		}
		fill := decimal.Min(remaining, near.Volume)
		a.currentPrice = near.Price
		if err := a.ladder.consumeNear(fill); err != nil {
			return err
		}
		a.stack.pushOrMerge(a.currentPrice, fill)
		remaining = remaining.Sub(fill)
	}

	a.ladder.replenish(a.supplyFactor, a.orderBookLen)
	return nil
}

// Retire burns volume Fuel against the buy-back reserve, most recently
// issued first. Each fill returns its volume to the ladder's near end at the
// price it was retired at, re-opening a cheaper issuance tranche; the far
// end is then trimmed so the ladder length holds.
//
// All-or-nothing: a request exceeding the reserve's total volume is rejected
// with ErrInsufficientReserveVolume and nothing is mutated.
func (a *ReserveAccount) Retire(volume decimal.Decimal) error {
	if !volume.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidVolume, volume)
	}
	if available := a.stack.totalVolume(); volume.GreaterThan(available) {
		return fmt.Errorf("%w: requested %s Fuel, reserve holds %s",
			ErrInsufficientReserveVolume, volume, available)
	}

	remaining := volume
	for remaining.IsPositive() {
		top, ok := a.stack.peekTop()
		if !ok {
			// Unreachable: the up-front total check bounds the walk.
			return fmt.Errorf("%w: reserve drained mid-retire", ErrEmptyReserve)
		}
		fill := decimal.Min(remaining, top.Volume)
		a.currentPrice = top.Price
		if err := a.stack.popOrReduce(fill); err != nil {
			return err
		}
		a.ladder.pushNear(a.currentPrice, fill)
		remaining = remaining.Sub(fill)
	}

	a.ladder.trimFar(a.orderBookLen)
	return nil
}

// UpdateSupply rebuilds the ladder from the current price under a possibly
// changed supply factor. Pass nil to rebuild under the existing factor. The
// near rung keeps its partially consumed volume, rescaled by
// newFactor/oldFactor; every other rung gets a full tranche. Calling with an
// unchanged factor is idempotent.
func (a *ReserveAccount) UpdateSupply(newFactor *decimal.Decimal) error {
	oldFactor := a.supplyFactor
	if newFactor != nil {
		if !newFactor.IsPositive() {
			return fmt.Errorf("supply factor must be positive: %s", newFactor)
		}
		a.supplyFactor = *newFactor
	}

	nearVolume := a.supplyFactor.Mul(TrancheUnit)
	if near, ok := a.ladder.peekNear(); ok {
		nearVolume = near.Volume.Mul(a.supplyFactor.Div(oldFactor))
	}

	a.ladder.rebuild(a.currentPrice, a.supplyFactor, a.orderBookLen)
	a.ladder.setNearVolume(nearVolume)
	return nil
}

// Refresh unconditionally discards the ladder and rebuilds every rung at
// full volume from the current price. The buy-back reserve is untouched.
func (a *ReserveAccount) Refresh() {
	a.ladder.rebuild(a.currentPrice, a.supplyFactor, a.orderBookLen)
}

// Render returns the account books as display lines: one line per ladder
// tranche near to far, a separator, then one line per reserve tranche top to
// bottom. The format is a compatibility contract with existing consumers of
// the demonstration output.
func (a *ReserveAccount) Render() []string {
	lines := make([]string, 0, a.ladder.len()+a.stack.len()+1)
	for _, t := range a.ladder.snapshot() {
		lines = append(lines, fmt.Sprintf("Issue: %s Fuel @ Price of %s %s",
			t.Volume, t.Price.StringFixed(5), a.pair))
	}
	lines = append(lines, strings.Repeat("=", renderSeparatorWidth))
	for _, t := range a.stack.snapshot() {
		lines = append(lines, fmt.Sprintf("Buy-Back: %s Fuel @ Price of %s %s",
			t.Volume, t.Price.StringFixed(5), a.pair))
	}
	return lines
}
