package reserve

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// rungPrice returns base * (1 + k/100), the price of rung k above base.
// Rungs step in percent of the base price: at higher prices a fixed absolute
// step would offer ludicrous volume before any meaningful price change.
func rungPrice(base decimal.Decimal, k int64) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(100 + k)).Div(hundred)
}

// askLadder is the bounded, price-ascending sequence of issuance tranches.
// Index 0 is the near (cheapest, filled-first) end. The ladder remembers the
// base price of its last full build and the rung index the next replenished
// tranche takes, so partial rebuilds after a fill continue the construction
// rung series and spacing stays uniform between full rebuilds.
type askLadder struct {
	tranches []Tranche
	base     decimal.Decimal
	nextRung int64
}

// newAskLadder builds count rungs priced base*(1+k/100) for k = 0..count-1,
// each holding a full supplyFactor * 1,000,000 Fuel.
func newAskLadder(base, supplyFactor decimal.Decimal, count int) *askLadder {
	l := &askLadder{}
	l.rebuild(base, supplyFactor, count)
	return l
}

// rebuild discards every tranche and constructs count full rungs from base.
// Resets the rung series: base becomes the new construction price.
func (l *askLadder) rebuild(base, supplyFactor decimal.Decimal, count int) {
	full := supplyFactor.Mul(TrancheUnit)
	l.tranches = make([]Tranche, 0, count)
	for k := int64(0); k < int64(count); k++ {
		l.tranches = append(l.tranches, Tranche{Price: rungPrice(base, k), Volume: full})
	}
	l.base = base
	l.nextRung = int64(count)
}

// replenish appends full rungs continuing the construction series until the
// ladder holds count tranches again.
func (l *askLadder) replenish(supplyFactor decimal.Decimal, count int) {
	full := supplyFactor.Mul(TrancheUnit)
	for len(l.tranches) < count {
		l.pushFar(rungPrice(l.base, l.nextRung), full)
		l.nextRung++
	}
}

// peekNear returns the lowest-price tranche without consuming it.
func (l *askLadder) peekNear() (Tranche, bool) {
	if len(l.tranches) == 0 {
		return Tranche{}, false
	}
	return l.tranches[0], true
}

// consumeNear reduces the near tranche by amount, removing it when the
// remainder is exactly zero. amount must not exceed the near volume.
func (l *askLadder) consumeNear(amount decimal.Decimal) error {
	if len(l.tranches) == 0 {
		return ErrEmptyLadder
	}
	near := &l.tranches[0]
	if amount.GreaterThan(near.Volume) {
		return fmt.Errorf("consume %s exceeds near tranche volume %s", amount, near.Volume)
	}
	near.Volume = near.Volume.Sub(amount)
	if near.Volume.IsZero() {
		l.tranches = l.tranches[1:]
	}
	return nil
}

// pushFar appends a tranche at the far (expensive) end, merging into the
// current far tranche when prices are identical.
func (l *askLadder) pushFar(price, volume decimal.Decimal) {
	if n := len(l.tranches); n > 0 && l.tranches[n-1].Price.Equal(price) {
		l.tranches[n-1].Volume = l.tranches[n-1].Volume.Add(volume)
		return
	}
	l.tranches = append(l.tranches, Tranche{Price: price, Volume: volume})
}

// pushNear prepends a tranche at the near (cheap) end, merging into the
// current near tranche when prices are identical. Retirement returns volume
// here, re-opening a cheaper buy tranche.
func (l *askLadder) pushNear(price, volume decimal.Decimal) {
	if len(l.tranches) > 0 && l.tranches[0].Price.Equal(price) {
		l.tranches[0].Volume = l.tranches[0].Volume.Add(volume)
		return
	}
	l.tranches = append([]Tranche{{Price: price, Volume: volume}}, l.tranches...)
}

// trimFar drops far-end tranches until the ladder holds at most maxLen
// entries. Far entries are always the most recently minted rungs, so the
// rung counter rewinds with them and a later replenish continues without a
// price gap.
func (l *askLadder) trimFar(maxLen int) {
	for len(l.tranches) > maxLen {
		l.tranches = l.tranches[:len(l.tranches)-1]
		l.nextRung--
	}
}

func (l *askLadder) len() int { return len(l.tranches) }

// totalVolume sums the volume of every tranche.
func (l *askLadder) totalVolume() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.tranches {
		total = total.Add(t.Volume)
	}
	return total
}

// setNearVolume overwrites the near tranche's volume. Used by supply updates
// to carry a partially consumed near rung across a rebuild.
func (l *askLadder) setNearVolume(v decimal.Decimal) {
	if len(l.tranches) > 0 {
		l.tranches[0].Volume = v
	}
}

// snapshot returns a copy of the tranches, near to far.
func (l *askLadder) snapshot() []Tranche {
	out := make([]Tranche, len(l.tranches))
	copy(out, l.tranches)
	return out
}
