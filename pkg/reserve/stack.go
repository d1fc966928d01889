package reserve

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// reserveStack is the unbounded LIFO sequence of previously issued,
// retirable tranches. The top (most recently pushed) is consumed first on
// retirement, so the reserve is a price-tagged ledger ordered by
// acquisition, not a pooled balance.
type reserveStack struct {
	tranches []Tranche // index len-1 is the top
}

// newReserveStack seeds the stack with a single tranche.
func newReserveStack(price, volume decimal.Decimal) *reserveStack {
	return &reserveStack{tranches: []Tranche{{Price: price, Volume: volume}}}
}

// peekTop returns the most recently pushed tranche without consuming it.
func (s *reserveStack) peekTop() (Tranche, bool) {
	if len(s.tranches) == 0 {
		return Tranche{}, false
	}
	return s.tranches[len(s.tranches)-1], true
}

// pushOrMerge adds volume to the top tranche when its price matches,
// otherwise pushes a new top. Consecutive issuances at the same settlement
// price coalesce into one entry.
func (s *reserveStack) pushOrMerge(price, volume decimal.Decimal) {
	if n := len(s.tranches); n > 0 && s.tranches[n-1].Price.Equal(price) {
		s.tranches[n-1].Volume = s.tranches[n-1].Volume.Add(volume)
		return
	}
	s.tranches = append(s.tranches, Tranche{Price: price, Volume: volume})
}

// popOrReduce reduces the top tranche by amount, popping it when the
// remainder is exactly zero. amount must not exceed the top volume.
func (s *reserveStack) popOrReduce(amount decimal.Decimal) error {
	if len(s.tranches) == 0 {
		return ErrEmptyReserve
	}
	top := &s.tranches[len(s.tranches)-1]
	if amount.GreaterThan(top.Volume) {
		return fmt.Errorf("reduce %s exceeds top tranche volume %s", amount, top.Volume)
	}
	top.Volume = top.Volume.Sub(amount)
	if top.Volume.IsZero() {
		s.tranches = s.tranches[:len(s.tranches)-1]
	}
	return nil
}

func (s *reserveStack) len() int { return len(s.tranches) }

// totalVolume sums the volume of every tranche.
func (s *reserveStack) totalVolume() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.tranches {
		total = total.Add(t.Volume)
	}
	return total
}

// snapshot returns a copy of the tranches, top to bottom.
func (s *reserveStack) snapshot() []Tranche {
	out := make([]Tranche, 0, len(s.tranches))
	for i := len(s.tranches) - 1; i >= 0; i-- {
		out = append(out, s.tranches[i])
	}
	return out
}
