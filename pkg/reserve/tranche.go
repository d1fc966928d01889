package reserve

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TrancheUnit is the Fuel volume of one full ladder rung at supply factor 1.
var TrancheUnit = decimal.NewFromInt(1_000_000)

// Tranche is a (price, volume) pair, the atomic unit of both the ask ladder
// and the buy-back reserve. Price is denominated in the account's counter
// currency, volume in Fuel.
type Tranche struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// Equal reports whether both tranches hold the same price and volume.
func (t Tranche) Equal(o Tranche) bool {
	return t.Price.Equal(o.Price) && t.Volume.Equal(o.Volume)
}

// Side selects which book a quote reads: Buy quotes the ask ladder
// (issuance), Sell quotes the buy-back reserve (retirement).
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Operation errors. All are pre-condition failures: the operation rejects
// atomically and leaves both containers untouched.
var (
	ErrInvalidSide               = errors.New("invalid quote side")
	ErrInvalidVolume             = errors.New("volume must be positive")
	ErrInsufficientLadderVolume  = errors.New("insufficient ladder volume")
	ErrInsufficientReserveVolume = errors.New("insufficient reserve volume")
	ErrEmptyLadder               = errors.New("ask ladder is empty")
	ErrEmptyReserve              = errors.New("reserve stack is empty")
)
