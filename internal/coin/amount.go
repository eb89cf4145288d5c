package coin

import (
	"fmt"
	"math/big"

	"github.com/playtoearn/coinserver/internal/model"
)

// Amounts are non-negative integers scaled by 1e15: one whole coin is
// 1e15 units, and the human-readable form keeps two decimal places on
// top of that (see FormatHuman). The same scale applies to balances and
// to the per-second reward rate.
const scaleDigits = 15

// DefaultRate is the default reward rate in scaled units per second
// (0.0002778 coins/sec, roughly one coin per hour)
const DefaultRate = "277777800000000"

// Amount is an arbitrary-precision scaled coin quantity
type Amount struct {
	v *big.Int
}

// Zero returns a zero amount
func Zero() Amount {
	return Amount{v: new(big.Int)}
}

// Parse converts a decimal string into an Amount. The string must be a
// base-10 non-negative integer in scaled units.
func Parse(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q is not a base-10 integer", model.ErrInvalidAmount, s)
	}
	if v.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %q is negative", model.ErrInvalidAmount, s)
	}
	return Amount{v: v}, nil
}

// MustParse is Parse for compile-time constants; panics on bad input
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// MulSeconds returns the amount accrued over elapsed seconds at rate a.
// Negative elapsed values are clamped to zero.
func (a Amount) MulSeconds(elapsed int64) Amount {
	if elapsed < 0 {
		elapsed = 0
	}
	return Amount{v: new(big.Int).Mul(a.big(), big.NewInt(elapsed))}
}

// Add returns a + b
func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.big(), b.big())}
}

// IsZero reports whether the amount is zero
func (a Amount) IsZero() bool {
	return a.big().Sign() == 0
}

// Cmp compares a and b, returning -1, 0 or 1
func (a Amount) Cmp(b Amount) int {
	return a.big().Cmp(b.big())
}

// String returns the scaled integer as a decimal string, the form used
// on the wire and in storage
func (a Amount) String() string {
	return a.big().String()
}

func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// FormatHuman renders a scaled amount for display. The last 15 digits
// (sub-unit scale) are truncated, never rounded, and the remaining
// digits are split two places before the end: "12345" -> "123.45".
// Values below the displayable threshold render as "0.00".
func FormatHuman(a Amount) string {
	s := a.String()
	if len(s) <= scaleDigits {
		return "0.00"
	}
	s = s[:len(s)-scaleDigits]

	switch len(s) {
	case 1:
		return "0.0" + s
	case 2:
		return "0." + s
	default:
		return s[:len(s)-2] + "." + s[len(s)-2:]
	}
}
