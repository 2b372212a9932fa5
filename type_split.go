package dca

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Split is a stock split event for one symbol on one day.
//
// Its zero value is NoSplit. Providers use a ratio of 0 to mean "no split";
// that value is converted to NoSplit at construction and never reaches the
// share ledger as a multiplier.
type Split struct {
	ratio decimal.Decimal
	ok    bool
}

// NoSplit is the absence of a split event.
var NoSplit = Split{}

// Ratio returns a split multiplying the share count by x (2 for a 2-for-1 split).
//
// A zero ratio is NoSplit.
func Ratio[T float64 | int | int64 | decimal.Decimal](x T) Split {
	r := newDecimal(x)
	if r.IsZero() {
		return NoSplit
	}
	return Split{ratio: r, ok: true}
}

// ParseSplit parses a split from "N/D" (e.g. "4/1" or "4.000000/1.000000") or a plain ratio ("4").
func ParseSplit(s string) (Split, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return NoSplit, fmt.Errorf("invalid numerator in split %q: %w", s, err)
	}
	if !found {
		return Ratio(n), nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(den))
	if err != nil {
		return NoSplit, fmt.Errorf("invalid denominator in split %q: %w", s, err)
	}
	if d.IsZero() {
		return NoSplit, fmt.Errorf("invalid split %q: zero denominator", s)
	}
	return Ratio(n.Div(d)), nil
}

// IsSplit reports whether s is an actual split (not NoSplit).
func (s Split) IsSplit() bool { return s.ok }

// Factor returns the multiplier to apply to the share count, and false for NoSplit.
func (s Split) Factor() (Quantity, bool) { return Quantity{value: s.ratio}, s.ok }

func (s Split) String() string {
	if !s.ok {
		return "-"
	}
	return "×" + s.ratio.String()
}
