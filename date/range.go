package date

import "fmt"

// Range represents a range of dates, boundaries included.
//
// A zero From or To is an open bound.
type Range struct{ From, To Date }

// NewRange return the range of the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// Validate returns an error if both bounds are set and From is after To.
func (r Range) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return fmt.Errorf("invalid range: start %s is after end %s", r.From, r.To)
	}
	return nil
}

// Identifier compute a unique identifier for the Range.
// Standard periods get a short insighful name.
func (r Range) Identifier() string {
	switch {
	case !r.From.IsZero() && r.From == r.To:
		return r.From.String()
	case !r.From.IsZero() && r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return fmt.Sprintf("%d-%02d", r.From.Year(), r.From.Month())
	default:
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
}

func (r Range) String() string {
	from, to := r.From.String(), r.To.String()
	if from == "" {
		from = "inception"
	}
	if to == "" {
		to = "latest"
	}
	return from + " to " + to
}
