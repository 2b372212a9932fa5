package dca

import (
	"fmt"

	"github.com/etnz/dca/date"
)

// Frequency selects how trading days are grouped into buy periods.
type Frequency string

const (
	Monthly Frequency = "monthly" // one buy on the first trading day of each month
	Daily   Frequency = "daily"   // one buy every trading day
)

// ParseFrequency parses a frequency name ("monthly", "month", "daily", "day").
func ParseFrequency(s string) (Frequency, error) {
	p, err := date.ParsePeriod(s)
	if err != nil {
		return "", fmt.Errorf("%w: unknown frequency %q, want monthly or daily", ErrInvalidInput, s)
	}
	switch p {
	case date.Monthly:
		return Monthly, nil
	default:
		return Daily, nil
	}
}

func (f Frequency) period() date.Period {
	switch f {
	case Daily:
		return date.Daily
	case Monthly:
		return date.Monthly
	default:
		panic(fmt.Sprintf("unknown frequency %q", string(f)))
	}
}

// Key returns the group key of a day: the first day of its period.
//
// Two days belong to the same buy period iff they have the same key.
func (f Frequency) Key(d date.Date) date.Date { return d.StartOf(f.period()) }
