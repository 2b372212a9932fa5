package dca

import (
	"context"
	"fmt"

	"github.com/etnz/dca/date"
)

// Provider is a source of historical market data.
type Provider interface {
	// Fetch returns the market data of the symbols within the range.
	//
	// It fails with ErrDataUnavailable when there is no trading day with a
	// close price for every symbol.
	Fetch(ctx context.Context, symbols []Symbol, r date.Range) (*MarketData, error)
}

// Reporter presents the result of a simulation.
type Reporter interface {
	Report(*Result) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(*Result) error

func (f ReporterFunc) Report(r *Result) error { return f(r) }

// Query selects the market data to simulate on.
type Query struct {
	Symbols []Symbol
	Range   date.Range // zero bounds are open
}

// Validate checks the query before any data is fetched.
func (q Query) Validate() error {
	if len(q.Symbols) == 0 {
		return fmt.Errorf("%w: at least one ticker is required", ErrInvalidInput)
	}
	seen := make(map[Symbol]struct{}, len(q.Symbols))
	for _, s := range q.Symbols {
		if s == "" {
			return fmt.Errorf("%w: empty ticker", ErrInvalidInput)
		}
		if _, ok := seen[s]; ok {
			return fmt.Errorf("%w: duplicate ticker %q", ErrInvalidInput, s)
		}
		seen[s] = struct{}{}
	}
	if err := q.Range.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Run validates the inputs, fetches the market data, simulates the strategy
// and hands the result over to the reporter.
func Run(ctx context.Context, p Provider, q Query, s Strategy, r Reporter) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	m, err := p.Fetch(ctx, q.Symbols, q.Range)
	if err != nil {
		return err
	}
	res, err := Simulate(m, s)
	if err != nil {
		return err
	}
	return r.Report(res)
}
