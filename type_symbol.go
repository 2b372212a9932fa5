package dca

import (
	"fmt"
	"strings"
)

// Symbol is a ticker symbol, as given by the user (e.g "AAPL" or "MC.PA").
type Symbol string

// normalizeSymbol trims and upper-cases a ticker.
func normalizeSymbol(t string) Symbol { return Symbol(strings.ToUpper(strings.TrimSpace(t))) }

// ParseSymbols normalizes a list of tickers.
//
// Tickers are trimmed and upper-cased. It returns an error if the list is
// empty, contains an empty ticker, a duplicate or something that looks like a
// flag.
func ParseSymbols(tickers []string) ([]Symbol, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: at least one ticker is required", ErrInvalidInput)
	}
	symbols := make([]Symbol, 0, len(tickers))
	seen := make(map[Symbol]struct{}, len(tickers))
	for _, t := range tickers {
		s := normalizeSymbol(t)
		if s == "" {
			return nil, fmt.Errorf("%w: empty ticker", ErrInvalidInput)
		}
		if strings.HasPrefix(string(s), "-") {
			return nil, fmt.Errorf("%w: ticker %q looks like a flag, flags must come before the tickers", ErrInvalidInput, strings.TrimSpace(t))
		}
		if _, ok := seen[s]; ok {
			return nil, fmt.Errorf("%w: duplicate ticker %q", ErrInvalidInput, s)
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	return symbols, nil
}
