package dca

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
)

// This file persists market data in a JSONL snapshot, a human-readable and
// git-friendly format.
//
// The first line is a header:
//
//	{"currency":"USD","symbols":["AAPL","MSFT"]}
//
// then one line per trading day:
//
//	{"on":"2024-02-09","close":{"AAPL":"188.85","MSFT":"420.55"},"dividends":{"AAPL":"0.24"}}
//
// Splits are stored as ratios ("splits":{"AAPL":"4"}).

// jheader is the first line of a snapshot.
type jheader struct {
	Currency string   `json:"currency"`
	Symbols  []Symbol `json:"symbols"`
}

// jday is a trading day line of a snapshot.
type jday struct {
	On        date.Date                  `json:"on"`
	Close     map[Symbol]decimal.Decimal `json:"close"`
	Dividends map[Symbol]decimal.Decimal `json:"dividends,omitempty"`
	Splits    map[Symbol]decimal.Decimal `json:"splits,omitempty"`
}

// EncodeMarketData writes the market data as a JSONL snapshot.
func EncodeMarketData(w io.Writer, m *MarketData) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(jheader{Currency: m.currency, Symbols: m.symbols}); err != nil {
		return err
	}
	for _, on := range m.days {
		day := jday{On: on, Close: make(map[Symbol]decimal.Decimal, len(m.symbols))}
		for _, s := range m.symbols {
			day.Close[s] = m.closes[point{on, s}]
			if v, ok := m.dividends[point{on, s}]; ok {
				if day.Dividends == nil {
					day.Dividends = make(map[Symbol]decimal.Decimal)
				}
				day.Dividends[s] = v
			}
			if f, ok := m.splits[point{on, s}].Factor(); ok {
				if day.Splits == nil {
					day.Splits = make(map[Symbol]decimal.Decimal)
				}
				day.Splits[s] = f.Decimal()
			}
		}
		// maps are encoded with sorted keys, so the output is stable.
		if err := enc.Encode(day); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMarketData reads a JSONL snapshot.
//
// filename is for error message only.
func DecodeMarketData(filename string, r io.Reader) (*MarketData, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b *MarketDataBuilder
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if b == nil {
			var h jheader
			if err := json.Unmarshal(line, &h); err != nil {
				return nil, fmt.Errorf("format error in %s:%d: invalid header: %w", filename, i, err)
			}
			symbols, err := headerSymbols(h.Symbols)
			if err != nil {
				return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
			}
			b = NewMarketDataBuilder(h.Currency, symbols...)
			continue
		}
		var day jday
		if err := json.Unmarshal(line, &day); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
		if day.On.IsZero() {
			return nil, fmt.Errorf("format error in %s:%d: missing the property %q with a date", filename, i, "on")
		}
		for s, v := range day.Close {
			if err := b.SetClose(normalizeSymbol(string(s)), day.On, v); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, i, err)
			}
		}
		for s, v := range day.Dividends {
			if err := b.SetDividend(normalizeSymbol(string(s)), day.On, v); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, i, err)
			}
		}
		for s, v := range day.Splits {
			if err := b.SetSplit(normalizeSymbol(string(s)), day.On, Ratio(v)); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, i, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filename, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %s is empty", ErrDataUnavailable, filename)
	}
	return b.Build()
}

// headerSymbols normalizes the symbols of a snapshot header like tickers on the command line.
func headerSymbols(symbols []Symbol) ([]Symbol, error) {
	res := make([]Symbol, 0, len(symbols))
	for _, s := range symbols {
		n := normalizeSymbol(string(s))
		if n == "" {
			return nil, fmt.Errorf("empty symbol in header")
		}
		if slices.Contains(res, n) {
			return nil, fmt.Errorf("duplicate symbol %q in header", n)
		}
		res = append(res, n)
	}
	return res, nil
}

// Snapshot is a Provider reading market data from a JSONL snapshot file.
type Snapshot struct {
	Path string
}

// Fetch implements Provider.
func (s Snapshot) Fetch(_ context.Context, symbols []Symbol, r date.Range) (*MarketData, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot %q: %w", s.Path, err)
	}
	defer f.Close()

	m, err := DecodeMarketData(s.Path, f)
	if err != nil {
		return nil, err
	}
	return m.Restrict(symbols, r)
}

// SaveMarketData writes the market data snapshot to a file.
func SaveMarketData(path string, m *MarketData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create snapshot %q: %w", path, err)
	}
	if err := EncodeMarketData(f, m); err != nil {
		f.Close()
		return fmt.Errorf("cannot write snapshot %q: %w", path, err)
	}
	return f.Close()
}
