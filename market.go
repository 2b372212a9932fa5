package dca

import (
	"fmt"
	"slices"

	"github.com/etnz/dca/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// point is a private struct to hold together the date and symbol of a value.
type point struct {
	on     date.Date
	symbol Symbol
}

// MarketData is the normalized table of daily market data for a fixed set of symbols.
//
// Every day of the calendar has a close price for every symbol. Dividends and
// splits only exist on calendar days. MarketData is immutable; use a
// MarketDataBuilder to create one.
type MarketData struct {
	currency  string
	symbols   []Symbol
	days      []date.Date // sorted
	closes    map[point]decimal.Decimal
	dividends map[point]decimal.Decimal // only non zero amounts
	splits    map[point]Split           // only actual splits
}

// Currency returns the currency of all prices and dividends.
func (m *MarketData) Currency() string { return m.currency }

// Symbols returns the symbols, in the order they were declared.
func (m *MarketData) Symbols() []Symbol { return slices.Clone(m.symbols) }

// Days returns the trading calendar, sorted.
func (m *MarketData) Days() []date.Date { return slices.Clone(m.days) }

// Start returns the first day of the calendar.
func (m *MarketData) Start() date.Date { return m.days[0] }

// End returns the last day of the calendar.
func (m *MarketData) End() date.Date { return m.days[len(m.days)-1] }

// Close returns the close price of symbol on a day, and false if there is none.
func (m *MarketData) Close(s Symbol, on date.Date) (Money, bool) {
	v, ok := m.closes[point{on, s}]
	return Money{value: v, cur: m.currency}, ok
}

// Dividend returns the cash dividend per share paid by symbol on a day, zero if none.
func (m *MarketData) Dividend(s Symbol, on date.Date) Money {
	return Money{value: m.dividends[point{on, s}], cur: m.currency}
}

// Split returns the split of symbol on a day, NoSplit if none.
func (m *MarketData) Split(s Symbol, on date.Date) Split { return m.splits[point{on, s}] }

// DividendDays returns the days when at least one symbol pays a dividend.
func (m *MarketData) DividendDays() []date.Date {
	return ActionDays(m.days, m.symbols, func(s Symbol, on date.Date) bool {
		return !m.Dividend(s, on).IsZero()
	})
}

// SplitDays returns the days when at least one symbol splits.
func (m *MarketData) SplitDays() []date.Date {
	return ActionDays(m.days, m.symbols, func(s Symbol, on date.Date) bool {
		return m.Split(s, on).IsSplit()
	})
}

// Restrict returns the market data for a subset of symbols within a range.
//
// The calendar is computed again for the subset.
func (m *MarketData) Restrict(symbols []Symbol, r date.Range) (*MarketData, error) {
	for _, s := range symbols {
		if !slices.Contains(m.symbols, s) {
			return nil, fmt.Errorf("%w: symbol %s", ErrDataUnavailable, s)
		}
	}
	b := NewMarketDataBuilder(m.currency, symbols...)
	for p, v := range m.closes {
		if r.Contains(p.on) && slices.Contains(symbols, p.symbol) {
			b.closes[p] = v
		}
	}
	for p, v := range m.dividends {
		if r.Contains(p.on) && slices.Contains(symbols, p.symbol) {
			b.dividends[p] = v
		}
	}
	for p, v := range m.splits {
		if r.Contains(p.on) && slices.Contains(symbols, p.symbol) {
			b.splits[p] = v
		}
	}
	return b.Build()
}

// MarketDataBuilder collects raw per-symbol series before normalization.
type MarketDataBuilder struct {
	currency  string
	symbols   []Symbol
	closes    map[point]decimal.Decimal
	dividends map[point]decimal.Decimal
	splits    map[point]Split
}

// NewMarketDataBuilder returns a builder for the given currency and symbols.
func NewMarketDataBuilder(currency string, symbols ...Symbol) *MarketDataBuilder {
	return &MarketDataBuilder{
		currency:  currency,
		symbols:   slices.Clone(symbols),
		closes:    make(map[point]decimal.Decimal),
		dividends: make(map[point]decimal.Decimal),
		splits:    make(map[point]Split),
	}
}

func (b *MarketDataBuilder) check(s Symbol) error {
	if !slices.Contains(b.symbols, s) {
		return fmt.Errorf("%w: unknown symbol %q", ErrInvalidInput, s)
	}
	return nil
}

// SetClose sets the close price of a symbol on a day.
func (b *MarketDataBuilder) SetClose(s Symbol, on date.Date, price decimal.Decimal) error {
	if err := b.check(s); err != nil {
		return err
	}
	b.closes[point{on, s}] = price
	return nil
}

// SetDividend sets the cash dividend per share of a symbol on a day.
//
// A zero amount removes the dividend.
func (b *MarketDataBuilder) SetDividend(s Symbol, on date.Date, amount decimal.Decimal) error {
	if err := b.check(s); err != nil {
		return err
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative dividend %s for %s on %s", ErrInvalidInput, amount, s, on)
	}
	if amount.IsZero() {
		delete(b.dividends, point{on, s})
		return nil
	}
	b.dividends[point{on, s}] = amount
	return nil
}

// SetSplit sets the split of a symbol on a day.
//
// NoSplit removes the split.
func (b *MarketDataBuilder) SetSplit(s Symbol, on date.Date, split Split) error {
	if err := b.check(s); err != nil {
		return err
	}
	if f, ok := split.Factor(); ok && f.IsNegative() {
		return fmt.Errorf("%w: negative split %s for %s on %s", ErrInvalidInput, split, s, on)
	}
	if !split.IsSplit() {
		delete(b.splits, point{on, s})
		return nil
	}
	b.splits[point{on, s}] = split
	return nil
}

// Build normalizes the collected series into a MarketData.
//
// The calendar is made of the days where every symbol has a close price.
// Other days are dropped for all symbols, with their dividends and splits.
func (b *MarketDataBuilder) Build() (*MarketData, error) {
	if len(b.symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", ErrInvalidInput)
	}
	if !IsCurrency(b.currency) {
		return nil, fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, b.currency)
	}

	// count how many symbols have a close on each day.
	count := make(map[date.Date]int)
	for p := range b.closes {
		count[p.on]++
	}
	days := make([]date.Date, 0, len(count))
	dropped := 0
	for on, n := range count {
		if n == len(b.symbols) {
			days = append(days, on)
		} else {
			dropped++
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, b.symbols)
	}
	slices.SortFunc(days, date.Compare)
	if dropped > 0 {
		log.Debug().Int("days", dropped).Msg("dropped incomplete trading days")
	}

	m := &MarketData{
		currency:  b.currency,
		symbols:   slices.Clone(b.symbols),
		days:      days,
		closes:    make(map[point]decimal.Decimal, len(days)*len(b.symbols)),
		dividends: make(map[point]decimal.Decimal),
		splits:    make(map[point]Split),
	}
	for p, v := range b.closes {
		if count[p.on] == len(b.symbols) {
			m.closes[p] = v
		}
	}
	for p, v := range b.dividends {
		if count[p.on] == len(b.symbols) {
			m.dividends[p] = v
		}
	}
	for p, v := range b.splits {
		if count[p.on] == len(b.symbols) {
			m.splits[p] = v
		}
	}
	return m, nil
}
