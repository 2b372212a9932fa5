package dca

import (
	"testing"

	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
)

// day is a compact description of a trading day for tests.
type day struct {
	on        string
	close     map[Symbol]float64
	dividends map[Symbol]float64
	splits    map[Symbol]float64
}

// newMarket builds a USD MarketData from a list of days, failing the test on error.
func newMarket(t *testing.T, symbols []Symbol, days ...day) *MarketData {
	t.Helper()
	m, err := buildMarket(symbols, days...)
	if err != nil {
		t.Fatalf("Build() unexpected error = %v", err)
	}
	return m
}

func buildMarket(symbols []Symbol, days ...day) (*MarketData, error) {
	b := NewMarketDataBuilder("USD", symbols...)
	for _, d := range days {
		on := date.MustParse(d.on)
		for s, v := range d.close {
			if err := b.SetClose(s, on, decimal.NewFromFloat(v)); err != nil {
				return nil, err
			}
		}
		for s, v := range d.dividends {
			if err := b.SetDividend(s, on, decimal.NewFromFloat(v)); err != nil {
				return nil, err
			}
		}
		for s, v := range d.splits {
			if err := b.SetSplit(s, on, Ratio(v)); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}

// flat returns a close map with the same price for every symbol.
func flat(price float64, symbols ...Symbol) map[Symbol]float64 {
	m := make(map[Symbol]float64, len(symbols))
	for _, s := range symbols {
		m[s] = price
	}
	return m
}

func strategy(principal int64, oneBuy bool, f Frequency) Strategy {
	return Strategy{Principal: principal, OneBuy: oneBuy, Frequency: f}
}

// position returns the position of a symbol in the result, failing the test if absent.
func position(t *testing.T, res *Result, s Symbol) Position {
	t.Helper()
	for _, p := range res.Positions {
		if p.Symbol == s {
			return p
		}
	}
	t.Fatalf("no position for %s", s)
	return Position{}
}
