package dca

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/etnz/dca/date"
)

// periodsPerYear is the number of buy periods counted as one year.
const periodsPerYear = 12

// Position is the final state of one symbol.
type Position struct {
	Symbol    Symbol
	Shares    Quantity
	Price     Money // close on the last day
	Value     Money
	ROI       Percent
	CAGR      Percent // only meaningful if HasCAGR
	HasCAGR   bool    // false when the CAGR is not applicable
	Dividends Money   // cumulated cash dividends, all reinvested
	Yield     Percent // Dividends relative to the total invested
}

// Result is the outcome of a simulation.
type Result struct {
	Strategy  Strategy
	Currency  string
	Symbols   []Symbol  // in declaration order
	Start     date.Date // first trading day
	End       date.Date // last trading day, used for valuation
	BuyDays   int
	Years     float64
	Invested  Money      // per symbol
	Positions []Position // sorted by ascending CAGR
	Journal   Journal
}

// simulation holds the mutable state of a single run.
type simulation struct {
	market    *MarketData
	strategy  Strategy
	principal Money
	shares    map[Symbol]Quantity
	dividends map[Symbol]Money
	journal   Journal
}

// Simulate runs the strategy over the market data.
//
// It walks the buy days, the dividend days and the split days in chronological
// order. On a given day it buys first, then reinvests dividends, then applies
// splits.
func Simulate(m *MarketData, s Strategy) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sim := &simulation{
		market:    m,
		strategy:  s,
		principal: M(s.Principal, m.Currency()),
		shares:    make(map[Symbol]Quantity),
		dividends: make(map[Symbol]Money),
		journal:   make(Journal, 0),
	}
	for _, sym := range m.Symbols() {
		sim.shares[sym] = Q(0)
		sim.dividends[sym] = M(0, m.Currency())
	}

	buys := BuyDays(m.Days(), s.Frequency)
	divs := m.DividendDays()
	splits := m.SplitDays()

	bought := false
	for on := range date.Union(buys, divs, splits) {
		if _, isBuy := slices.BinarySearchFunc(buys, on, date.Compare); isBuy {
			if !(s.OneBuy && bought) {
				if err := sim.buy(on); err != nil {
					return nil, err
				}
			}
			if s.OneBuy {
				bought = true
			}
		}
		if _, isDiv := slices.BinarySearchFunc(divs, on, date.Compare); isDiv {
			if err := sim.reinvest(on); err != nil {
				return nil, err
			}
		}
		if _, isSplit := slices.BinarySearchFunc(splits, on, date.Compare); isSplit {
			sim.split(on)
		}
	}

	return sim.result(len(buys)), nil
}

// buy invests the principal in every symbol at the close of the day.
func (sim *simulation) buy(on date.Date) error {
	for _, sym := range sim.market.Symbols() {
		price, err := sim.price(sym, on)
		if err != nil {
			return err
		}
		delta := sim.principal.DivPrice(price)
		sim.shares[sym] = sim.shares[sym].Add(delta)
		sim.journal = append(sim.journal, Event{
			On: on, Kind: BuyEvent, Symbol: sym,
			Price: price, Cash: sim.principal, Delta: delta, Shares: sim.shares[sym],
		})
	}
	return nil
}

// reinvest converts the dividends paid on that day into shares at the close.
func (sim *simulation) reinvest(on date.Date) error {
	for _, sym := range sim.market.Symbols() {
		perShare := sim.market.Dividend(sym, on)
		if perShare.IsZero() {
			continue
		}
		price, err := sim.price(sym, on)
		if err != nil {
			return err
		}
		cash := perShare.Mul(sim.shares[sym])
		sim.dividends[sym] = sim.dividends[sym].Add(cash)
		delta := cash.DivPrice(price)
		sim.shares[sym] = sim.shares[sym].Add(delta)
		sim.journal = append(sim.journal, Event{
			On: on, Kind: DividendEvent, Symbol: sym,
			Price: price, Cash: cash, Delta: delta, Shares: sim.shares[sym],
		})
	}
	return nil
}

// split multiplies the share count of every symbol splitting on that day.
func (sim *simulation) split(on date.Date) {
	for _, sym := range sim.market.Symbols() {
		split := sim.market.Split(sym, on)
		factor, ok := split.Factor()
		if !ok {
			continue // NoSplit must never be applied
		}
		before := sim.shares[sym]
		sim.shares[sym] = before.Mul(factor)
		sim.journal = append(sim.journal, Event{
			On: on, Kind: SplitEvent, Symbol: sym,
			Split: split, Delta: sim.shares[sym].Sub(before), Shares: sim.shares[sym],
		})
	}
}

// price returns a valid close price, or an ErrInvalidPrice error.
func (sim *simulation) price(sym Symbol, on date.Date) (Money, error) {
	price, ok := sim.market.Close(sym, on)
	if !ok {
		return Money{}, fmt.Errorf("%w: no close price for %s on %s", ErrInvalidPrice, sym, on)
	}
	if !price.IsPositive() {
		return Money{}, fmt.Errorf("%w: close price of %s on %s is %s", ErrInvalidPrice, sym, on, price.Decimal())
	}
	return price, nil
}

// result values the ledger at the last trading day.
func (sim *simulation) result(buyDays int) *Result {
	m := sim.market
	invested := sim.principal.Mul(Q(buyDays))
	if sim.strategy.OneBuy {
		invested = sim.principal
	}
	years := float64(buyDays) / periodsPerYear
	last := m.End()

	res := &Result{
		Strategy:  sim.strategy,
		Currency:  m.Currency(),
		Symbols:   m.Symbols(),
		Start:     m.Start(),
		End:       last,
		BuyDays:   buyDays,
		Years:     years,
		Invested:  invested,
		Positions: make([]Position, 0, len(m.Symbols())),
		Journal:   sim.journal,
	}

	for _, sym := range m.Symbols() {
		price, _ := m.Close(sym, last) // every symbol has a close on every calendar day
		value := price.Mul(sim.shares[sym])
		ratio := value.Ratio(invested)
		pos := Position{
			Symbol:    sym,
			Shares:    sim.shares[sym],
			Price:     price,
			Value:     value,
			ROI:       Percent(100 * value.Sub(invested).Ratio(invested)),
			Dividends: sim.dividends[sym],
			Yield:     Percent(100 * sim.dividends[sym].Ratio(invested)),
		}
		pos.CAGR, pos.HasCAGR = cagr(ratio, years)
		res.Positions = append(res.Positions, pos)
	}

	slices.SortStableFunc(res.Positions, comparePositions)
	return res
}

// cagr returns the compound annual growth rate for a growth ratio over a
// number of years, and false when it is not defined.
func cagr(ratio, years float64) (Percent, bool) {
	if years <= 0 || ratio <= 0 {
		return 0, false
	}
	r := 100 * (math.Pow(ratio, 1/years) - 1)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return Percent(r), true
}

// comparePositions orders positions by ascending CAGR, not applicable first, then by symbol.
func comparePositions(a, b Position) int {
	switch {
	case a.HasCAGR != b.HasCAGR:
		if !a.HasCAGR {
			return -1
		}
		return 1
	case a.HasCAGR && a.CAGR != b.CAGR:
		return cmp.Compare(a.CAGR, b.CAGR)
	default:
		return cmp.Compare(a.Symbol, b.Symbol)
	}
}
