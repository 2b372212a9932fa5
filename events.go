package dca

import (
	"slices"

	"github.com/etnz/dca/date"
)

// BuyDays returns the earliest day of each period of the calendar, sorted.
//
// Periods are defined by the frequency: calendar months for Monthly, single
// days for Daily. The calendar does not need to be sorted.
func BuyDays(calendar []date.Date, f Frequency) []date.Date {
	first := make(map[date.Date]date.Date)
	for _, on := range calendar {
		key := f.Key(on)
		if earliest, ok := first[key]; !ok || on.Before(earliest) {
			first[key] = on
		}
	}
	days := make([]date.Date, 0, len(first))
	for _, on := range first {
		days = append(days, on)
	}
	slices.SortFunc(days, date.Compare)
	return days
}

// ActionDays returns the days of the calendar where at least one symbol has an event.
//
// The result keeps the calendar order.
func ActionDays(calendar []date.Date, symbols []Symbol, has func(Symbol, date.Date) bool) []date.Date {
	days := make([]date.Date, 0)
	for _, on := range calendar {
		if slices.ContainsFunc(symbols, func(s Symbol) bool { return has(s, on) }) {
			days = append(days, on)
		}
	}
	return days
}
