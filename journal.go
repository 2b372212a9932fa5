package dca

import "github.com/etnz/dca/date"

// EventKind is the type of an event applied to the share ledger.
type EventKind int

const (
	BuyEvent EventKind = iota
	DividendEvent
	SplitEvent
)

func (k EventKind) String() string {
	switch k {
	case BuyEvent:
		return "buy"
	case DividendEvent:
		return "dividend"
	case SplitEvent:
		return "split"
	default:
		return "unknown"
	}
}

// Event is a single change of one symbol's share count.
type Event struct {
	On     date.Date
	Kind   EventKind
	Symbol Symbol
	Price  Money    // close price used for buys and reinvestments
	Cash   Money    // principal invested or dividend received
	Split  Split    // split applied
	Delta  Quantity // shares added by the event
	Shares Quantity // share count after the event
}

// Journal is the chronological list of events applied by a simulation.
type Journal []Event

// Filter returns the events of a given kind.
func (j Journal) Filter(kind EventKind) Journal {
	res := make(Journal, 0)
	for _, e := range j {
		if e.Kind == kind {
			res = append(res, e)
		}
	}
	return res
}
