package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
)

// Report is a struct to represent the outcome of a simulation in json.
//
// Numbers are already formatted, so templates only lay them out.
type Report struct {
	// Title lists the simulated symbols.
	Title string `json:"title"`
	// Strategy describes the amount and the frequency of the buys.
	Strategy string `json:"strategy"`
	// Start is the first trading day.
	Start date.Date `json:"start"`
	// End is the last trading day, used for valuation.
	End date.Date `json:"end"`
	// BuyDays is the number of buy periods.
	BuyDays int `json:"buyDays"`
	// Years is the number of years the buy periods account for.
	Years string `json:"years"`
	// Invested is the total cash invested in each symbol.
	Invested string `json:"invested"`
	// Positions in ascending CAGR order.
	Positions []ReportPosition `json:"positions"`
}

// ReportPosition is the final state of one symbol.
type ReportPosition struct {
	Symbol    string `json:"symbol"`
	Value     string `json:"value"`
	Shares    string `json:"shares"`
	ROI       string `json:"roi"`
	CAGR      string `json:"cagr"` // "n/a" when not applicable
	Dividends string `json:"dividends"`
	Yield     string `json:"yield"`
}

// NewReport creates a new Report from a simulation result.
func NewReport(res *dca.Result) *Report {
	r := &Report{
		Title:     title(res),
		Strategy:  strategy(res),
		Start:     res.Start,
		End:       res.End,
		BuyDays:   res.BuyDays,
		Years:     fmt.Sprintf("%.2f", res.Years),
		Invested:  res.Invested.String(),
		Positions: make([]ReportPosition, 0, len(res.Positions)),
	}
	for _, p := range res.Positions {
		cagr := "n/a"
		if p.HasCAGR {
			cagr = p.CAGR.SignedString()
		}
		r.Positions = append(r.Positions, ReportPosition{
			Symbol:    string(p.Symbol),
			Value:     p.Value.String(),
			Shares:    p.Shares.StringFixed(4),
			ROI:       p.ROI.SignedString(),
			CAGR:      cagr,
			Dividends: p.Dividends.String(),
			Yield:     p.Yield.String(),
		})
	}
	return r
}

// title joins the symbols in their declaration order.
func title(res *dca.Result) string {
	symbols := make([]string, 0, len(res.Symbols))
	for _, s := range res.Symbols {
		symbols = append(symbols, string(s))
	}
	return strings.Join(symbols, ", ")
}

func strategy(res *dca.Result) string {
	principal := dca.M(res.Strategy.Principal, res.Currency).String()
	if res.Strategy.OneBuy {
		return principal + " once"
	}
	return principal + " " + string(res.Strategy.Frequency)
}

// Journal is a struct to represent the events of a simulation in json.
type Journal struct {
	Title  string         `json:"title"`
	Events []JournalEvent `json:"events"`
}

// JournalEvent is a single change of one symbol's share count.
type JournalEvent struct {
	On     date.Date `json:"on"`
	Kind   string    `json:"kind"`
	Symbol string    `json:"symbol"`
	Price  string    `json:"price,omitempty"`
	Cash   string    `json:"cash,omitempty"`
	Split  string    `json:"split,omitempty"`
	Delta  string    `json:"delta"`
	Shares string    `json:"shares"`
}

// NewJournal creates a new Journal from a simulation result.
func NewJournal(res *dca.Result) *Journal {
	j := &Journal{
		Title:  title(res),
		Events: make([]JournalEvent, 0, len(res.Journal)),
	}
	for _, e := range res.Journal {
		je := JournalEvent{
			On:     e.On,
			Kind:   e.Kind.String(),
			Symbol: string(e.Symbol),
			Delta:  e.Delta.StringFixed(4),
			Shares: e.Shares.StringFixed(4),
		}
		if e.Kind == dca.SplitEvent {
			je.Split = e.Split.String()
		} else {
			je.Price = e.Price.String()
			je.Cash = e.Cash.String()
		}
		j.Events = append(j.Events, je)
	}
	return j
}
