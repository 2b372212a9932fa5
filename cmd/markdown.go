package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/dca"
	"github.com/etnz/dca/renderer"
	"github.com/rs/zerolog/log"
)

// printMarkdown renders markdown for the terminal, or prints it raw.
func printMarkdown(w io.Writer, md string, raw bool) {
	if raw {
		fmt.Fprint(w, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Warn().Err(err).Msg("cannot create markdown renderer, printing raw markdown")
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Warn().Err(err).Msg("cannot render markdown, printing raw markdown")
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}

// terminal is a dca.Reporter printing markdown reports.
type terminal struct {
	w       io.Writer
	raw     bool
	report  bool // print the positions report
	journal bool // print the event journal
}

func (t terminal) Report(res *dca.Result) error {
	var md string
	if t.report {
		md += renderer.ReportMarkdown(res)
	}
	if t.journal {
		if md != "" {
			md += "\n"
		}
		md += renderer.JournalMarkdown(res)
	}
	printMarkdown(t.w, md, t.raw)
	return nil
}

func newTerminal(raw, report, journal bool) terminal {
	return terminal{w: os.Stdout, raw: raw, report: report, journal: journal}
}
