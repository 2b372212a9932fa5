package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

type simulateCmd struct {
	market   marketFlags
	strategy strategyFlags
	journal  bool
	raw      bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate a dollar-cost averaging strategy" }
func (*simulateCmd) Usage() string {
	return `dca simulate [-start <date>] [-end <date>] [-principal <cash>] [-one-buy] [-frequency <frequency>] [-data <snapshot>] TICKER...

  Invests the principal in every ticker on the first trading day of each
  period, reinvests dividends and applies splits, then reports the final
  value, the ROI and the CAGR of each ticker.

  See 'dca topic simulate' for details.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.market.SetFlags(f)
	c.strategy.SetFlags(f)
	f.BoolVar(&c.journal, "journal", false, "Also print the journal of every buy, dividend and split.")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown.")
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := run(ctx, f, &c.market, &c.strategy, newTerminal(c.raw, true, c.journal))
	return exitStatus(os.Stderr, err)
}
