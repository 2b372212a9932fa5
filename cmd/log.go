package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

type logCmd struct {
	market   marketFlags
	strategy strategyFlags
	raw      bool
}

func (*logCmd) Name() string { return "log" }
func (*logCmd) Synopsis() string {
	return "display the chronological journal of a simulation"
}
func (*logCmd) Usage() string {
	return `dca log [-start <date>] [-end <date>] [-principal <cash>] [-one-buy] [-frequency <frequency>] [-data <snapshot>] TICKER...

  Runs the same simulation as 'dca simulate' and prints every buy, dividend
  reinvestment and split applied, with the share count after each of them.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	c.market.SetFlags(f)
	c.strategy.SetFlags(f)
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown.")
}

func (c *logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := run(ctx, f, &c.market, &c.strategy, newTerminal(c.raw, false, true))
	return exitStatus(os.Stderr, err)
}
