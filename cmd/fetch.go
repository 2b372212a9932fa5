package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dca"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type fetchCmd struct {
	market marketFlags
	output string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch market data from eodhd.com into a snapshot" }
func (*fetchCmd) Usage() string {
	return `dca fetch [-start <date>] [-end <date>] [-currency <currency>] -o <snapshot> TICKER...

  Fetches the daily close prices, the dividends and the splits of the tickers
  from eodhd.com and writes them to a JSONL snapshot, to be used later with
  'dca simulate -data <snapshot>'.

  Requires an API key set via the -eodhd-api-key flag, the EODHD_API_KEY
  environment variable or the configuration file.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	c.market.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Path of the snapshot to write.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(os.Stderr, c.fetch(ctx, f.Args()))
}

func (c *fetchCmd) fetch(ctx context.Context, tickers []string) error {
	if c.output == "" {
		return fmt.Errorf("%w: missing -o <snapshot>", dca.ErrInvalidInput)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	q, err := c.market.query(tickers)
	if err != nil {
		return err
	}
	p, err := c.market.provider(cfg)
	if err != nil {
		return err
	}
	m, err := p.Fetch(ctx, q.Symbols, q.Range)
	if err != nil {
		return err
	}
	if err := dca.SaveMarketData(c.output, m); err != nil {
		return err
	}
	log.Info().Str("path", c.output).Int("days", len(m.Days())).Msg("snapshot written")
	fmt.Printf("Successfully wrote %d trading days from %s to %s in %s\n", len(m.Days()), m.Start(), m.End(), c.output)
	return nil
}
