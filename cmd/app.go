// Package cmd implements the CLI application to simulate dollar-cost averaging strategies.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/etnz/dca/eodhd"
	"github.com/google/subcommands"
)

type groupedCommand struct {
	group string
	cmd   subcommands.Command
}

// commands returns the dca subcommands in display order.
func commands() []groupedCommand {
	return []groupedCommand{
		{"simulation", &simulateCmd{}},
		{"simulation", &logCmd{}},
		{"market data", &fetchCmd{}},
		{"help", &topicCmd{}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range commands() {
		c.Register(g.cmd, g.group)
	}
}

// exitStatus prints the error on stderr and maps it to an exit status.
//
// Invalid inputs are usage errors, anything else is a failure.
func exitStatus(w io.Writer, err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.Is(err, dca.ErrInvalidInput) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// marketFlags are the flags selecting the market data, shared by several commands.
type marketFlags struct {
	start    string
	end      string
	data     string
	currency string
}

func (m *marketFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&m.start, "start", "", "First day of the simulation (YYYY-MM-DD). Defaults to the first available day.")
	f.StringVar(&m.end, "end", "", "Last day of the simulation (YYYY-MM-DD). Defaults to the last available day.")
	f.StringVar(&m.data, "data", "", "Read market data from a JSONL snapshot instead of eodhd.com.")
	f.StringVar(&m.currency, "currency", "", "Currency of the prices fetched from eodhd.com. Defaults to the configuration. Not allowed with -data.")
}

// query parses the date range and the tickers.
func (m *marketFlags) query(tickers []string) (dca.Query, error) {
	symbols, err := dca.ParseSymbols(tickers)
	if err != nil {
		return dca.Query{}, err
	}
	q := dca.Query{Symbols: symbols}
	if q.Range.From, err = parseDate("start", m.start); err != nil {
		return dca.Query{}, err
	}
	if q.Range.To, err = parseDate("end", m.end); err != nil {
		return dca.Query{}, err
	}
	return q, q.Validate()
}

// parseDate parses an optional date flag, the empty string is the zero date.
func parseDate(name, value string) (date.Date, error) {
	if value == "" {
		return date.Date{}, nil
	}
	on, err := date.Parse(value)
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: -%s: %v", dca.ErrInvalidInput, name, err)
	}
	return on, nil
}

// provider returns the snapshot if -data is set, the eodhd client otherwise.
func (m *marketFlags) provider(c *Config) (dca.Provider, error) {
	if m.data != "" {
		if m.currency != "" {
			return nil, fmt.Errorf("%w: -currency cannot be used with -data, the snapshot sets the currency", dca.ErrInvalidInput)
		}
		return dca.Snapshot{Path: m.data}, nil
	}
	return newClient(c, m.currency)
}

// newClient creates an eodhd client from the configuration.
func newClient(c *Config, currency string) (*eodhd.Client, error) {
	key := c.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: missing eodhd API key, use -eodhd-api-key or %s", dca.ErrInvalidInput, eodhdAPIKeyEnv)
	}
	if currency == "" {
		currency = c.Currency
	}
	if !dca.IsCurrency(currency) {
		return nil, fmt.Errorf("%w: unknown currency %q", dca.ErrInvalidInput, currency)
	}
	opts := []eodhd.ClientOption{
		eodhd.WithBaseURL(c.EODHD.BaseURL),
		eodhd.WithExchange(c.EODHD.Exchange),
		eodhd.WithRateLimit(c.EODHD.RateLimit),
		eodhd.WithCurrency(currency),
	}
	if c.EODHD.Cache {
		opts = append(opts, eodhd.WithCache(""))
	}
	return eodhd.NewClient(key, opts...), nil
}

// strategyFlags are the flags of the investment strategy.
type strategyFlags struct {
	principal int64
	oneBuy    bool
	frequency string
}

func (s *strategyFlags) SetFlags(f *flag.FlagSet) {
	d := dca.DefaultStrategy()
	f.Int64Var(&s.principal, "principal", d.Principal, "Cash invested in every symbol on each buy day. Defaults to the configuration.")
	f.BoolVar(&s.oneBuy, "one-buy", d.OneBuy, "Invest the principal once, on the first buy day.")
	f.StringVar(&s.frequency, "frequency", string(d.Frequency), "Frequency of the buys (monthly, daily). Defaults to the configuration.")
}

// strategy returns the configured strategy, overridden by the flags actually set.
func (s *strategyFlags) strategy(f *flag.FlagSet, c *Config) (dca.Strategy, error) {
	res := c.Strategy
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "principal":
			res.Principal = s.principal
		case "one-buy":
			res.OneBuy = s.oneBuy
		case "frequency":
			res.Frequency, err = dca.ParseFrequency(s.frequency)
		}
	})
	if err != nil {
		return dca.Strategy{}, err
	}
	return res, res.Validate()
}

// run is the common execution of the simulate and log commands.
func run(ctx context.Context, f *flag.FlagSet, m *marketFlags, s *strategyFlags, r dca.Reporter) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	q, err := m.query(f.Args())
	if err != nil {
		return err
	}
	strategy, err := s.strategy(f, c)
	if err != nil {
		return err
	}
	p, err := m.provider(c)
	if err != nil {
		return err
	}
	return dca.Run(ctx, p, q, strategy, r)
}
