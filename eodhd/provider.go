package eodhd

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/rs/zerolog/log"
)

// check that Client is a Provider.
var _ dca.Provider = (*Client)(nil)

// Ticker returns the eodhd ticker of a symbol: the symbol itself if it has an
// exchange suffix, otherwise the symbol on the default exchange.
func (c *Client) Ticker(s dca.Symbol) string {
	if strings.Contains(string(s), ".") {
		return string(s)
	}
	return string(s) + "." + c.exchange
}

// Fetch implements dca.Provider.
//
// Symbols are fetched one after the other. The market data is keyed by the
// symbols as given, not by their eodhd ticker.
func (c *Client) Fetch(ctx context.Context, symbols []dca.Symbol, r date.Range) (*dca.MarketData, error) {
	b := dca.NewMarketDataBuilder(c.currency, symbols...)
	for _, s := range symbols {
		if err := c.fetchSymbol(ctx, b, s, r); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// fetchSymbol collects the prices, dividends and splits of one symbol.
func (c *Client) fetchSymbol(ctx context.Context, b *dca.MarketDataBuilder, s dca.Symbol, r date.Range) error {
	ticker := c.Ticker(s)

	prices, err := c.fetchPrices(ctx, ticker, r)
	if err != nil {
		return fmt.Errorf("cannot fetch prices of %s: %w", ticker, err)
	}
	if len(prices) == 0 {
		return fmt.Errorf("%w: no price for %s in %s", dca.ErrDataUnavailable, ticker, r)
	}
	for _, p := range prices {
		if !p.Close.Valid {
			log.Debug().Str("ticker", ticker).Str("on", p.Date.String()).Msg("no close price, day dropped")
			continue
		}
		if err := b.SetClose(s, p.Date, p.Close.Decimal); err != nil {
			return err
		}
	}

	dividends, err := c.fetchDividends(ctx, ticker, r)
	if err != nil {
		return fmt.Errorf("cannot fetch dividends of %s: %w", ticker, err)
	}
	for _, d := range dividends {
		if d.Currency != "" && d.Currency != c.currency {
			log.Warn().Str("ticker", ticker).Str("on", d.Date.String()).Str("currency", d.Currency).Msg("dividend currency differs from the price currency")
		}
		if err := b.SetDividend(s, d.Date, d.Amount()); err != nil {
			return err
		}
	}

	splits, err := c.fetchSplits(ctx, ticker, r)
	if err != nil {
		return fmt.Errorf("cannot fetch splits of %s: %w", ticker, err)
	}
	for on, split := range splits {
		if err := b.SetSplit(s, on, split); err != nil {
			return err
		}
	}

	log.Debug().Str("ticker", ticker).Int("prices", len(prices)).Int("dividends", len(dividends)).Int("splits", len(splits)).Msg("fetched")
	return nil
}
