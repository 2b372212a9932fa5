package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API endpoints.

// rangeParams returns the from/to query parameters, open bounds are omitted.
func rangeParams(r date.Range) url.Values {
	params := url.Values{}
	if !r.From.IsZero() {
		params.Set("from", r.From.String())
	}
	if !r.To.IsZero() {
		params.Set("to", r.To.String())
	}
	return params
}

// priceData is an end of day price.
type priceData struct {
	// https://eodhd.com/api/eod/MCD.US?fmt=json
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	}
	Date  date.Date           `json:"date"`
	Close decimal.NullDecimal `json:"close"` // null on days without a trade
}

// fetchPrices returns the raw daily close prices of a ticker, bounds included.
func (c *Client) fetchPrices(ctx context.Context, ticker string, r date.Range) ([]priceData, error) {
	params := rangeParams(r)
	params.Set("period", "d")
	params.Set("order", "a")

	content := make([]priceData, 0)
	if err := c.get(ctx, "/eod/"+ticker, params, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// dividendData is a cash dividend on its ex-dividend date.
type dividendData struct {
	Date            date.Date           `json:"date"` // ex-dividend date, see https://eodhd.com/financial-apis/api-splits-dividends
	Value           decimal.Decimal     `json:"value"`
	UnadjustedValue decimal.NullDecimal `json:"unadjustedValue"`
	Currency        string              `json:"currency"`
}

// Amount returns the unadjusted dividend per share, or the value if the
// unadjusted one is missing.
func (d dividendData) Amount() decimal.Decimal {
	if d.UnadjustedValue.Valid && !d.UnadjustedValue.Decimal.IsZero() {
		return d.UnadjustedValue.Decimal
	}
	return d.Value
}

// fetchDividends returns the dividend history of a ticker.
func (c *Client) fetchDividends(ctx context.Context, ticker string, r date.Range) ([]dividendData, error) {
	content := make([]dividendData, 0)
	if err := c.get(ctx, "/div/"+ticker, rangeParams(r), &content); err != nil {
		return nil, err
	}
	return content, nil
}

// splitData is a split as returned by the API, e.g "4.000000/1.000000".
type splitData struct {
	Date  date.Date `json:"date"`
	Split string    `json:"split"`
}

// fetchSplits returns the split history of a ticker.
func (c *Client) fetchSplits(ctx context.Context, ticker string, r date.Range) (map[date.Date]dca.Split, error) {
	content := make([]splitData, 0)
	if err := c.get(ctx, "/splits/"+ticker, rangeParams(r), &content); err != nil {
		return nil, err
	}

	splits := make(map[date.Date]dca.Split, len(content))
	for _, s := range content {
		split, err := dca.ParseSplit(s.Split)
		if err != nil {
			return nil, fmt.Errorf("invalid split format from API for %s on %s: %w", ticker, s.Date, err)
		}
		splits[s.Date] = split
	}
	return splits, nil
}
