package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer serves canned answers per path and counts the requests.
type fakeServer struct {
	*httptest.Server
	hits atomic.Int32
	last atomic.Value // last query string
}

func newFakeServer(t *testing.T, answers map[string]string) *fakeServer {
	t.Helper()
	f := &fakeServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.last.Store(r.URL.RawQuery)
		if r.URL.Query().Get("api_token") != "test-key" {
			http.Error(w, "Unauthenticated", http.StatusUnauthorized)
			return
		}
		body, ok := answers[r.URL.Path]
		if !ok {
			http.Error(w, "Ticker Not Found.", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

var answers = map[string]string{
	"/eod/AAPL.US": `[
		{"date":"2020-08-28","open":504.05,"high":505.77,"low":498.31,"close":499.23,"adjusted_close":122.43,"volume":46907479},
		{"date":"2020-08-31","open":127.58,"high":131,"low":126,"close":129.04,"adjusted_close":126.55,"volume":225702700}
	]`,
	"/div/AAPL.US": `[{"date":"2020-08-07","value":0.205,"unadjustedValue":0.82,"currency":"USD"}]`,
	"/splits/AAPL.US": `[{"date":"2020-08-31","split":"4.000000/1.000000"},{"date":"2020-08-28","split":"0.000000/1.000000"}]`,
	"/eod/MC.PA": `[
		{"date":"2020-08-28","close":390.1},
		{"date":"2020-08-31","close":387.5}
	]`,
	"/div/MC.PA":    `[{"date":"2020-08-31","value":1.2,"currency":"EUR"}]`,
	"/splits/MC.PA": `[]`,
	"/eod/NONE.US":  `[]`,
	"/eod/GAP.US": `[
		{"date":"2024-01-02","close":10},
		{"date":"2024-02-01","close":null},
		{"date":"2024-02-02","close":12}
	]`,
	"/div/GAP.US":    `[]`,
	"/splits/GAP.US": `[]`,
	"/div/BAD.US":    `not json`,
	"/eod/BAD.US":    `[{"date":"2020-08-28","close":1}]`,
}

func TestClient_Fetch(t *testing.T) {
	srv := newFakeServer(t, answers)
	c := NewClient("test-key", WithBaseURL(srv.URL))

	m, err := c.Fetch(context.Background(), []dca.Symbol{"AAPL", "MC.PA"}, date.Range{From: date.New(2020, 8, 1), To: date.New(2020, 8, 31)})
	require.NoError(t, err)

	assert.Equal(t, []dca.Symbol{"AAPL", "MC.PA"}, m.Symbols())
	assert.Equal(t, "USD", m.Currency())
	require.Len(t, m.Days(), 2)

	last := date.New(2020, 8, 31)
	price, ok := m.Close("AAPL", last)
	assert.True(t, ok)
	assert.Equal(t, "$129.04", price.String())

	// the split of 2020-08-31 is kept, the zero split is NoSplit.
	assert.True(t, m.Split("AAPL", last).IsSplit())
	assert.False(t, m.Split("AAPL", date.New(2020, 8, 28)).IsSplit())
	assert.Equal(t, []date.Date{last}, m.SplitDays())

	// the AAPL dividend is outside the calendar, MC.PA's value is used without an unadjusted one.
	assert.True(t, m.Dividend("AAPL", date.New(2020, 8, 7)).IsZero())
	assert.Equal(t, "$1.20", m.Dividend("MC.PA", last).String())

	assert.Contains(t, srv.last.Load().(string), "from=2020-08-01")
	assert.Contains(t, srv.last.Load().(string), "to=2020-08-31")
}

func TestClient_Fetch_NullClose(t *testing.T) {
	srv := newFakeServer(t, answers)
	c := NewClient("test-key", WithBaseURL(srv.URL))

	m, err := c.Fetch(context.Background(), []dca.Symbol{"GAP"}, date.Range{})
	require.NoError(t, err)

	assert.Equal(t, []date.Date{date.New(2024, 1, 2), date.New(2024, 2, 2)}, m.Days())
	_, ok := m.Close("GAP", date.New(2024, 2, 1))
	assert.False(t, ok)

	// the first trading day of February is now the 2nd.
	res, err := dca.Simulate(m, dca.DefaultStrategy())
	require.NoError(t, err)
	assert.Equal(t, 2, res.BuyDays)
}

func TestClient_Fetch_Errors(t *testing.T) {
	srv := newFakeServer(t, answers)

	testCases := []struct {
		name   string
		key    string
		symbol dca.Symbol
		check  func(t *testing.T, err error)
	}{
		{"Unknown ticker", "test-key", "ZZZ", func(t *testing.T, err error) {
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
			assert.Equal(t, "/eod/ZZZ.US", apiErr.Endpoint)
		}},
		{"Bad key", "wrong", "AAPL", func(t *testing.T, err error) {
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		}},
		{"No prices", "test-key", "NONE", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, dca.ErrDataUnavailable)
		}},
		{"Invalid answer", "test-key", "BAD", func(t *testing.T, err error) {
			assert.ErrorContains(t, err, "failed to decode response")
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(tc.key, WithBaseURL(srv.URL))
			_, err := c.Fetch(context.Background(), []dca.Symbol{tc.symbol}, date.Range{})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClient_Cache(t *testing.T) {
	srv := newFakeServer(t, answers)
	c := NewClient("test-key", WithBaseURL(srv.URL), WithCache(t.TempDir()))

	for range 2 {
		_, err := c.Fetch(context.Background(), []dca.Symbol{"MC.PA"}, date.Range{})
		require.NoError(t, err)
	}
	// eod, div and splits once each.
	assert.Equal(t, int32(3), srv.hits.Load())
}

func TestClient_CanceledContext(t *testing.T) {
	srv := newFakeServer(t, answers)
	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, []dca.Symbol{"AAPL"}, date.Range{})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestClient_Ticker(t *testing.T) {
	assert.Equal(t, "AAPL.US", NewClient("").Ticker("AAPL"))
	assert.Equal(t, "MC.PA", NewClient("").Ticker("MC.PA"))
	assert.Equal(t, "SAP.XETRA", NewClient("", WithExchange("XETRA")).Ticker("SAP"))
}

func TestDividendAmount(t *testing.T) {
	var d dividendData
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2020-08-07","value":0.205,"unadjustedValue":0.82}`), &d))
	assert.Equal(t, "0.82", d.Amount().String())

	d = dividendData{}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2020-08-07","value":0.205,"unadjustedValue":null}`), &d))
	assert.Equal(t, "0.205", d.Amount().String())
}
