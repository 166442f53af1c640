package visuate

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PahliAi/Visuate/timeseries"
)

// This file contains the Yahoo Finance v8 chart adapter. It serves both
// provider roles: instrument prices by ticker, and EUR-base FX rates via the
// synthetic "EUR<CCY>=X" tickers.

const yahooChartURL = "https://query2.finance.yahoo.com/v8/finance/chart/"

// Yahoo is a provider adapter over the Yahoo Finance chart API.
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// NewYahoo returns an adapter with a fixed per-call network timeout. A
// timeout surfaces as an ordinary provider error for that one query.
func NewYahoo(timeout time.Duration) *Yahoo {
	return &Yahoo{client: &http.Client{Timeout: timeout}, baseURL: yahooChartURL}
}

var _ PriceProvider = (*Yahoo)(nil)
var _ RateProvider = (*Yahoo)(nil)

// Daily returns the daily close prices for a ticker over [from, to].
func (y *Yahoo) Daily(ticker string, from, to timeseries.Date) (*timeseries.Series, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker")
	}
	return y.chart(ticker, from, to)
}

// DailyRates returns the units-per-EUR rates for a currency code over
// [from, to], e.g. "USD" queries the EURUSD=X pair.
func (y *Yahoo) DailyRates(currency string, from, to timeseries.Date) (*timeseries.Series, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("empty currency code")
	}
	return y.chart("EUR"+currency+"=X", from, to)
}

// chart queries the v8 chart endpoint for one symbol and flattens the
// response into a date-keyed close series.
func (y *Yahoo) chart(symbol string, from, to timeseries.Date) (*timeseries.Series, error) {
	// period2 is exclusive, so push it one day past 'to'.
	addr := fmt.Sprintf("%s%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, url.PathEscape(symbol), from.Unix(), to.Add(1).Unix())

	// the shape of the v8 chart payload; close values may be null, which
	// decode as zero and are dropped below.
	var raw struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}

	if err := jwget(y.client, addr, &raw); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	r := raw.Chart.Result[0]
	series := new(timeseries.Series)
	if len(r.Indicators.Quote) == 0 {
		return series, nil
	}
	closes := r.Indicators.Quote[0].Close
	for i, ts := range r.Timestamp {
		if i >= len(closes) {
			break
		}
		c := closes[i]
		if c <= 0 {
			continue
		}
		day := timeseries.FromTime(time.Unix(ts, 0).UTC())
		// the inclusive range check guards against providers padding the
		// response beyond the requested window.
		if day.Before(from) || day.After(to) {
			continue
		}
		series.Put(day, c)
	}
	return series, nil
}
