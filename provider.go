package visuate

import (
	"errors"

	"github.com/PahliAi/Visuate/timeseries"
)

// ErrNoData is returned by provider adapters when a query succeeds but the
// provider has no observations for the requested symbol and range.
var ErrNoData = errors.New("provider returned no data")

// PriceProvider fetches daily close observations for a ticker over an
// inclusive date range. Adapters normalize whatever the provider's native
// response shape is into a flat date-keyed series; an empty series is a
// valid answer.
type PriceProvider interface {
	Daily(ticker string, from, to timeseries.Date) (*timeseries.Series, error)
}

// RateProvider fetches daily EUR-base exchange rates, expressed as units of
// currency per 1 EUR, over an inclusive date range.
type RateProvider interface {
	DailyRates(currency string, from, to timeseries.Date) (*timeseries.Series, error)
}

// SpotProvider returns a current-instant snapshot of all supported EUR-base
// rates. It is used only as a last resort when the historical lookup fails
// for today.
type SpotProvider interface {
	SpotRates() (map[string]float64, error)
}
