package visuate

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// spotURL serves a current-instant snapshot of every supported rate against
// the EUR base, 160+ currencies in one response.
const spotURL = "https://api.exchangerate-api.com/v4/latest/EUR"

// ExchangeRateAPI is the snapshot rate adapter. It only knows "now": the
// run uses it as the last-resort fallback when the historical provider has
// no rate for today yet.
type ExchangeRateAPI struct {
	client *http.Client
	url    string
}

// NewExchangeRateAPI returns a snapshot adapter with a fixed network
// timeout.
func NewExchangeRateAPI(timeout time.Duration) *ExchangeRateAPI {
	return &ExchangeRateAPI{client: &http.Client{Timeout: timeout}, url: spotURL}
}

var _ SpotProvider = (*ExchangeRateAPI)(nil)

// SpotRates returns the current units-per-EUR rate for every currency the
// snapshot endpoint supports.
func (c *ExchangeRateAPI) SpotRates() (map[string]float64, error) {
	var jobj any
	if err := jwget(c.client, c.url, &jobj); err != nil {
		return nil, fmt.Errorf("spot rates: %w", err)
	}

	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return nil, fmt.Errorf("spot rates: parsing %q: %w", "$.rates", err)
	}
	jmap, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("spot rates: unexpected payload shape %T", jval)
	}

	rates := make(map[string]float64, len(jmap))
	for code, v := range jmap {
		if f, ok := v.(float64); ok && f > 0 {
			rates[code] = f
		}
	}
	if len(rates) == 0 {
		return nil, ErrNoData
	}
	return rates, nil
}
