package visuate

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PahliAi/Visuate/timeseries"
)

// chartPayload renders a minimal v8 chart response for the given days.
func chartPayload(days []timeseries.Date, closes []string) string {
	ts := ""
	for i, d := range days {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprint(d.Unix())
	}
	cl := ""
	for i, c := range closes {
		if i > 0 {
			cl += ","
		}
		cl += c
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, ts, cl)
}

func testYahoo(handler http.HandlerFunc) (*Yahoo, *httptest.Server) {
	srv := httptest.NewServer(handler)
	y := NewYahoo(time.Second)
	y.baseURL = srv.URL + "/"
	return y, srv
}

func TestYahooDaily(t *testing.T) {
	mon := timeseries.New(2026, 1, 5)
	tue := mon.Add(1)
	wed := mon.Add(2)

	var gotPath string
	y, srv := testYahoo(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		// wednesday's close is null: the adapter must drop it
		fmt.Fprint(w, chartPayload([]timeseries.Date{mon, tue, wed}, []string{"10.5", "11.25", "null"}))
	})
	defer srv.Close()

	s, err := y.Daily(" aaa.de ", mon, wed)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if gotPath != "/AAA.DE" {
		t.Errorf("request path = %q want normalized /AAA.DE", gotPath)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d want 2 (null close dropped)", s.Len())
	}
	if v, ok := s.Get(tue); !ok || v != 11.25 {
		t.Errorf("Get(%s) = %v, %v want 11.25, true", tue, v, ok)
	}
	if _, ok := s.Get(wed); ok {
		t.Errorf("Get(%s): null close leaked into the series", wed)
	}
}

func TestYahooDailyRatesSymbol(t *testing.T) {
	mon := timeseries.New(2026, 1, 5)
	var gotPath string
	y, srv := testYahoo(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, chartPayload([]timeseries.Date{mon}, []string{"1.0912"}))
	})
	defer srv.Close()

	s, err := y.DailyRates("usd", mon, mon)
	if err != nil {
		t.Fatalf("DailyRates: %v", err)
	}
	if gotPath != "/EURUSD=X" {
		t.Errorf("request path = %q want /EURUSD=X", gotPath)
	}
	if v, ok := s.Get(mon); !ok || v != 1.0912 {
		t.Errorf("Get(%s) = %v, %v want 1.0912, true", mon, v, ok)
	}
}

func TestYahooNoData(t *testing.T) {
	y, srv := testYahoo(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	})
	defer srv.Close()

	mon := timeseries.New(2026, 1, 5)
	if _, err := y.Daily("AAA", mon, mon); !errors.Is(err, ErrNoData) {
		t.Errorf("Daily on empty result: err = %v want ErrNoData", err)
	}
}

func TestYahooHTTPError(t *testing.T) {
	y, srv := testYahoo(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	})
	defer srv.Close()

	mon := timeseries.New(2026, 1, 5)
	if _, err := y.Daily("AAA", mon, mon); err == nil {
		t.Errorf("Daily on 429: err = nil want error")
	}
}

func TestYahooTrimsOutOfRangeDays(t *testing.T) {
	mon := timeseries.New(2026, 1, 5)
	tue := mon.Add(1)
	y, srv := testYahoo(func(w http.ResponseWriter, r *http.Request) {
		// response padded one day past the requested range
		fmt.Fprint(w, chartPayload([]timeseries.Date{mon, tue}, []string{"10", "11"}))
	})
	defer srv.Close()

	s, err := y.Daily("AAA", mon, mon)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d want 1, padding trimmed", s.Len())
	}
}
