package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	visuate "github.com/PahliAi/Visuate"
)

// RenderPriceChart renders a PNG line chart of every instrument's EUR price
// history, one colored series per instrument. Returns raw PNG bytes.
func RenderPriceChart(book *visuate.PriceBook) ([]byte, error) {
	palette := []string{
		"2563eb", // blue-600
		"dc2626", // red-600
		"16a34a", // green-600
		"9333ea", // purple-600
		"d97706", // amber-600
		"0891b2", // cyan-600
	}

	var series []chart.Series
	for i, inst := range book.Instruments() {
		s := book.Series(inst.Name)
		if s.Len() < 2 {
			continue
		}
		xValues := make([]time.Time, 0, s.Len())
		yValues := make([]float64, 0, s.Len())
		for day, v := range s.Values() {
			xValues = append(xValues, time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC))
			yValues = append(yValues, v)
		}
		series = append(series, chart.TimeSeries{
			Name: inst.Name,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(palette[i%len(palette)]),
				StrokeWidth: 2,
			},
			XValues: xValues,
			YValues: yValues,
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no instrument has enough history to chart")
	}

	graph := chart.Chart{
		Title:  "Price History (EUR)",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("02 Jan")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("€%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePriceChart renders the chart and writes it to path.
func WritePriceChart(path string, book *visuate.PriceBook) error {
	png, err := RenderPriceChart(book)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}
