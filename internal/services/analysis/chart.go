package analysis

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/strata/internal/models"
)

// RenderChart renders a PNG of the adjusted close with the running peak
// overlaid, so drawdowns read directly off the gap between the lines.
// Returns raw PNG bytes.
func (s *Service) RenderChart(ctx context.Context, series *models.PriceSeries) ([]byte, error) {
	if series == nil || series.Len() < 2 {
		got := 0
		if series != nil {
			got = series.Len()
		}
		return nil, fmt.Errorf("need at least 2 bars to chart, got %d", got)
	}

	xValues := make([]time.Time, series.Len())
	priceY := make([]float64, series.Len())
	peakY := make([]float64, series.Len())

	peak := series.Bars[0].AdjClose
	for i, b := range series.Bars {
		xValues[i] = b.Date
		priceY[i] = b.AdjClose
		if b.AdjClose > peak {
			peak = b.AdjClose
		}
		peakY[i] = peak
	}

	priceSeries := chart.TimeSeries{
		Name: series.Symbol,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: priceY,
	}

	peakSeries := chart.TimeSeries{
		Name: "Running Peak",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: peakY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Adjusted Close", series.Symbol),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			priceSeries,
			peakSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
