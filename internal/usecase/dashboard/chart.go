package dashboard

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// RenderDevelopmentChart renders a PNG line chart of a development curve.
// Two series: Value (blue solid) and Deposited, the running deposit total (gray dashed).
func RenderDevelopmentChart(rows []domain.DevelopmentRow) ([]byte, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, got %d", domain.ErrNotEnoughData, len(rows))
	}

	xValues := make([]time.Time, len(rows))
	valueY := make([]float64, len(rows))
	depositedY := make([]float64, len(rows))

	deposited := decimal.Zero
	for i, row := range rows {
		deposited = deposited.Add(row.Deposit)

		xValues[i] = row.Date.In(time.UTC)
		valueY[i] = row.Value.InexactFloat64()
		depositedY[i] = deposited.InexactFloat64()
	}

	valueSeries := chart.TimeSeries{
		Name: "Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	}

	depositedSeries := chart.TimeSeries{
		Name: "Deposited",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: depositedY,
	}

	graph := chart.Chart{
		Title:  "Portfolio Development",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("2006-01-02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			valueSeries,
			depositedSeries,
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
