package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/networth"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// BreakdownChart writes a PNG pie chart of the subcategory shares to 'w'.
//
// Slices follow the networth.Subcategories order, empty ones are skipped.
func BreakdownChart(w io.Writer, title string, shares map[networth.Subcategory]networth.Percent) error {
	var values []chart.Value
	for _, sub := range sortedSubcategories(shares) {
		share := shares[sub]
		if share <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", sub, float64(share)),
			Value: float64(share),
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("nothing to plot: %w", networth.ErrEmptyAggregate)
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  600,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// SeriesChart writes a PNG line chart of a balance history to 'w'.
func SeriesChart(w io.Writer, title string, series []networth.BalancePoint) error {
	if len(series) < 2 {
		return fmt.Errorf("need at least 2 data points, got %d", len(series))
	}
	ts := chart.TimeSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
	}
	for _, pt := range series {
		ts.XValues = append(ts.XValues, pt.On.Time())
		ts.YValues = append(ts.YValues, pt.Balance.Float())
	}
	currency := series[len(series)-1].Balance.Currency()

	graph := chart.Chart{
		Title:  title,
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
					return fmt.Sprintf("%.0fk %s", f/1000, currency)
				}
				return ""
			},
		},
		Series: []chart.Series{ts},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
