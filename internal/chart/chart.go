// Package chart renders the pre/post-IRA valuation comparison as PNG images
// served by the dashboard.
package chart

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sbb135/bioventurerx-app/internal/core"
)

var (
	preColor  = drawing.ColorFromHex("003366")
	postColor = drawing.ColorFromHex("3399FF")
)

const (
	impactWidth  = 1100
	impactHeight = 600
	phaseWidth   = 700
	phaseHeight  = 500
)

// RenderImpact draws the all-phases view: a grouped bar chart with one
// pre/post pair per development phase, in the fixed phase order.
func RenderImpact(w io.Writer, drug string, rows []core.PhaseComparison) error {
	if len(rows) == 0 {
		return fmt.Errorf("no comparison rows for %q", drug)
	}

	bars := make([]chart.Value, 0, len(rows)*2)
	var values []float64
	for _, r := range rows {
		bars = append(bars,
			chart.Value{Value: r.Pre, Label: string(r.Phase), Style: barStyle(preColor)},
			chart.Value{Value: r.Post, Label: "", Style: barStyle(postColor)},
		)
		values = append(values, r.Pre, r.Post)
	}

	nMin, nMax := valueRange(values)
	bc := chart.BarChart{
		Title:      fmt.Sprintf("NPV Impact (Pre vs Post IRA) - %s", drug),
		Width:      impactWidth,
		Height:     impactHeight,
		BarWidth:   48,
		BarSpacing: 14,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  "Net Present Value ($M)",
			Range: &chart.ContinuousRange{Min: nMin, Max: nMax},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render impact chart: %w", err)
	}
	return nil
}

// RenderPhase draws the single-phase view: two bars for the selected phase's
// pre/post pair. The % drop annotates the post bar label, except when the
// pre-value is 0 and the percentage is undefined.
func RenderPhase(w io.Writer, drug string, row core.PhaseComparison) error {
	postLabel := "Post-IRA"
	if row.Pre != 0 {
		postLabel = fmt.Sprintf("Post-IRA (%.0f%% drop)", row.Drop)
	}

	nMin, nMax := valueRange([]float64{row.Pre, row.Post})
	bc := chart.BarChart{
		Title:      fmt.Sprintf("NPV at %s Phase - %s", row.Phase, drug),
		Width:      phaseWidth,
		Height:     phaseHeight,
		BarWidth:   110,
		BarSpacing: 40,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  "Net Present Value ($M)",
			Range: &chart.ContinuousRange{Min: nMin, Max: nMax},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars: []chart.Value{
			{Value: row.Pre, Label: "Pre-IRA", Style: barStyle(preColor)},
			{Value: row.Post, Label: postLabel, Style: barStyle(postColor)},
		},
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render phase chart: %w", err)
	}
	return nil
}

func barStyle(c drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   c,
		StrokeColor: c,
		StrokeWidth: 0,
	}
}

// valueRange derives the y-axis range from the observed values. Zero is
// always inside the range so negative post-IRA bars stay anchored, with 5%
// headroom on the dominant side.
func valueRange(values []float64) (float64, float64) {
	var min, max float64
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == 0 && max == 0 {
		return 0, 1
	}
	pad := (max - min) * 0.05
	if min < 0 {
		min -= pad
	}
	if max > 0 {
		max += pad
	}
	return min, max
}
