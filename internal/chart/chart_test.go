package chart

import (
	"bytes"
	"testing"

	"github.com/sbb135/bioventurerx-app/internal/core"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func entresto(t *testing.T) core.Drug {
	t.Helper()
	d, err := core.DefaultPortfolio().Record("Entresto")
	if err != nil {
		t.Fatalf("default record: %v", err)
	}
	return d
}

func TestRenderImpactProducesPNG(t *testing.T) {
	var buf bytes.Buffer
	rows := core.CompareAll(entresto(t))

	if err := RenderImpact(&buf, "Entresto", rows); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestRenderImpactDeterministic(t *testing.T) {
	rows := core.CompareAll(entresto(t))

	var a, b bytes.Buffer
	if err := RenderImpact(&a, "Entresto", rows); err != nil {
		t.Fatalf("render a: %v", err)
	}
	if err := RenderImpact(&b, "Entresto", rows); err != nil {
		t.Fatalf("render b: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("same input rendered different PNGs")
	}
}

func TestRenderImpactEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderImpact(&buf, "Entresto", nil); err == nil {
		t.Fatal("expected error for empty rows")
	}
}

func TestRenderPhaseWithNegativePost(t *testing.T) {
	var buf bytes.Buffer
	row, err := core.ComparePhase(entresto(t), core.Seed)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	// Seed is 7 pre, -59 post; the bar chart must handle the negative bar.
	if err := RenderPhase(&buf, "Entresto", row); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestRenderPhaseZeroPre(t *testing.T) {
	var buf bytes.Buffer
	row := core.PhaseComparison{Phase: core.Market, Pre: 0, Post: 10, Drop: 0}
	if err := RenderPhase(&buf, "ZeroCase", row); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestValueRange(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
	}{
		{"all positive", []float64{7, 2976}},
		{"mixed signs", []float64{-59, 2976}},
		{"all zero", []float64{0, 0}},
	}
	for _, tc := range cases {
		min, max := valueRange(tc.values)
		if min > 0 || max <= min {
			t.Fatalf("%s: range [%v, %v] does not bracket zero", tc.name, min, max)
		}
		for _, v := range tc.values {
			if v < min || v > max {
				t.Fatalf("%s: value %v outside range [%v, %v]", tc.name, v, min, max)
			}
		}
	}
}
