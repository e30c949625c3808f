package core

import (
	"math"
	"testing"
)

func TestDropPercent(t *testing.T) {
	cases := []struct {
		pre, post, want float64
	}{
		{100, 50, 50},
		{2976, 1782, (2976 - 1782) / 2976.0 * 100},
		{0, 123, 0}, // zero pre never yields NaN
		{0, 0, 0},
		{32, -34, (32 - (-34)) / 32.0 * 100}, // negative post exceeds 100%
		{50, 50, 0},
	}
	for _, tc := range cases {
		got := DropPercent(tc.pre, tc.post)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("DropPercent(%v, %v) = %v, want finite", tc.pre, tc.post, got)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("DropPercent(%v, %v) = %v, want %v", tc.pre, tc.post, got, tc.want)
		}
	}
}

func TestCompareAllFixedOrder(t *testing.T) {
	p := DefaultPortfolio()
	drug, err := p.Record("Entresto")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	rows := CompareAll(drug)
	if len(rows) != 7 {
		t.Fatalf("expected 7 comparison rows, got %d", len(rows))
	}
	want := []Phase{Market, Filing, Phase3, Phase2, Phase1, PC, Seed}
	for i, r := range rows {
		if r.Phase != want[i] {
			t.Fatalf("row %d phase = %q, want %q", i, r.Phase, want[i])
		}
	}
}

func TestEntrestoMarketDrop(t *testing.T) {
	p := DefaultPortfolio()
	drug, err := p.Record("Entresto")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	row, err := ComparePhase(drug, Market)
	if err != nil {
		t.Fatalf("compare market: %v", err)
	}
	if math.Abs(row.Drop-40.12) > 0.01 {
		t.Fatalf("Market drop = %.4f, want ~40.12", row.Drop)
	}
}

func TestComparePhaseUnknown(t *testing.T) {
	d := Drug{Name: "x", Valuations: map[Phase]Valuation{}}
	if _, err := ComparePhase(d, Market); err == nil {
		t.Fatal("expected error for missing phase valuation")
	}
}

func TestSummarize(t *testing.T) {
	p := DefaultPortfolio()
	drug, _ := p.Record("Entresto")
	s := Summarize(drug)

	// Seed goes from 7 to -59, by far the steepest relative drop.
	if s.WorstPhase != Seed {
		t.Fatalf("worst phase = %q, want Seed", s.WorstPhase)
	}
	if s.WorstDrop <= 100 {
		t.Fatalf("worst drop = %.2f, expected above 100%%", s.WorstDrop)
	}
	if s.MeanDrop <= 0 {
		t.Fatalf("mean drop = %.2f, expected positive", s.MeanDrop)
	}
}

func TestZeroPreComparison(t *testing.T) {
	d := Drug{
		Name:       "ZeroCase",
		Valuations: map[Phase]Valuation{},
	}
	for _, p := range Phases() {
		d.Valuations[p] = Valuation{Pre: 0, Post: 10}
	}
	for _, r := range CompareAll(d) {
		if r.Drop != 0 {
			t.Fatalf("phase %q drop = %v, want 0 for zero pre-value", r.Phase, r.Drop)
		}
	}
}
