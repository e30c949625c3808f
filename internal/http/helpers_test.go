package http

import (
	"net/http/httptest"
	"testing"

	"github.com/sbb135/bioventurerx-app/internal/core"
)

func TestSelectedDrugPhaseDefaults(t *testing.T) {
	p := core.DefaultPortfolio()

	req := httptest.NewRequest("GET", "/ui/impact", nil)
	drug, phase := selectedDrugPhase(req, p)
	if drug != "Entresto" {
		t.Fatalf("default drug = %q", drug)
	}
	if phase != allPhases {
		t.Fatalf("default phase = %q", phase)
	}

	req = httptest.NewRequest("GET", "/ui/impact?drug=X&phase=Seed", nil)
	drug, phase = selectedDrugPhase(req, p)
	if drug != "X" || phase != "Seed" {
		t.Fatalf("explicit params lost: %q %q", drug, phase)
	}

	req = httptest.NewRequest("GET", "/ui/impact?phase=all", nil)
	if _, phase = selectedDrugPhase(req, p); phase != allPhases {
		t.Fatalf("phase=all not normalized: %q", phase)
	}
}

func TestPhaseOptions(t *testing.T) {
	opts := phaseOptions()
	if len(opts) != 8 {
		t.Fatalf("expected 8 options, got %d", len(opts))
	}
	if opts[0] != allPhases || opts[1] != "Market" || opts[7] != "Seed" {
		t.Fatalf("unexpected options: %v", opts)
	}
}

func TestComparisonRows(t *testing.T) {
	d := core.DefaultPortfolio().Records[0]

	rows, err := comparisonRows(d, allPhases)
	if err != nil || len(rows) != 7 {
		t.Fatalf("all phases: rows=%d err=%v", len(rows), err)
	}

	rows, err = comparisonRows(d, "Seed")
	if err != nil || len(rows) != 1 || rows[0].Phase != core.Seed {
		t.Fatalf("single phase: rows=%+v err=%v", rows, err)
	}

	if _, err := comparisonRows(d, "Phase 9"); err == nil {
		t.Fatal("expected error for unknown phase")
	}
}

func TestChartCacheKeyChangesWithPortfolio(t *testing.T) {
	a := core.DefaultPortfolio()
	b := core.Portfolio{Raw: append([]byte(nil), a.Raw...)}
	b.Raw = append(b.Raw, '\n')

	if chartCacheKey(a, "Entresto", "Seed") == chartCacheKey(b, "Entresto", "Seed") {
		t.Fatal("cache key ignores portfolio content")
	}
	if chartCacheKey(a, "Entresto", "Seed") == chartCacheKey(a, "Entresto", "Market") {
		t.Fatal("cache key ignores phase")
	}
}

func TestFormatMillions(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2976, "$2976M"},
		{-59, "-$59M"},
		{0, "$0M"},
		{12.5, "$12.5M"},
	}
	for _, tc := range cases {
		if got := formatMillions(tc.in); got != tc.want {
			t.Fatalf("formatMillions(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDrop(t *testing.T) {
	if got := formatDrop(core.PhaseComparison{Pre: 2976, Post: 1782, Drop: 40.12}); got != "40%" {
		t.Fatalf("formatDrop = %q", got)
	}
	// Undefined percentage stays blank, mirroring the zero-pre guard.
	if got := formatDrop(core.PhaseComparison{Pre: 0, Post: 10, Drop: 0}); got != "" {
		t.Fatalf("formatDrop zero-pre = %q", got)
	}
}
