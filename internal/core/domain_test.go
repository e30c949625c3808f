package core

import (
	"errors"
	"testing"
)

func TestPhasesOrder(t *testing.T) {
	want := []Phase{"Market", "Filing", "Phase 3", "Phase 2", "Phase 1", "PC", "Seed"}
	got := Phases()
	if len(got) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("phase %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParsePhase(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Market", true},
		{"Phase 3", true},
		{" Seed ", true},
		{"All Phases", false},
		{"phase 3", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParsePhase(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParsePhase(%q): %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrUnknownPhase) {
			t.Fatalf("ParsePhase(%q): err = %v, want ErrUnknownPhase", tc.in, err)
		}
	}
}

func TestPortfolioRecordLookup(t *testing.T) {
	p := DefaultPortfolio()

	if _, err := p.Record("Entresto"); err != nil {
		t.Fatalf("lookup Entresto: %v", err)
	}
	if _, err := p.Record("Humira"); !errors.Is(err, ErrUnknownDrug) {
		t.Fatalf("lookup Humira: err = %v, want ErrUnknownDrug", err)
	}
	if drugs := p.Drugs(); len(drugs) != 1 || drugs[0] != "Entresto" {
		t.Fatalf("drugs = %v", drugs)
	}
}

func TestDrugValidate(t *testing.T) {
	full := DefaultPortfolio().Records[0]
	if err := full.Validate(); err != nil {
		t.Fatalf("valid drug rejected: %v", err)
	}

	noName := full
	noName.Name = "  "
	if err := noName.Validate(); !errors.Is(err, ErrEmptyDrugName) {
		t.Fatalf("err = %v, want ErrEmptyDrugName", err)
	}

	partial := Drug{Name: "x", Valuations: map[Phase]Valuation{Market: {}}}
	if err := partial.Validate(); err == nil {
		t.Fatal("expected error for missing phase valuations")
	}
}
