package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Market Phase = "Market"
	Filing Phase = "Filing"
	Phase3 Phase = "Phase 3"
	Phase2 Phase = "Phase 2"
	Phase1 Phase = "Phase 1"
	PC     Phase = "PC"
	Seed   Phase = "Seed"
)

type (
	// Phase is a drug-development stage. PC stands for Pre-Clinical.
	Phase string

	// Valuation holds the risk-adjusted NPV of a program at one phase,
	// in $M, before and after the modeled policy change. Either figure
	// may be negative.
	Valuation struct {
		Pre  float64
		Post float64
	}

	Drug struct {
		Name         string
		ApprovalYear int
		MoleculeType string
		Indication   string
		Valuations   map[Phase]Valuation
	}

	// Portfolio is an immutable set of drug records plus the exact CSV
	// bytes it was loaded from. Raw is what the download endpoint serves,
	// unchanged.
	Portfolio struct {
		Records []Drug
		Raw     []byte
	}
)

var (
	ErrEmptyDrugName = errors.New("empty drug name")
	ErrUnknownDrug   = errors.New("unknown drug")
	ErrUnknownPhase  = errors.New("unknown phase")
)

// Phases returns the development phases in display order, latest stage first.
func Phases() []Phase {
	return []Phase{Market, Filing, Phase3, Phase2, Phase1, PC, Seed}
}

// ParsePhase maps a phase name to its Phase constant.
func ParsePhase(s string) (Phase, error) {
	for _, p := range Phases() {
		if string(p) == strings.TrimSpace(s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}

func (d Drug) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyDrugName
	}
	for _, p := range Phases() {
		if _, ok := d.Valuations[p]; !ok {
			return fmt.Errorf("drug %q: missing valuation for phase %q", d.Name, p)
		}
	}
	return nil
}

// Record returns the drug with the given name.
func (p Portfolio) Record(name string) (Drug, error) {
	for _, d := range p.Records {
		if d.Name == name {
			return d, nil
		}
	}
	return Drug{}, fmt.Errorf("%w: %q", ErrUnknownDrug, name)
}

// Drugs returns the drug names in file order.
func (p Portfolio) Drugs() []string {
	out := make([]string, 0, len(p.Records))
	for _, d := range p.Records {
		out = append(out, d.Name)
	}
	return out
}
