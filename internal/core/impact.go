package core

// PhaseComparison is one row of the pre/post comparison for a drug,
// recomputed on every render and never persisted.
type PhaseComparison struct {
	Phase Phase
	Pre   float64
	Post  float64
	// Drop is the percentage decrease from Pre to Post. When Pre is 0 the
	// drop is defined as 0 rather than NaN.
	Drop float64
}

// DropPercent computes (pre-post)/pre*100 with the zero-pre guard.
func DropPercent(pre, post float64) float64 {
	if pre == 0 {
		return 0
	}
	return (pre - post) / pre * 100
}

// CompareAll returns one comparison per development phase, in the fixed
// Phases() order.
func CompareAll(d Drug) []PhaseComparison {
	out := make([]PhaseComparison, 0, len(Phases()))
	for _, p := range Phases() {
		v := d.Valuations[p]
		out = append(out, PhaseComparison{
			Phase: p,
			Pre:   v.Pre,
			Post:  v.Post,
			Drop:  DropPercent(v.Pre, v.Post),
		})
	}
	return out
}

// ComparePhase returns the comparison row for a single phase.
func ComparePhase(d Drug, p Phase) (PhaseComparison, error) {
	v, ok := d.Valuations[p]
	if !ok {
		return PhaseComparison{}, ErrUnknownPhase
	}
	return PhaseComparison{Phase: p, Pre: v.Pre, Post: v.Post, Drop: DropPercent(v.Pre, v.Post)}, nil
}

// ImpactSummary aggregates a drug's comparison for reporting: the phase
// with the largest drop and the mean drop across all phases.
type ImpactSummary struct {
	Drug       string
	WorstPhase Phase
	WorstDrop  float64
	MeanDrop   float64
}

// Summarize reduces a drug's full comparison to its summary.
func Summarize(d Drug) ImpactSummary {
	rows := CompareAll(d)
	s := ImpactSummary{Drug: d.Name, WorstPhase: rows[0].Phase, WorstDrop: rows[0].Drop}
	var total float64
	for _, r := range rows {
		total += r.Drop
		if r.Drop > s.WorstDrop {
			s.WorstPhase = r.Phase
			s.WorstDrop = r.Drop
		}
	}
	s.MeanDrop = total / float64(len(rows))
	return s
}
