package http

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/sbb135/bioventurerx-app/internal/core"
)

// selectedDrugPhase resolves the drug and phase query parameters against the
// loaded portfolio. Defaults: the first drug in file order and "All Phases".
func selectedDrugPhase(r *http.Request, p core.Portfolio) (drug, phase string) {
	drug = strings.TrimSpace(r.URL.Query().Get("drug"))
	if drug == "" {
		if drugs := p.Drugs(); len(drugs) > 0 {
			drug = drugs[0]
		}
	}

	phase = strings.TrimSpace(r.URL.Query().Get("phase"))
	if phase == "" || strings.EqualFold(phase, "all") {
		phase = allPhases
	}
	return drug, phase
}

// phaseOptions returns the phase selector entries: the aggregate view first,
// then the seven phases in display order.
func phaseOptions() []string {
	opts := []string{allPhases}
	for _, p := range core.Phases() {
		opts = append(opts, string(p))
	}
	return opts
}

// comparisonRows resolves a phase selection to its comparison rows: all
// seven in fixed order, or exactly the selected phase's pre/post pair.
func comparisonRows(d core.Drug, phaseName string) ([]core.PhaseComparison, error) {
	if phaseName == allPhases {
		return core.CompareAll(d), nil
	}
	phase, err := core.ParsePhase(phaseName)
	if err != nil {
		return nil, err
	}
	row, err := core.ComparePhase(d, phase)
	if err != nil {
		return nil, err
	}
	return []core.PhaseComparison{row}, nil
}

// chartCacheKey fingerprints the portfolio bytes so a new upload never
// serves a stale chart.
func chartCacheKey(p core.Portfolio, drug, phase string) string {
	h := fnv.New64a()
	_, _ = h.Write(p.Raw)
	return strconv.FormatUint(h.Sum64(), 16) + "|" + drug + "|" + phase
}

// formatMillions renders an rNPV value for display, e.g. "$2976M" or "-$59M".
func formatMillions(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:] + "M"
	}
	return "$" + s + "M"
}

// formatDrop renders the % drop column; blank when the pre-value is 0 and
// the percentage is undefined.
func formatDrop(row core.PhaseComparison) string {
	if row.Pre == 0 {
		return ""
	}
	return fmt.Sprintf("%.0f%%", row.Drop)
}
