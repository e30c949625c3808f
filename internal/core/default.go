package core

// DefaultPortfolio returns the built-in single-record portfolio: the Entresto
// example from Xie, Cameron and Kolchinsky's project-level IRA analysis
// (Therapeutic Innovation & Regulatory Science, 2025). Figures are rNPV in $M.
func DefaultPortfolio() Portfolio {
	entresto := Drug{
		Name:         "Entresto",
		ApprovalYear: 2015,
		MoleculeType: "Small Molecule",
		Indication:   "Heart Failure",
		Valuations: map[Phase]Valuation{
			Market: {Pre: 2976, Post: 1782},
			Filing: {Pre: 2262, Post: 1355},
			Phase3: {Pre: 1105, Post: 618},
			Phase2: {Pre: 272, Post: 133},
			Phase1: {Pre: 82, Post: 16},
			PC:     {Pre: 32, Post: -34},
			Seed:   {Pre: 7, Post: -59},
		},
	}

	raw, err := EncodePortfolioCSV([]Drug{entresto})
	if err != nil {
		// The built-in record is constant; encoding it cannot fail.
		panic("encode default portfolio: " + err.Error())
	}
	return Portfolio{Records: []Drug{entresto}, Raw: raw}
}
