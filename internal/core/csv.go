package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingColumns marks an uploaded table that lacks one or more of the
// required columns. Parsing halts without returning partial data.
var ErrMissingColumns = errors.New("missing required columns")

const (
	colDrug         = "Drug"
	colApprovalYear = "Approval Year"
	colMolecule     = "Molecule Type"
	colIndication   = "Indication"

	preSuffix  = "_Pre_IRA"
	postSuffix = "_Post_IRA"
)

// RequiredColumns returns the 18 columns an uploaded portfolio table must
// carry: the four descriptive columns followed by a pre/post pair per phase.
func RequiredColumns() []string {
	cols := []string{colDrug, colApprovalYear, colMolecule, colIndication}
	for _, p := range Phases() {
		cols = append(cols, string(p)+preSuffix, string(p)+postSuffix)
	}
	return cols
}

// ParsePortfolioCSV decodes an uploaded portfolio table. The header is
// validated first: if any required column is absent the whole upload is
// rejected with ErrMissingColumns. Extra columns are tolerated; the original
// bytes are retained on the Portfolio for byte-identical export.
func ParsePortfolioCSV(b []byte) (Portfolio, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return Portfolio{}, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Portfolio{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var records []Drug
	row := 1
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Portfolio{}, fmt.Errorf("read csv row %d: %w", row+1, err)
		}
		row++

		get := func(col string) string {
			i := idx[col]
			if i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		year, err := strconv.Atoi(get(colApprovalYear))
		if err != nil {
			return Portfolio{}, fmt.Errorf("row %d: column %q: invalid integer %q", row, colApprovalYear, get(colApprovalYear))
		}

		d := Drug{
			Name:         get(colDrug),
			ApprovalYear: year,
			MoleculeType: get(colMolecule),
			Indication:   get(colIndication),
			Valuations:   make(map[Phase]Valuation, len(Phases())),
		}
		for _, p := range Phases() {
			pre, err := parseValue(get(string(p) + preSuffix))
			if err != nil {
				return Portfolio{}, fmt.Errorf("row %d: column %q: %w", row, string(p)+preSuffix, err)
			}
			post, err := parseValue(get(string(p) + postSuffix))
			if err != nil {
				return Portfolio{}, fmt.Errorf("row %d: column %q: %w", row, string(p)+postSuffix, err)
			}
			d.Valuations[p] = Valuation{Pre: pre, Post: post}
		}
		if err := d.Validate(); err != nil {
			return Portfolio{}, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, d)
	}

	if len(records) == 0 {
		return Portfolio{}, errors.New("portfolio table has no data rows")
	}
	return Portfolio{Records: records, Raw: b}, nil
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// EncodePortfolioCSV writes records in the canonical column order. It exists
// to produce the Raw bytes for the built-in portfolio; uploaded portfolios
// keep their original bytes instead.
func EncodePortfolioCSV(records []Drug) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(RequiredColumns()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range records {
		fields := []string{
			d.Name,
			strconv.Itoa(d.ApprovalYear),
			d.MoleculeType,
			d.Indication,
		}
		for _, p := range Phases() {
			v := d.Valuations[p]
			fields = append(fields, formatValue(v.Pre), formatValue(v.Post))
		}
		if err := w.Write(fields); err != nil {
			return nil, fmt.Errorf("write csv row for %q: %w", d.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportCSV returns the loaded table unchanged.
func (p Portfolio) ExportCSV() []byte {
	return p.Raw
}
