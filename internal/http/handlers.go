package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sbb135/bioventurerx-app/internal/chart"
	"github.com/sbb135/bioventurerx-app/internal/core"
)

// DownloadFilename is the name the exported table is served under.
const DownloadFilename = "BioVentureRx_Phase_NPV_Results.csv"

const allPhases = "All Phases"

// maxUploadBytes caps portfolio uploads at 10MB.
const maxUploadBytes = 10 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	p, err := s.loader.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Portfolio load error", "error", err)
		http.Error(w, "portfolio unavailable", http.StatusInternalServerError)
		return
	}

	drug, phase := selectedDrugPhase(r, p)
	data := struct {
		Drugs         []string
		SelectedDrug  string
		PhaseOptions  []string
		SelectedPhase string
	}{
		Drugs:         p.Drugs(),
		SelectedDrug:  drug,
		PhaseOptions:  phaseOptions(),
		SelectedPhase: phase,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleImpact renders the comparison partial: the table of pre/post/% drop
// rows plus the chart image for the current drug and phase selection.
func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	p, err := s.loader.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Portfolio load error", "error", err)
		writeErrorSnippet(w, http.StatusInternalServerError, "Portfolio unavailable")
		return
	}

	drugName, phaseName := selectedDrugPhase(r, p)
	drug, err := p.Record(drugName)
	if err != nil {
		slog.WarnContext(r.Context(), "Unknown drug requested", "drug", drugName)
		writeErrorSnippet(w, http.StatusNotFound, "Unknown drug: "+template.HTMLEscapeString(drugName))
		return
	}

	rows, err := comparisonRows(drug, phaseName)
	if err != nil {
		writeErrorSnippet(w, http.StatusBadRequest, "Unknown phase: "+template.HTMLEscapeString(phaseName))
		return
	}

	type viewRow struct {
		Phase string
		Pre   string
		Post  string
		Drop  string
	}
	data := struct {
		Drug     string
		Phase    string
		ChartURL string
		Rows     []viewRow
	}{
		Drug:     drug.Name,
		Phase:    phaseName,
		ChartURL: "/chart.png?drug=" + url.QueryEscape(drug.Name) + "&phase=" + url.QueryEscape(phaseName),
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, viewRow{
			Phase: string(row.Phase),
			Pre:   formatMillions(row.Pre),
			Post:  formatMillions(row.Post),
			Drop:  formatDrop(row),
		})
	}

	if s.templates == nil {
		writeErrorSnippet(w, http.StatusInternalServerError, "Templates not loaded")
		return
	}
	if err := s.templates.ExecuteTemplate(w, "impact.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "impact.html", "drug", drug.Name)
		writeErrorSnippet(w, http.StatusInternalServerError, "Error rendering comparison")
	}
}

// handleChart serves the comparison chart PNG, cached per portfolio
// fingerprint so uploads invalidate stale renders implicitly.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	p, err := s.loader.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Portfolio load error", "error", err)
		http.Error(w, "portfolio unavailable", http.StatusInternalServerError)
		return
	}

	drugName, phaseName := selectedDrugPhase(r, p)
	drug, err := p.Record(drugName)
	if err != nil {
		http.Error(w, "unknown drug", http.StatusNotFound)
		return
	}

	key := chartCacheKey(p, drug.Name, phaseName)
	if png, ok := s.chartCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Chart cache hit", "drug", drug.Name, "phase", phaseName)
		writePNG(w, png)
		return
	}

	var buf bytes.Buffer
	if phaseName == allPhases {
		err = chart.RenderImpact(&buf, drug.Name, core.CompareAll(drug))
	} else {
		var phase core.Phase
		phase, err = core.ParsePhase(phaseName)
		if err != nil {
			http.Error(w, "unknown phase", http.StatusBadRequest)
			return
		}
		var row core.PhaseComparison
		if row, err = core.ComparePhase(drug, phase); err == nil {
			err = chart.RenderPhase(&buf, drug.Name, row)
		}
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart render error", "error", err, "drug", drug.Name, "phase", phaseName)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}

	s.chartCache.Set(key, buf.Bytes())
	writePNG(w, buf.Bytes())
}

// handleUpload replaces the active portfolio from a multipart CSV upload.
// A table missing any required column is rejected outright: no chart, no
// fallback, the previous portfolio stays active.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart error", "error", err)
		writeErrorSnippet(w, http.StatusBadRequest, "Invalid upload request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorSnippet(w, http.StatusBadRequest, "No CSV file in upload")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Read upload error", "error", err, "filename", header.Filename)
		writeErrorSnippet(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	p, err := core.ParsePortfolioCSV(raw)
	if errors.Is(err, core.ErrMissingColumns) {
		slog.WarnContext(r.Context(), "Upload missing required columns", "error", err, "filename", header.Filename)
		writeErrorSnippet(w, http.StatusUnprocessableEntity, "Uploaded file missing required columns. Please use the provided template.")
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "Upload parse error", "error", err, "filename", header.Filename)
		writeErrorSnippet(w, http.StatusUnprocessableEntity, "Invalid portfolio table: "+template.HTMLEscapeString(err.Error()))
		return
	}

	ref, err := s.importer.Import(r.Context(), header.Filename, p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Portfolio import error", "error", err, "filename", header.Filename)
		writeErrorSnippet(w, http.StatusInternalServerError, "Error saving portfolio")
		return
	}

	if s.publisher != nil {
		if batchID, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
			if err := s.publisher.PublishPortfolioImport(r.Context(), batchID, len(p.Records)); err != nil {
				// Summaries lag behind; the upload itself succeeded.
				slog.ErrorContext(r.Context(), "Import publish error", "error", err, "batch_id", batchID)
			}
		}
	}

	w.Header().Set("HX-Trigger", `{"portfolio:imported": {"batch": "`+template.JSEscapeString(ref)+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Portfolio loaded (#` + template.HTMLEscapeString(ref) + `): ` +
		strconv.Itoa(len(p.Records)) + ` drug(s) from ` + template.HTMLEscapeString(header.Filename) + `</div>`))
}

// handleDownload echoes the loaded table byte-for-byte.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	p, err := s.loader.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Portfolio load error", "error", err)
		http.Error(w, "portfolio unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(p.ExportCSV())))
	_, _ = w.Write(p.ExportCSV())
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

func writeErrorSnippet(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + msg + `</div>`))
}
