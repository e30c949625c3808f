package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sbb135/bioventurerx-app/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements portfolio.Loader. The most recent import batch wins; with
// no batches on disk the built-in Entresto portfolio is served.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Portfolio, error) {
	batch, err := r.queries.GetLatestBatch(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultPortfolio(), nil
	}
	if err != nil {
		return core.Portfolio{}, fmt.Errorf("get latest batch: %w", err)
	}
	return r.batchPortfolio(ctx, batch)
}

// BatchPortfolio loads a specific import batch, for the summary worker.
func (r *SQLiteRepository) BatchPortfolio(ctx context.Context, batchID int64) (core.Portfolio, error) {
	batch, err := r.queries.GetBatch(ctx, batchID)
	if err != nil {
		return core.Portfolio{}, fmt.Errorf("get batch %d: %w", batchID, err)
	}
	return r.batchPortfolio(ctx, batch)
}

func (r *SQLiteRepository) batchPortfolio(ctx context.Context, batch ImportBatch) (core.Portfolio, error) {
	rows, err := r.queries.GetBatchDrugs(ctx, batch.ID)
	if err != nil {
		return core.Portfolio{}, fmt.Errorf("get batch drugs: %w", err)
	}

	p := core.Portfolio{Raw: batch.RawCSV}
	for _, row := range rows {
		d := core.Drug{
			Name:         row.Name,
			ApprovalYear: int(row.ApprovalYear),
			MoleculeType: row.MoleculeType,
			Indication:   row.Indication,
			Valuations:   make(map[core.Phase]core.Valuation, len(core.Phases())),
		}
		for i, phase := range core.Phases() {
			d.Valuations[phase] = core.Valuation{Pre: row.Values[2*i], Post: row.Values[2*i+1]}
		}
		p.Records = append(p.Records, d)
	}
	return p, nil
}

// Import implements portfolio.Importer: one transaction per upload, storing
// the raw CSV for byte-identical export alongside the parsed rows.
func (r *SQLiteRepository) Import(ctx context.Context, filename string, p core.Portfolio) (string, error) {
	if len(p.Records) == 0 {
		return "", fmt.Errorf("refusing to import empty portfolio")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	batchID, err := r.queries.CreateBatch(ctx, tx, filename, p.Raw)
	if err != nil {
		return "", fmt.Errorf("create import batch: %w", err)
	}

	for _, d := range p.Records {
		row := DrugRow{
			BatchID:      batchID,
			Name:         d.Name,
			ApprovalYear: int64(d.ApprovalYear),
			MoleculeType: d.MoleculeType,
			Indication:   d.Indication,
		}
		for i, phase := range core.Phases() {
			v := d.Valuations[phase]
			row.Values[2*i] = v.Pre
			row.Values[2*i+1] = v.Post
		}
		if err := r.queries.CreateDrug(ctx, tx, row); err != nil {
			return "", fmt.Errorf("insert drug %q: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import tx: %w", err)
	}

	slog.InfoContext(ctx, "Portfolio imported to SQLite",
		"batch_id", batchID,
		"filename", filename,
		"drugs", len(p.Records))

	return strconv.FormatInt(batchID, 10), nil
}

// SaveSummary upserts one drug's impact summary for a batch.
func (r *SQLiteRepository) SaveSummary(ctx context.Context, batchID int64, s core.ImpactSummary) error {
	err := r.queries.UpsertSummary(ctx, batchID, s.Drug, string(s.WorstPhase), s.WorstDrop, s.MeanDrop)
	if err != nil {
		return fmt.Errorf("upsert impact summary for %q: %w", s.Drug, err)
	}
	return nil
}

// UnsummarizedBatches lists batches still waiting for a summary pass.
func (r *SQLiteRepository) UnsummarizedBatches(ctx context.Context, limit int) ([]int64, error) {
	ids, err := r.queries.GetUnsummarizedBatches(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get unsummarized batches: %w", err)
	}
	return ids, nil
}

// Summaries returns the computed summaries for a batch.
func (r *SQLiteRepository) Summaries(ctx context.Context, batchID int64) ([]SummaryRow, error) {
	rows, err := r.queries.GetBatchSummaries(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch summaries: %w", err)
	}
	return rows, nil
}
