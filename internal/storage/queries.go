package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the raw SQL used by the repository.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type ImportBatch struct {
	ID         int64
	Filename   string
	RawCSV     []byte
	ImportedAt time.Time
}

type DrugRow struct {
	ID           int64
	BatchID      int64
	Name         string
	ApprovalYear int64
	MoleculeType string
	Indication   string
	// Pre/post pairs in phase display order.
	Values [14]float64
}

const insertBatch = `
INSERT INTO import_batches (filename, raw_csv) VALUES (?, ?)`

func (q *Queries) CreateBatch(ctx context.Context, tx *sql.Tx, filename string, raw []byte) (int64, error) {
	res, err := tx.ExecContext(ctx, insertBatch, filename, raw)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const insertDrug = `
INSERT INTO drugs (
    batch_id, name, approval_year, molecule_type, indication,
    market_pre, market_post, filing_pre, filing_post,
    phase3_pre, phase3_post, phase2_pre, phase2_post,
    phase1_pre, phase1_post, pc_pre, pc_post, seed_pre, seed_post
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateDrug(ctx context.Context, tx *sql.Tx, d DrugRow) error {
	args := []any{d.BatchID, d.Name, d.ApprovalYear, d.MoleculeType, d.Indication}
	for _, v := range d.Values {
		args = append(args, v)
	}
	_, err := tx.ExecContext(ctx, insertDrug, args...)
	return err
}

const selectLatestBatch = `
SELECT id, filename, raw_csv, imported_at
FROM import_batches ORDER BY id DESC LIMIT 1`

func (q *Queries) GetLatestBatch(ctx context.Context) (ImportBatch, error) {
	var b ImportBatch
	err := q.db.QueryRowContext(ctx, selectLatestBatch).
		Scan(&b.ID, &b.Filename, &b.RawCSV, &b.ImportedAt)
	return b, err
}

const selectBatch = `
SELECT id, filename, raw_csv, imported_at
FROM import_batches WHERE id = ?`

func (q *Queries) GetBatch(ctx context.Context, id int64) (ImportBatch, error) {
	var b ImportBatch
	err := q.db.QueryRowContext(ctx, selectBatch, id).
		Scan(&b.ID, &b.Filename, &b.RawCSV, &b.ImportedAt)
	return b, err
}

const selectBatchDrugs = `
SELECT id, batch_id, name, approval_year, molecule_type, indication,
       market_pre, market_post, filing_pre, filing_post,
       phase3_pre, phase3_post, phase2_pre, phase2_post,
       phase1_pre, phase1_post, pc_pre, pc_post, seed_pre, seed_post
FROM drugs WHERE batch_id = ? ORDER BY id`

func (q *Queries) GetBatchDrugs(ctx context.Context, batchID int64) ([]DrugRow, error) {
	rows, err := q.db.QueryContext(ctx, selectBatchDrugs, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DrugRow
	for rows.Next() {
		var d DrugRow
		dest := []any{&d.ID, &d.BatchID, &d.Name, &d.ApprovalYear, &d.MoleculeType, &d.Indication}
		for i := range d.Values {
			dest = append(dest, &d.Values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const upsertSummary = `
INSERT INTO impact_summaries (batch_id, drug, worst_phase, worst_drop, mean_drop, computed_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (batch_id, drug) DO UPDATE SET
    worst_phase = excluded.worst_phase,
    worst_drop = excluded.worst_drop,
    mean_drop = excluded.mean_drop,
    computed_at = CURRENT_TIMESTAMP`

func (q *Queries) UpsertSummary(ctx context.Context, batchID int64, drug, worstPhase string, worstDrop, meanDrop float64) error {
	_, err := q.db.ExecContext(ctx, upsertSummary, batchID, drug, worstPhase, worstDrop, meanDrop)
	return err
}

const selectUnsummarized = `
SELECT b.id FROM import_batches b
WHERE NOT EXISTS (SELECT 1 FROM impact_summaries s WHERE s.batch_id = b.id)
ORDER BY b.id LIMIT ?`

func (q *Queries) GetUnsummarizedBatches(ctx context.Context, limit int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, selectUnsummarized, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const selectSummaries = `
SELECT drug, worst_phase, worst_drop, mean_drop
FROM impact_summaries WHERE batch_id = ? ORDER BY drug`

type SummaryRow struct {
	Drug       string
	WorstPhase string
	WorstDrop  float64
	MeanDrop   float64
}

func (q *Queries) GetBatchSummaries(ctx context.Context, batchID int64) ([]SummaryRow, error) {
	rows, err := q.db.QueryContext(ctx, selectSummaries, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var s SummaryRow
		if err := rows.Scan(&s.Drug, &s.WorstPhase, &s.WorstDrop, &s.MeanDrop); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
