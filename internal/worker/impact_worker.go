package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sbb135/bioventurerx-app/internal/amqp"
	"github.com/sbb135/bioventurerx-app/internal/core"
)

// BatchReader provides access to persisted import batches.
type BatchReader interface {
	BatchPortfolio(ctx context.Context, batchID int64) (core.Portfolio, error)
	UnsummarizedBatches(ctx context.Context, limit int) ([]int64, error)
}

// SummaryWriter persists computed impact summaries.
type SummaryWriter interface {
	SaveSummary(ctx context.Context, batchID int64, s core.ImpactSummary) error
}

// ImpactWorker recomputes per-drug impact summaries for import batches,
// driven by AMQP notifications with a periodic catch-up pass for anything
// missed while the worker was down.
type ImpactWorker struct {
	reader    BatchReader
	writer    SummaryWriter
	batchSize int
}

func NewImpactWorker(reader BatchReader, writer SummaryWriter, batchSize int) *ImpactWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &ImpactWorker{reader: reader, writer: writer, batchSize: batchSize}
}

// HandleImportMessage processes one import notification. Errors propagate so
// the AMQP consumer nacks and requeues the message.
func (w *ImpactWorker) HandleImportMessage(msg *amqp.PortfolioImportMessage) error {
	ctx := context.Background()
	if err := w.SummarizeBatch(ctx, msg.BatchID); err != nil {
		return fmt.Errorf("summarize batch %d: %w", msg.BatchID, err)
	}
	return nil
}

// SummarizeBatch computes and stores a summary for every drug in the batch.
func (w *ImpactWorker) SummarizeBatch(ctx context.Context, batchID int64) error {
	p, err := w.reader.BatchPortfolio(ctx, batchID)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}

	for _, d := range p.Records {
		s := core.Summarize(d)
		if err := w.writer.SaveSummary(ctx, batchID, s); err != nil {
			return fmt.Errorf("save summary: %w", err)
		}
		slog.InfoContext(ctx, "Impact summary stored",
			"batch_id", batchID,
			"drug", s.Drug,
			"worst_phase", s.WorstPhase,
			"worst_drop", s.WorstDrop,
			"mean_drop", s.MeanDrop)
	}
	return nil
}

// CatchUp summarizes batches that have no summaries yet, up to the
// configured batch size per invocation.
func (w *ImpactWorker) CatchUp(ctx context.Context) error {
	ids, err := w.reader.UnsummarizedBatches(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unsummarized batches: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Catching up on unsummarized batches", "count", len(ids))
	for _, id := range ids {
		if err := w.SummarizeBatch(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
