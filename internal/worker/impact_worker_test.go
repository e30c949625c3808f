package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/sbb135/bioventurerx-app/internal/amqp"
	"github.com/sbb135/bioventurerx-app/internal/core"
)

type fakeStore struct {
	batches   map[int64]core.Portfolio
	pending   []int64
	summaries map[int64][]core.ImpactSummary
	failSave  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		batches:   map[int64]core.Portfolio{},
		summaries: map[int64][]core.ImpactSummary{},
	}
}

func (f *fakeStore) BatchPortfolio(_ context.Context, id int64) (core.Portfolio, error) {
	p, ok := f.batches[id]
	if !ok {
		return core.Portfolio{}, errors.New("no such batch")
	}
	return p, nil
}

func (f *fakeStore) UnsummarizedBatches(_ context.Context, limit int) ([]int64, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeStore) SaveSummary(_ context.Context, id int64, s core.ImpactSummary) error {
	if f.failSave {
		return errors.New("save failed")
	}
	f.summaries[id] = append(f.summaries[id], s)
	return nil
}

func TestHandleImportMessage(t *testing.T) {
	store := newFakeStore()
	store.batches[7] = core.DefaultPortfolio()
	w := NewImpactWorker(store, store, 10)

	if err := w.HandleImportMessage(amqp.NewPortfolioImportMessage(7, 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got := store.summaries[7]
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(got))
	}
	if got[0].Drug != "Entresto" || got[0].WorstPhase != core.Seed {
		t.Fatalf("unexpected summary: %+v", got[0])
	}
}

func TestHandleImportMessageUnknownBatch(t *testing.T) {
	store := newFakeStore()
	w := NewImpactWorker(store, store, 10)

	if err := w.HandleImportMessage(amqp.NewPortfolioImportMessage(99, 1)); err == nil {
		t.Fatal("expected error for unknown batch")
	}
}

func TestSummarizeBatchSaveError(t *testing.T) {
	store := newFakeStore()
	store.batches[1] = core.DefaultPortfolio()
	store.failSave = true
	w := NewImpactWorker(store, store, 10)

	if err := w.SummarizeBatch(context.Background(), 1); err == nil {
		t.Fatal("expected save error to propagate")
	}
}

func TestCatchUp(t *testing.T) {
	store := newFakeStore()
	store.batches[1] = core.DefaultPortfolio()
	store.batches[2] = core.DefaultPortfolio()
	store.pending = []int64{1, 2}
	w := NewImpactWorker(store, store, 10)

	if err := w.CatchUp(context.Background()); err != nil {
		t.Fatalf("catch up: %v", err)
	}
	if len(store.summaries[1]) != 1 || len(store.summaries[2]) != 1 {
		t.Fatalf("summaries not written for all pending batches: %+v", store.summaries)
	}
}

func TestCatchUpRespectsBatchSize(t *testing.T) {
	store := newFakeStore()
	store.batches[1] = core.DefaultPortfolio()
	store.batches[2] = core.DefaultPortfolio()
	store.pending = []int64{1, 2}
	w := NewImpactWorker(store, store, 1)

	if err := w.CatchUp(context.Background()); err != nil {
		t.Fatalf("catch up: %v", err)
	}
	if len(store.summaries) != 1 {
		t.Fatalf("expected a single batch per pass, got %d", len(store.summaries))
	}
}
