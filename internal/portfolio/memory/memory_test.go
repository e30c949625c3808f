package memory

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbb135/bioventurerx-app/internal/core"
)

func TestLoadSeedsDefault(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	p, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if drugs := p.Drugs(); len(drugs) != 1 || drugs[0] != "Entresto" {
		t.Fatalf("expected default Entresto portfolio, got %v", drugs)
	}
}

func TestNewFromFilesReadsSeedCSV(t *testing.T) {
	dir := t.TempDir()
	def := core.DefaultPortfolio()
	raw := bytes.Replace(def.Raw, []byte("Entresto"), []byte("Keytruda"), 1)
	if err := os.WriteFile(filepath.Join(dir, "portfolio.csv"), raw, 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := NewFromFiles(dir)
	p, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if drugs := p.Drugs(); len(drugs) != 1 || drugs[0] != "Keytruda" {
		t.Fatalf("expected seeded portfolio, got %v", drugs)
	}
}

func TestImportReplacesPortfolio(t *testing.T) {
	s := New(core.DefaultPortfolio())

	def := core.DefaultPortfolio()
	raw := bytes.Replace(def.Raw, []byte("Entresto"), []byte("Ozempic"), 1)
	next, err := core.ParsePortfolioCSV(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ref, err := s.Import(context.Background(), "upload.csv", next)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("batch ref = %q", ref)
	}

	p, _ := s.Load(context.Background())
	if drugs := p.Drugs(); drugs[0] != "Ozempic" {
		t.Fatalf("portfolio not replaced: %v", drugs)
	}
	if !bytes.Equal(p.ExportCSV(), raw) {
		t.Fatal("raw bytes not carried through import")
	}
}

func TestImportRejectsEmpty(t *testing.T) {
	s := New(core.DefaultPortfolio())
	if _, err := s.Import(context.Background(), "x.csv", core.Portfolio{}); err == nil {
		t.Fatal("expected error importing empty portfolio")
	}
}
