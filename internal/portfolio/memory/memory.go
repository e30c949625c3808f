package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sbb135/bioventurerx-app/internal/core"
)

// Store keeps the active portfolio in process memory. The portfolio survives
// for the lifetime of the server only; uploads replace it wholesale.
type Store struct {
	mu      sync.Mutex
	current core.Portfolio
	imports int
}

func New(seed core.Portfolio) *Store {
	return &Store{current: seed}
}

// NewFromFiles seeds the store from <base>/portfolio.csv when present,
// falling back to the built-in Entresto record.
func NewFromFiles(base string) *Store {
	if b, err := os.ReadFile(filepath.Join(base, "portfolio.csv")); err == nil {
		if p, err := core.ParsePortfolioCSV(b); err == nil {
			return New(p)
		}
	}
	return New(core.DefaultPortfolio())
}

// Load returns the active portfolio.
func (s *Store) Load(_ context.Context) (core.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

// Import swaps in the uploaded portfolio and returns a synthetic batch ref.
func (s *Store) Import(_ context.Context, _ string, p core.Portfolio) (string, error) {
	if len(p.Records) == 0 {
		return "", fmt.Errorf("refusing to import empty portfolio")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p
	s.imports++
	return fmt.Sprintf("mem:%d", s.imports), nil
}
