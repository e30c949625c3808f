package portfolio

import (
	"context"

	"github.com/sbb135/bioventurerx-app/internal/core"
)

// Ports for the data backends.
type (
	// Loader provides the portfolio currently being explored.
	Loader interface {
		Load(ctx context.Context) (core.Portfolio, error)
	}

	// Importer replaces the active portfolio with an uploaded one and
	// returns a reference to the stored import batch.
	Importer interface {
		Import(ctx context.Context, filename string, p core.Portfolio) (batchRef string, err error)
	}
)
