package ports

import (
	"context"
	"io"

	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/pipeline"
)

// DashboardPort is everything the presentation layer may ask of the
// pipeline. It holds no presentation state; the selection travels with every
// call.
type DashboardPort interface {
	// Load replaces the working dataset; on error the previous one is kept
	Load(ctx context.Context, r io.Reader, filename string) (*pipeline.DatasetInfo, error)

	// Current describes the working dataset
	Current(ctx context.Context) (*pipeline.DatasetInfo, error)

	// Render runs filter, summary and charts for the selection
	Render(ctx context.Context, sel domainDataset.SelectionState) (*pipeline.Render, error)
}

var _ DashboardPort = (*pipeline.Session)(nil)
