package driving

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// IngestOrchestrator runs the 12-step ingestion pipeline for dropped or
// uploaded files (spec §4.7).
type IngestOrchestrator interface {
	// IngestFile runs the pipeline on one file currently sitting at path.
	IngestFile(ctx context.Context, path string) (*domain.IngestResult, error)

	// CleanupFile deindexes and untracks a file that was removed before or
	// after it finished ingesting.
	CleanupFile(ctx context.Context, path string) error

	// PruneSweep deindexes every document whose sorted file no longer
	// exists; upload tracker records are not touched.
	PruneSweep(ctx context.Context) (*domain.IngestStats, error)
}

// Scheduler manages periodic background task scheduling (the prune sweep).
type Scheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
