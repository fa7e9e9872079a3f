package storage

import (
	"context"

	"skylark/internal/model"
)

// Store defines persistence operations for run history. Implementations hold
// run metadata and scalar metric series only; genomes and network weights are
// never persisted.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveWorldSummary(ctx context.Context, summary model.WorldSummary) error
	GetWorldSummary(ctx context.Context, name string) (model.WorldSummary, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}
