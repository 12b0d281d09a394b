package repository

import (
	"context"
	"time"

	"github.com/mkvammen/fieldplan/internal/planner"
)

// PlanArchive manages persisted planning runs
type PlanArchive interface {
	SaveRun(ctx context.Context, plan *planner.Plan) error
	GetRun(ctx context.Context, runID string) (*planner.Plan, error)
	ListRuns(ctx context.Context, opts ListRunsOptions) ([]RunSummary, error)
	DeleteRun(ctx context.Context, runID string) error
}

// ListRunsOptions provides filtering options for listing runs
type ListRunsOptions struct {
	Field string
	Limit int
}

// RunSummary is the listing projection of an archived run
type RunSummary struct {
	RunID     string
	Field     string
	CreatedAt time.Time
	Horizon   int
	Wells     int
	Phases    int
	Steps     int
}
