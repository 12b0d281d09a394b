package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkvammen/fieldplan/internal/planner"
	"github.com/mkvammen/fieldplan/internal/repository"
)

// PlanArchive is a mock for repository.PlanArchive.
type PlanArchive struct {
	mock.Mock
}

func (m *PlanArchive) SaveRun(ctx context.Context, plan *planner.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *PlanArchive) GetRun(ctx context.Context, runID string) (*planner.Plan, error) {
	args := m.Called(ctx, runID)
	if plan, ok := args.Get(0).(*planner.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlanArchive) ListRuns(ctx context.Context, opts repository.ListRunsOptions) ([]repository.RunSummary, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]repository.RunSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlanArchive) DeleteRun(ctx context.Context, runID string) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}
