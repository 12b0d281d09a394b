package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mkvammen/fieldplan/internal/config"
	"github.com/mkvammen/fieldplan/internal/export"
	"github.com/mkvammen/fieldplan/internal/planner"
	"github.com/mkvammen/fieldplan/internal/report"
	"github.com/mkvammen/fieldplan/internal/repository"
)

// pipeline runs one planning pass and lands its artifacts: the engine deck,
// the report tables and CSVs, and optionally an archived run. A nil archive
// disables archiving.
type pipeline struct {
	planner *planner.Planner
	archive repository.PlanArchive
	stdout  io.Writer
	logger  *slog.Logger
}

func (p *pipeline) run(ctx context.Context, cfg config.Config) (*planner.Plan, error) {
	plan, err := p.planner.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := export.WriteFile(cfg.Output.DeckPath, plan); err != nil {
		return nil, fmt.Errorf("writing deck: %w", err)
	}
	if err := report.WriteCSVs(cfg.Output.ReportDir, plan); err != nil {
		return nil, fmt.Errorf("writing reports: %w", err)
	}
	if err := report.Render(p.stdout, plan); err != nil {
		return nil, fmt.Errorf("rendering reports: %w", err)
	}

	if p.archive != nil {
		if err := p.archive.SaveRun(ctx, plan); err != nil {
			return nil, fmt.Errorf("archiving run: %w", err)
		}
		p.logger.Info("run archived", "run_id", plan.RunID)
	}

	return plan, nil
}
