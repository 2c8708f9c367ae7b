package service

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"critspeed/internal/analysis"
	"critspeed/internal/fitfile"
	"critspeed/internal/strava"
)

// ImportedTrial is a trial with a label describing where it came from
type ImportedTrial struct {
	Label string
	Trial analysis.Trial
}

// StravaSource is the part of the Strava client used for imports
type StravaSource interface {
	RecentRuns(ctx context.Context, limit int) ([]strava.Activity, error)
	GetActivityLaps(ctx context.Context, activityID int64) ([]strava.Lap, error)
}

// ImportService turns FIT files and Strava activities into trials
type ImportService struct {
	logger *zap.Logger
}

// NewImportService creates an import service. A nil logger discards logs.
func NewImportService(logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{logger: logger}
}

// FromFIT decodes the files concurrently, one trial per file or per lap
func (s *ImportService) FromFIT(ctx context.Context, paths []string, laps bool) ([]ImportedTrial, error) {
	sources, err := fitfile.LoadTrials(ctx, paths, laps)
	if err != nil {
		return nil, fmt.Errorf("importing FIT files: %w", err)
	}

	out := make([]ImportedTrial, len(sources))
	for i, src := range sources {
		label := filepath.Base(src.Path)
		if laps {
			label = fmt.Sprintf("%s %s", label, src.Label)
		}
		out[i] = ImportedTrial{Label: label, Trial: src.Trial}
	}

	s.logger.Info("imported FIT trials", zap.Int("files", len(paths)), zap.Int("trials", len(out)), zap.Bool("laps", laps))
	return out, nil
}

// FromStrava lists the most recent runs as trials
func (s *ImportService) FromStrava(ctx context.Context, src StravaSource, limit int) ([]ImportedTrial, error) {
	if limit <= 0 {
		limit = DefaultImportLimit
	}

	runs, err := src.RecentRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("importing Strava runs: %w", err)
	}

	out := make([]ImportedTrial, 0, len(runs))
	for _, run := range runs {
		t := run.Trial()
		if !t.Valid() {
			s.logger.Debug("skipping run without totals", zap.Int64("activity_id", run.ID))
			continue
		}
		out = append(out, ImportedTrial{Label: run.Label(), Trial: t})
	}

	s.logger.Info("imported Strava runs", zap.Int("runs", len(runs)), zap.Int("trials", len(out)))
	return out, nil
}

// FromStravaLaps uses the laps of one activity as trials, for interval sessions
func (s *ImportService) FromStravaLaps(ctx context.Context, src StravaSource, activityID int64) ([]ImportedTrial, error) {
	laps, err := src.GetActivityLaps(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("importing Strava laps: %w", err)
	}

	var out []ImportedTrial
	for i, lap := range laps {
		t := lap.Trial()
		if !t.Valid() {
			continue
		}
		out = append(out, ImportedTrial{Label: fmt.Sprintf("activity %d lap %d", activityID, i+1), Trial: t})
	}

	s.logger.Info("imported Strava laps", zap.Int64("activity_id", activityID), zap.Int("trials", len(out)))
	return out, nil
}

// Trials strips the labels
func Trials(imported []ImportedTrial) []analysis.Trial {
	out := make([]analysis.Trial, len(imported))
	for i, it := range imported {
		out[i] = it.Trial
	}
	return out
}
