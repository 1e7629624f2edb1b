package harness

import (
	"context"
	"time"
)

// Recorder observes trial outcomes as the runner produces them.
// Recording is observational: the runner logs recorder errors and keeps
// going, and nothing a recorder does affects pass/fail.
type Recorder interface {
	// BeginRun is called once before the first category.
	BeginRun(ctx context.Context, runID, solver, group string, started time.Time) error

	// RecordTrial is called once per trial, including skipped ones.
	RecordTrial(ctx context.Context, runID string, category Category, trial int, success, skipped bool, detail string) error

	// FinishRun is called once after the last category.
	FinishRun(ctx context.Context, runID string, passed bool) error
}

// nopRecorder discards everything. It is the default when no store is
// wired in.
type nopRecorder struct{}

func (nopRecorder) BeginRun(context.Context, string, string, string, time.Time) error {
	return nil
}

func (nopRecorder) RecordTrial(context.Context, string, Category, int, bool, bool, string) error {
	return nil
}

func (nopRecorder) FinishRun(context.Context, string, bool) error {
	return nil
}
