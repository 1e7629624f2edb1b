package harness

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armlab/kinconform/internal/cartesian"
	"github.com/armlab/kinconform/internal/kinematics"
	"github.com/armlab/kinconform/internal/robotmodel"
	"github.com/armlab/kinconform/internal/testutil"
)

func gantryConfig(trials int, seed int64) *Config {
	return &Config{
		Solver:               cartesian.PluginName,
		Group:                "arm",
		RootLink:             "base",
		TipLink:              "tool0",
		JointNames:           testutil.GantryJointNames(),
		Trials:               trials,
		TimeoutSeconds:       5.0,
		SearchDiscretization: DefaultSearchDiscretization,
		Seed:                 seed,
	}
}

func initializedCartesian(t *testing.T, model *robotmodel.Model, cfg *Config) kinematics.Solver {
	t.Helper()
	solver, err := kinematics.Open(cfg.Solver)
	require.NoError(t, err)
	require.NoError(t, solver.Initialize(model, cfg.Group, cfg.RootLink, cfg.TipLink, cfg.SearchDiscretization))
	return solver
}

func categoryByName(t *testing.T, report *RunReport, category Category) *CategoryStats {
	t.Helper()
	for _, c := range report.Categories {
		if c.Category == category {
			return c
		}
	}
	t.Fatalf("report has no category %s", category)
	return nil
}

func TestRunner_AllCategoriesPass(t *testing.T) {
	cfg := gantryConfig(100, 5)
	model := testutil.GantryModel(t)
	solver := initializedCartesian(t, model, cfg)

	runner, err := NewRunner(cfg, solver, model)
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Categories, len(Categories))
	assert.True(t, report.Passed(), "reference solver must conform: %+v", report.Categories)
	assert.Equal(t, runner.RunID(), report.RunID)
	assert.Equal(t, "gantry6", report.Robot)

	meta := categoryByName(t, report, CategoryMetadata)
	assert.Equal(t, meta.Attempts, meta.Successes)
	assert.Empty(t, meta.Failures)

	fk := categoryByName(t, report, CategoryFK)
	assert.Equal(t, 100, fk.Attempts)
	assert.Equal(t, 100, fk.Successes)

	for _, cat := range []Category{CategorySearchIK, CategorySearchIKCallback, CategoryDirectIK, CategoryMultiIK} {
		s := categoryByName(t, report, cat)
		assert.Equal(t, 100, s.Successes, "category %s", cat)
		assert.Empty(t, s.Failures, "category %s", cat)
		assert.True(t, s.Statistical)
		assert.Greater(t, s.Elapsed, time.Duration(0))
	}

	cb := categoryByName(t, report, CategorySearchIKCallback)
	assert.Zero(t, cb.Skipped, "gantry lift is strictly positive, nothing to skip")
}

func TestRunner_CallbackCategorySkipsLowPoses(t *testing.T) {
	// The low-lift chain puts about half the sampled poses at or below
	// zero height. Those trials are skipped without counting as
	// attempts, while the threshold denominator deliberately stays at
	// the configured trial count.
	cfg := gantryConfig(50, 3)
	model := testutil.LowGantryModel(t)
	solver := initializedCartesian(t, model, cfg)

	runner, err := NewRunner(cfg, solver, model)
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	cb := categoryByName(t, report, CategorySearchIKCallback)
	assert.Greater(t, cb.Skipped, 0)
	assert.Equal(t, 50, cb.Attempts+cb.Skipped)
	assert.Equal(t, cb.Attempts, cb.Successes,
		"every attempted trial has positive height and must succeed")
	assert.Empty(t, cb.Failures)
	assert.False(t, cb.ThresholdMet(),
		"skipped trials shrink the numerator but not the denominator")
}

func TestRunner_MetadataMismatch(t *testing.T) {
	cfg := gantryConfig(5, 1)
	cfg.JointNames = []string{"rail_x", "rail_y", "lift_z", "wrist_yaw", "wrist_pitch", "other"}
	model := testutil.GantryModel(t)
	solver := initializedCartesian(t, model, cfg)

	runner, err := NewRunner(cfg, solver, model)
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	meta := categoryByName(t, report, CategoryMetadata)
	assert.False(t, meta.Passed())
	require.NotEmpty(t, meta.Failures)
	assert.Contains(t, meta.Failures[0], "joint names")
	assert.False(t, report.Passed())
}

// skewIKSolver wraps a conforming solver but corrupts every direct IK
// solution slightly beyond tolerance.
type skewIKSolver struct {
	kinematics.Solver
}

func (s *skewIKSolver) PositionIK(target kinematics.Pose, seed kinematics.JointConfiguration) (kinematics.JointConfiguration, kinematics.ResultCode) {
	solution, code := s.Solver.PositionIK(target, seed)
	if code.OK() {
		skewed := solution.Clone()
		skewed[0] += 10 * PoseTolerance
		return skewed, code
	}
	return solution, code
}

func TestRunner_RoundTripMismatchIsAssertionFailure(t *testing.T) {
	cfg := gantryConfig(5, 2)
	model := testutil.GantryModel(t)
	solver := &skewIKSolver{Solver: initializedCartesian(t, model, cfg)}

	runner, err := NewRunner(cfg, solver, model)
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	direct := categoryByName(t, report, CategoryDirectIK)
	assert.Equal(t, 5, direct.Successes, "success codes still count toward the rate")
	assert.True(t, direct.ThresholdMet())
	require.NotEmpty(t, direct.Failures)
	assert.Contains(t, direct.Failures[0], string(ErrCodeRoundTripMismatch))
	assert.False(t, direct.Passed(), "round-trip mismatches fail the run regardless of the rate")
	assert.False(t, report.Passed())
}

// countingRecorder tallies recorder callbacks.
type countingRecorder struct {
	mu      sync.Mutex
	begun   int
	trials  int
	skipped int
	done    int
	passed  bool
}

func (r *countingRecorder) BeginRun(_ context.Context, runID, solver, group string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.begun++
	return nil
}

func (r *countingRecorder) RecordTrial(_ context.Context, _ string, _ Category, _ int, _, skipped bool, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trials++
	if skipped {
		r.skipped++
	}
	return nil
}

func (r *countingRecorder) FinishRun(_ context.Context, _ string, passed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
	r.passed = passed
	return nil
}

func TestRunner_RecorderObservesEveryTrial(t *testing.T) {
	cfg := gantryConfig(5, 4)
	model := testutil.GantryModel(t)
	solver := initializedCartesian(t, model, cfg)

	rec := &countingRecorder{}
	runner, err := NewRunner(cfg, solver, model, WithRecorder(rec))
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.begun)
	assert.Equal(t, 1, rec.done)
	assert.True(t, rec.passed)
	// 4 metadata checks + 5 trials in each of the 5 sampled categories.
	assert.Equal(t, 4+5*5, rec.trials)
	assert.True(t, report.Passed())
}

func TestJointNamesEqual_Normalization(t *testing.T) {
	// "ñ" precomposed vs decomposed must compare equal.
	assert.True(t, jointNamesEqual([]string{"wrist_ñ"}, []string{"wrist_ñ"}))
	assert.False(t, jointNamesEqual([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, jointNamesEqual([]string{"a"}, []string{"a", "b"}))
}

func TestSetup_Failures(t *testing.T) {
	dir := t.TempDir()
	robotPath := testutil.WriteGantryDescription(t, dir)

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "missing robot description",
			mutate:  func(cfg *Config) { cfg.RobotDescription = "/nonexistent.yaml" },
			wantErr: "failed to load robot description",
		},
		{
			name:    "unknown group",
			mutate:  func(cfg *Config) { cfg.Group = "legs" },
			wantErr: `no joint group "legs"`,
		},
		{
			name:    "unknown solver",
			mutate:  func(cfg *Config) { cfg.Solver = "missing-solver" },
			wantErr: "failed to load solver plugin",
		},
		{
			name:    "initialize failure",
			mutate:  func(cfg *Config) { cfg.RootLink = "mast" },
			wantErr: "failed to initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := gantryConfig(5, 1)
			cfg.RobotDescription = robotPath
			tt.mutate(cfg)

			_, _, err := Setup(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetup_Succeeds(t *testing.T) {
	dir := t.TempDir()
	cfg := gantryConfig(5, 1)
	cfg.RobotDescription = testutil.WriteGantryDescription(t, dir)

	solver, model, err := Setup(cfg)
	require.NoError(t, err)
	assert.Equal(t, "gantry6", model.Name)
	assert.Equal(t, "base", solver.BaseFrame())
	assert.Equal(t, "tool0", solver.TipFrame())
}
