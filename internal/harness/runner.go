package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/armlab/kinconform/internal/kinematics"
	"github.com/armlab/kinconform/internal/robotmodel"
)

// Setup resolves the configured solver plugin, loads the robot
// description, and initializes the solver for the configured chain.
// Every error here is fatal to the run: there is no partial setup.
func Setup(cfg *Config) (kinematics.Solver, *robotmodel.Model, error) {
	model, err := robotmodel.Load(cfg.RobotDescription)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load robot description: %w", err)
	}
	if _, err := model.Group(cfg.Group); err != nil {
		return nil, nil, err
	}

	solver, err := kinematics.Open(cfg.Solver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load solver plugin: %w", err)
	}
	if err := solver.Initialize(model, cfg.Group, cfg.RootLink, cfg.TipLink, cfg.SearchDiscretization); err != nil {
		return nil, nil, fmt.Errorf("solver %q failed to initialize: %w", cfg.Solver, err)
	}
	return solver, model, nil
}

// Runner executes the validation protocol against one initialized
// solver. It is single-use and single-threaded: one trial completes
// fully before the next begins, and the solver is never called
// concurrently.
type Runner struct {
	cfg     *Config
	solver  kinematics.Solver
	model   *robotmodel.Model
	group   *robotmodel.Group
	sampler *robotmodel.Sampler
	log     *slog.Logger
	rec     Recorder
	runID   string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger. The default discards all output.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithRecorder sets the trial recorder. The default discards trials.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.rec = rec }
}

// NewRunner creates a runner for an already-initialized solver.
func NewRunner(cfg *Config, solver kinematics.Solver, model *robotmodel.Model, opts ...Option) (*Runner, error) {
	group, err := model.Group(cfg.Group)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		solver:  solver,
		model:   model,
		group:   group,
		sampler: robotmodel.NewSampler(group, cfg.Seed),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		rec:     nopRecorder{},
		runID:   uuid.Must(uuid.NewV7()).String(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunID returns the unique identifier of this run.
func (r *Runner) RunID() string { return r.runID }

// Run executes all validation categories in order and returns the
// aggregated report. Run itself only errors on harness-internal
// problems; solver defects land in the report.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:   r.runID,
		Solver:  r.cfg.Solver,
		Robot:   r.model.Name,
		Group:   r.cfg.Group,
		Started: time.Now().UTC(),
	}

	if err := r.rec.BeginRun(ctx, r.runID, r.cfg.Solver, r.cfg.Group, report.Started); err != nil {
		r.log.Warn("recorder failed to begin run", "error", err)
	}

	report.Categories = []*CategoryStats{
		r.runMetadata(ctx),
		r.runFK(ctx),
		r.runSearchIK(ctx),
		r.runSearchIKCallback(ctx),
		r.runDirectIK(ctx),
		r.runMultiIK(ctx),
	}

	if err := r.rec.FinishRun(ctx, r.runID, report.Passed()); err != nil {
		r.log.Warn("recorder failed to finish run", "error", err)
	}
	return report, nil
}

// runMetadata checks solver-reported chain metadata against the
// configuration: base frame, tip frame, group name, and the joint name
// list (same names, same order, same length). Joint names are
// NFC-normalized on both sides before comparison so that byte-level
// encoding differences in config files do not masquerade as solver
// defects.
func (r *Runner) runMetadata(ctx context.Context) *CategoryStats {
	stats := &CategoryStats{Category: CategoryMetadata}
	start := time.Now()

	check := func(trial int, ok bool, code TrialErrorCode, format string, args ...any) {
		stats.Trials++
		stats.Attempts++
		detail := ""
		if ok {
			stats.Successes++
		} else {
			te := newTrialError(code, CategoryMetadata, trial, format, args...)
			stats.fail(te)
			detail = te.Message
		}
		r.recordTrial(ctx, CategoryMetadata, trial, ok, false, detail)
	}

	const codeMismatch = TrialErrorCode("METADATA_MISMATCH")

	check(1, r.solver.BaseFrame() == r.cfg.RootLink, codeMismatch,
		"base frame %q does not match configured root link %q", r.solver.BaseFrame(), r.cfg.RootLink)
	check(2, r.solver.TipFrame() == r.cfg.TipLink, codeMismatch,
		"tip frame %q does not match configured tip link %q", r.solver.TipFrame(), r.cfg.TipLink)
	check(3, r.solver.GroupName() == r.cfg.Group, codeMismatch,
		"group name %q does not match configured group %q", r.solver.GroupName(), r.cfg.Group)
	check(4, jointNamesEqual(r.solver.JointNames(), r.cfg.JointNames), codeMismatch,
		"joint names %v do not match configured list %v", r.solver.JointNames(), r.cfg.JointNames)

	stats.Elapsed = time.Since(start)
	return stats
}

// runFK validates that FK succeeds with exactly one pose for every
// limits-valid random sample. FK failures here are hard failures: the
// sample is known valid, so the solver has no excuse.
func (r *Runner) runFK(ctx context.Context) *CategoryStats {
	stats := &CategoryStats{Category: CategoryFK, Trials: r.cfg.Trials}
	start := time.Now()

	for i := 1; i <= r.cfg.Trials; i++ {
		stats.Attempts++
		_, _, ok := r.sampleAndFK(stats, i)
		if ok {
			stats.Successes++
		}
		r.recordTrial(ctx, CategoryFK, i, ok, false, "")
	}

	stats.Elapsed = time.Since(start)
	r.logRate(stats)
	return stats
}

// runSearchIK validates search-based IK seeded from zero. A trial
// succeeds only if the search reports success and a direct IK call,
// seeded with the search's own solution, confirms it.
func (r *Runner) runSearchIK(ctx context.Context) *CategoryStats {
	stats := &CategoryStats{Category: CategorySearchIK, Trials: r.cfg.Trials, Statistical: true}
	start := time.Now()
	timeout := r.cfg.Timeout()

	for i := 1; i <= r.cfg.Trials; i++ {
		stats.Attempts++
		joints, reference, ok := r.sampleAndFK(stats, i)
		if !ok {
			r.recordTrial(ctx, CategorySearchIK, i, false, false, "FK failed on valid sample")
			continue
		}

		seed := kinematics.Zero(len(joints))
		solution, code := r.solver.SearchPositionIK(reference, seed, timeout)
		r.log.Debug("search IK", "trial", i, "code", code.String(),
			"position", reference.Position, "orientation", reference.Orientation)

		result := code.OK()
		if result {
			// Verify with direct IK seeded by the search's solution.
			verified, vcode := r.solver.PositionIK(reference, solution)
			result = vcode.OK()
			if result {
				solution = verified
			}
		}

		if result {
			stats.Successes++
			r.checkRoundTrip(stats, i, reference, solution)
		} else {
			r.log.Error("search IK failed", "trial", i, "code", code.String())
		}
		r.recordTrial(ctx, CategorySearchIK, i, result, false, code.String())
	}

	stats.Elapsed = time.Since(start)
	r.logRate(stats)
	return stats
}

// runSearchIKCallback validates search-based IK guarded by an
// acceptance callback that rejects candidates whose FK tip height is
// non-positive. Trials whose reference pose already sits at or below
// zero height are skipped without being counted as attempts; the
// threshold denominator deliberately stays at the configured trial
// count.
func (r *Runner) runSearchIKCallback(ctx context.Context) *CategoryStats {
	stats := &CategoryStats{Category: CategorySearchIKCallback, Trials: r.cfg.Trials, Statistical: true}
	start := time.Now()
	timeout := r.cfg.Timeout()

	cb := func(pose kinematics.Pose, candidate kinematics.JointConfiguration) kinematics.ResultCode {
		// Re-derive the tip pose through the solver rather than trusting
		// the pose handed to the callback.
		poses, err := r.solver.PositionFK([]string{r.solver.TipFrame()}, candidate)
		if err != nil || len(poses) != 1 {
			return kinematics.ResultPlanningFailed
		}
		if poses[0].Position[2] > 0 {
			return kinematics.ResultSuccess
		}
		return kinematics.ResultPlanningFailed
	}

	for i := 1; i <= r.cfg.Trials; i++ {
		joints, reference, ok := r.sampleAndFK(stats, i)
		if !ok {
			stats.Attempts++
			r.recordTrial(ctx, CategorySearchIKCallback, i, false, false, "FK failed on valid sample")
			continue
		}

		if reference.Position[2] <= 0 {
			stats.Skipped++
			r.recordTrial(ctx, CategorySearchIKCallback, i, false, true, "reference tip height <= 0")
			continue
		}
		stats.Attempts++

		solution, code := r.solver.SearchPositionIKWithCallback(reference, joints, timeout, cb)
		result := code.OK()
		if result {
			verified, vcode := r.solver.PositionIK(reference, solution)
			result = vcode.OK()
			if result {
				solution = verified
			}
		}

		if result {
			stats.Successes++
			r.checkCallbackInvariant(stats, i, solution)
			r.checkRoundTrip(stats, i, reference, solution)
		} else {
			r.log.Error("guarded search IK failed", "trial", i, "code", code.String())
		}
		r.recordTrial(ctx, CategorySearchIKCallback, i, result, false, code.String())
	}

	stats.Elapsed = time.Since(start)
	r.logRate(stats)
	return stats
}

// runDirectIK validates non-search IK seeded with the sampled
// configuration itself.
func (r *Runner) runDirectIK(ctx context.Context) *CategoryStats {
	stats := &CategoryStats{Category: CategoryDirectIK, Trials: r.cfg.Trials, Statistical: true}
	start := time.Now()

	for i := 1; i <= r.cfg.Trials; i++ {
		stats.Attempts++
		joints, reference, ok := r.sampleAndFK(stats, i)
		if !ok {
			r.recordTrial(ctx, CategoryDirectIK, i, false, false, "FK failed on valid sample")
			continue
		}

		solution, code := r.solver.PositionIK(reference, joints)
		if code.OK() {
			stats.Successes++
			r.checkRoundTrip(stats, i, reference, solution)
		} else {
			r.log.Error("direct IK failed", "trial", i, "code", code.String())
		}
		r.recordTrial(ctx, CategoryDirectIK, i, code.OK(), false, code.String())
	}

	stats.Elapsed = time.Since(start)
	r.logRate(stats)
	return stats
}

// runMultiIK validates batch IK: status OK with a non-empty solution
// set, and every member must round-trip.
func (r *Runner) runMultiIK(ctx context.Context) *CategoryStats {
	stats := &CategoryStats{Category: CategoryMultiIK, Trials: r.cfg.Trials, Statistical: true}
	start := time.Now()

	for i := 1; i <= r.cfg.Trials; i++ {
		stats.Attempts++
		_, reference, ok := r.sampleAndFK(stats, i)
		if !ok {
			r.recordTrial(ctx, CategoryMultiIK, i, false, false, "FK failed on valid sample")
			continue
		}

		solutions, result := r.solver.PositionIKMultiple([]kinematics.Pose{reference}, kinematics.QueryOptions{})
		success := false
		if result.Error == kinematics.ErrorOK {
			if len(solutions) == 0 {
				stats.fail(newTrialError(ErrCodeEmptySolutionSet, CategoryMultiIK, i,
					"solver reported OK with an empty solution set"))
			} else {
				success = true
			}
		} else {
			r.log.Error("multi IK failed", "trial", i, "status", result.Error.String())
		}

		if success {
			stats.Successes++
		}
		for _, solution := range solutions {
			r.checkRoundTrip(stats, i, reference, solution)
		}
		r.recordTrial(ctx, CategoryMultiIK, i, success, false, result.Error.String())
	}

	stats.Elapsed = time.Since(start)
	r.logRate(stats)
	return stats
}

// sampleAndFK draws a random limits-valid configuration and computes
// its reference pose. An FK defect is recorded as a hard failure on
// stats; the trial cannot proceed. Attempt accounting stays with the
// caller because the callback category skips some samples entirely.
func (r *Runner) sampleAndFK(stats *CategoryStats, trial int) (kinematics.JointConfiguration, kinematics.Pose, bool) {
	joints := kinematics.JointConfiguration(r.sampler.Sample())

	poses, err := r.solver.PositionFK([]string{r.solver.TipFrame()}, joints)
	if err != nil {
		stats.fail(newTrialError(ErrCodeFKFailed, stats.Category, trial,
			"FK failed on limits-valid sample %v: %v", joints, err))
		return nil, kinematics.Pose{}, false
	}
	if len(poses) != 1 {
		stats.fail(newTrialError(ErrCodeBadPoseCount, stats.Category, trial,
			"FK returned %d poses for 1 requested link", len(poses)))
		return nil, kinematics.Pose{}, false
	}
	return joints, poses[0], true
}

// checkRoundTrip re-runs FK on an IK solution and asserts the result
// matches the reference pose within tolerance. Mismatches are never
// tolerated, regardless of the statistical threshold.
func (r *Runner) checkRoundTrip(stats *CategoryStats, trial int, reference kinematics.Pose, solution kinematics.JointConfiguration) {
	poses, err := r.solver.PositionFK([]string{r.solver.TipFrame()}, solution)
	if err != nil {
		stats.fail(newTrialError(ErrCodeFKFailed, stats.Category, trial,
			"FK failed on IK solution %v: %v", solution, err))
		return
	}
	if len(poses) != 1 {
		stats.fail(newTrialError(ErrCodeBadPoseCount, stats.Category, trial,
			"FK returned %d poses for 1 requested link", len(poses)))
		return
	}
	if deviations := ComparePoses(reference, poses[0], PoseTolerance); len(deviations) > 0 {
		stats.fail(newTrialError(ErrCodeRoundTripMismatch, stats.Category, trial,
			"FK(IK(pose)) deviates from reference: %s", describeDeviations(deviations)))
	}
}

// checkCallbackInvariant asserts a callback-guarded search never
// returned a solution the callback must have rejected.
func (r *Runner) checkCallbackInvariant(stats *CategoryStats, trial int, solution kinematics.JointConfiguration) {
	poses, err := r.solver.PositionFK([]string{r.solver.TipFrame()}, solution)
	if err != nil || len(poses) != 1 {
		return // round-trip check reports FK trouble
	}
	if poses[0].Position[2] <= 0 {
		stats.fail(newTrialError(ErrCodeCallbackViolation, stats.Category, trial,
			"accepted solution has tip height %g <= 0", poses[0].Position[2]))
	}
}

func (r *Runner) recordTrial(ctx context.Context, category Category, trial int, success, skipped bool, detail string) {
	if err := r.rec.RecordTrial(ctx, r.runID, category, trial, success, skipped, detail); err != nil {
		r.log.Warn("recorder failed to record trial", "category", category, "trial", trial, "error", err)
	}
}

func (r *Runner) logRate(stats *CategoryStats) {
	r.log.Info("category finished",
		"category", stats.Category,
		"success_rate", stats.SuccessRate(),
		"elapsed", stats.Elapsed,
	)
}

// jointNamesEqual compares two joint name lists for equal length, order
// and content. Names are NFC-normalized before comparison.
func jointNamesEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if norm.NFC.String(got[i]) != norm.NFC.String(want[i]) {
			return false
		}
	}
	return true
}
