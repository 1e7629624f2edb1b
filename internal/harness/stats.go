package harness

import "time"

// Category names one validation category of the protocol.
type Category string

const (
	// CategoryMetadata checks solver-reported chain metadata against
	// the configuration.
	CategoryMetadata Category = "metadata"

	// CategoryFK validates forward kinematics on random samples.
	CategoryFK Category = "fk"

	// CategorySearchIK validates search-based IK with a zero seed.
	CategorySearchIK Category = "search_ik"

	// CategorySearchIKCallback validates search-based IK guarded by a
	// tip-height acceptance callback.
	CategorySearchIKCallback Category = "search_ik_callback"

	// CategoryDirectIK validates direct (non-search) IK.
	CategoryDirectIK Category = "direct_ik"

	// CategoryMultiIK validates multi-solution IK.
	CategoryMultiIK Category = "multi_ik"
)

// Categories lists all validation categories in execution order.
var Categories = []Category{
	CategoryMetadata,
	CategoryFK,
	CategorySearchIK,
	CategorySearchIKCallback,
	CategoryDirectIK,
	CategoryMultiIK,
}

// SuccessThreshold is the statistical pass bar: a statistical category
// passes when successes exceed this fraction of the configured trial
// count.
const SuccessThreshold = 0.99

// CategoryStats aggregates the outcome of one validation category.
// Counters reset per category, never across categories.
type CategoryStats struct {
	Category Category `json:"category"`

	// Trials is the configured sample count N. It is the threshold
	// denominator even when skipped trials reduce actual attempts.
	Trials int `json:"trials"`

	// Attempts counts trials actually scored (samples minus skips).
	Attempts int `json:"attempts"`

	// Successes counts trials whose success condition held.
	Successes int `json:"successes"`

	// Skipped counts trials excluded before being attempted.
	Skipped int `json:"skipped,omitempty"`

	// Failures lists assertion failures (hard FK failures, round-trip
	// mismatches, metadata mismatches). Any entry fails the category
	// regardless of the success rate.
	Failures []string `json:"failures,omitempty"`

	// Statistical selects the pass rule: statistical categories use the
	// threshold, exact categories require every attempt to succeed.
	Statistical bool `json:"statistical"`

	// Elapsed is wall-clock time spent in the category, recorded for
	// reporting only.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// SuccessRate returns successes over the configured trial count.
func (s *CategoryStats) SuccessRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Trials)
}

// ThresholdMet reports whether the category's success rule holds.
// The statistical rule is success_count > 0.99 * N, evaluated in
// floating point exactly as the protocol states it.
func (s *CategoryStats) ThresholdMet() bool {
	if !s.Statistical {
		return s.Attempts > 0 && s.Successes == s.Attempts
	}
	return float64(s.Successes) > SuccessThreshold*float64(s.Trials)
}

// Passed reports overall category success: the success rule holds and
// no assertion failure was recorded.
func (s *CategoryStats) Passed() bool {
	return s.ThresholdMet() && len(s.Failures) == 0
}

func (s *CategoryStats) fail(err *TrialError) {
	s.Failures = append(s.Failures, err.Error())
}

// RunReport is the aggregate outcome of one harness run.
type RunReport struct {
	RunID      string           `json:"run_id"`
	Solver     string           `json:"solver"`
	Robot      string           `json:"robot"`
	Group      string           `json:"group"`
	Started    time.Time        `json:"started"`
	Categories []*CategoryStats `json:"categories"`
}

// Passed reports whether every category passed.
func (r *RunReport) Passed() bool {
	if len(r.Categories) == 0 {
		return false
	}
	for _, c := range r.Categories {
		if !c.Passed() {
			return false
		}
	}
	return true
}
