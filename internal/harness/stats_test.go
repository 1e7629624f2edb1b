package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryStats_StatisticalThreshold(t *testing.T) {
	tests := []struct {
		name      string
		trials    int
		successes int
		want      bool
	}{
		// At N=100 the float product 0.99*100 is exactly 99.0, so the
		// strict comparison admits nothing short of a perfect run.
		{"all succeed", 100, 100, true},
		{"one failure rejected at 100", 100, 99, false},
		{"two failures rejected", 100, 98, false},
		{"one failure tolerated at 101", 101, 100, true},
		{"systematic failure", 100, 50, false},
		{"none succeed", 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &CategoryStats{
				Category:    CategorySearchIK,
				Trials:      tt.trials,
				Attempts:    tt.trials,
				Successes:   tt.successes,
				Statistical: true,
			}
			assert.Equal(t, tt.want, s.ThresholdMet())
		})
	}
}

func TestCategoryStats_ExactRule(t *testing.T) {
	s := &CategoryStats{Category: CategoryFK, Trials: 10, Attempts: 10, Successes: 10}
	assert.True(t, s.ThresholdMet())

	s.Successes = 9
	assert.False(t, s.ThresholdMet())

	empty := &CategoryStats{Category: CategoryMetadata}
	assert.False(t, empty.ThresholdMet(), "a category that never ran must not pass")
}

func TestCategoryStats_FailuresVetoPass(t *testing.T) {
	s := &CategoryStats{
		Category:    CategorySearchIK,
		Trials:      100,
		Attempts:    100,
		Successes:   100,
		Statistical: true,
	}
	assert.True(t, s.Passed())

	s.fail(newTrialError(ErrCodeRoundTripMismatch, CategorySearchIK, 3, "deviation"))
	assert.True(t, s.ThresholdMet(), "threshold still met")
	assert.False(t, s.Passed(), "assertion failures are never tolerated")
}

func TestCategoryStats_SuccessRate(t *testing.T) {
	s := &CategoryStats{Trials: 100, Successes: 97}
	assert.InDelta(t, 0.97, s.SuccessRate(), 1e-12)

	assert.Zero(t, (&CategoryStats{}).SuccessRate())
}

func TestRunReport_Passed(t *testing.T) {
	empty := &RunReport{}
	assert.False(t, empty.Passed(), "a report with no categories must not pass")

	pass := &CategoryStats{Category: CategoryFK, Trials: 1, Attempts: 1, Successes: 1}
	fail := &CategoryStats{Category: CategoryDirectIK, Trials: 1, Attempts: 1, Statistical: true}

	assert.True(t, (&RunReport{Categories: []*CategoryStats{pass}}).Passed())
	assert.False(t, (&RunReport{Categories: []*CategoryStats{pass, fail}}).Passed())
}

func TestTrialError_Format(t *testing.T) {
	err := newTrialError(ErrCodeFKFailed, CategoryFK, 7, "boom %d", 1)
	assert.Equal(t, "FK_FAILED: boom 1 (category=fk, trial=7)", err.Error())
	assert.False(t, IsRoundTripError(err))

	rt := newTrialError(ErrCodeRoundTripMismatch, CategoryDirectIK, 1, "off")
	assert.True(t, IsRoundTripError(rt))
}
