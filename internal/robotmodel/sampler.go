package robotmodel

import "math/rand"

// Sampler draws random joint configurations uniformly within the limits
// of one joint group. It is the harness's source of limits-valid test
// inputs.
//
// Sampler is not safe for concurrent use; the harness samples from a
// single goroutine.
type Sampler struct {
	group *Group
	rng   *rand.Rand
}

// NewSampler creates a sampler for the group, seeded for reproducible
// runs. The same seed yields the same sample sequence.
func NewSampler(group *Group, seed int64) *Sampler {
	return &Sampler{
		group: group,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Sample returns a fresh configuration with every joint value drawn
// uniformly from [min, max].
func (s *Sampler) Sample() []float64 {
	joints := make([]float64, len(s.group.Joints))
	for i, j := range s.group.Joints {
		joints[i] = j.Min + s.rng.Float64()*(j.Max-j.Min)
	}
	return joints
}
