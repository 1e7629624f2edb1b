package cartesian

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixFromZYX_Identity(t *testing.T) {
	r := matrixFromZYX(0, 0, 0)
	want := matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], r[i][j], 1e-12)
		}
	}
}

func TestQuatFromMatrix_Identity(t *testing.T) {
	q := quatFromMatrix(matrixFromZYX(0, 0, 0))
	assert.InDelta(t, 0, q[0], 1e-12)
	assert.InDelta(t, 0, q[1], 1e-12)
	assert.InDelta(t, 0, q[2], 1e-12)
	assert.InDelta(t, 1, q[3], 1e-12)
}

func TestQuatFromMatrix_NonNegativeW(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		yaw := (rng.Float64()*2 - 1) * math.Pi
		pitch := (rng.Float64()*2 - 1) * 1.4
		roll := (rng.Float64()*2 - 1) * math.Pi
		q := quatFromMatrix(matrixFromZYX(yaw, pitch, roll))
		assert.GreaterOrEqual(t, q[3], 0.0, "w must be canonicalized non-negative")
	}
}

func TestQuatFromMatrix_BranchesAgree(t *testing.T) {
	// The same orientation reached through a 2*pi-shifted joint angle
	// must produce the same quaternion, not its antipode.
	q1 := quatFromMatrix(matrixFromZYX(1.0, 0.5, -0.7))
	q2 := quatFromMatrix(matrixFromZYX(1.0+2*math.Pi, 0.5, -0.7))
	for i := range q1 {
		assert.InDelta(t, q1[i], q2[i], 1e-9)
	}
}

func TestEulerQuaternionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		yaw := (rng.Float64()*2 - 1) * math.Pi
		pitch := (rng.Float64()*2 - 1) * 1.4
		roll := (rng.Float64()*2 - 1) * math.Pi

		q := quatFromMatrix(matrixFromZYX(yaw, pitch, roll))
		y2, p2, r2 := zyxFromMatrix(matrixFromQuat(q))
		q2 := quatFromMatrix(matrixFromZYX(y2, p2, r2))

		// Angles may differ by representation, but the quaternion must survive.
		for c := range q {
			assert.InDelta(t, q[c], q2[c], 1e-9, "component %d at trial %d", c, i)
		}
	}
}

func TestMatrixFromQuat_SignInvariant(t *testing.T) {
	q := quatFromMatrix(matrixFromZYX(0.3, -0.2, 1.1))
	neg := [4]float64{-q[0], -q[1], -q[2], -q[3]}

	a := matrixFromQuat(q)
	b := matrixFromQuat(neg)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, a[i][j], b[i][j], 1e-12)
		}
	}
}

func TestWrappedBranches(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		min, max float64
		want     []float64
	}{
		{"single branch", 1.0, -math.Pi, math.Pi, []float64{1.0}},
		{"two branches", 1.0, -2 * math.Pi, 2 * math.Pi, []float64{1.0 - 2*math.Pi, 1.0}},
		{"no branch", 1.0, 2.0, 3.0, nil},
		{"wrapped into range", -3.0, 2.0, 4.0, []float64{-3.0 + 2*math.Pi}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrappedBranches(tt.base, tt.min, tt.max)
			if assert.Len(t, got, len(tt.want)) {
				for i := range tt.want {
					assert.InDelta(t, tt.want[i], got[i], 1e-12)
				}
			}
		})
	}
}
