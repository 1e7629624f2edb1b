package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/armlab/kinconform/internal/kinematics"
)

// PoseTolerance is the absolute per-component bound used by the
// round-trip comparison, applied independently to each of the seven
// pose scalars (x, y, z, qx, qy, qz, qw).
const PoseTolerance = 1e-4

// poseComponents labels the seven scalars in comparison order.
var poseComponents = [7]string{"x", "y", "z", "qx", "qy", "qz", "qw"}

// ComparePoses checks componentwise closeness of two poses within tol
// and returns a description of every component out of bounds. An empty
// slice means the poses match.
//
// The comparison is deliberately naive scalar-by-scalar: no angular
// distance, and no handling of the quaternion double cover (q and -q
// encode the same rotation but compare as different). Solvers are
// expected to return sign-consistent quaternions.
func ComparePoses(want, got kinematics.Pose, tol float64) []string {
	w := flatten(want)
	g := flatten(got)

	var deviations []string
	for i := range w {
		if diff := math.Abs(w[i] - g[i]); diff > tol || math.IsNaN(diff) {
			deviations = append(deviations,
				fmt.Sprintf("%s: want %.9f, got %.9f (|diff| %.3g > %.3g)",
					poseComponents[i], w[i], g[i], diff, tol))
		}
	}
	return deviations
}

// PosesNear reports whether the poses match within tol on all seven
// components.
func PosesNear(want, got kinematics.Pose, tol float64) bool {
	return len(ComparePoses(want, got, tol)) == 0
}

// describeDeviations joins component deviations into one message.
func describeDeviations(deviations []string) string {
	return strings.Join(deviations, "; ")
}

func flatten(p kinematics.Pose) [7]float64 {
	return [7]float64{
		p.Position[0], p.Position[1], p.Position[2],
		p.Orientation[0], p.Orientation[1], p.Orientation[2], p.Orientation[3],
	}
}
