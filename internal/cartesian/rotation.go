package cartesian

import "math"

// twoPi is the period of a revolute joint.
const twoPi = 2 * math.Pi

// matrix is a 3x3 rotation matrix in row-major order.
type matrix [3][3]float64

// matrixFromZYX builds the rotation matrix for intrinsic Z-Y-X Euler
// angles (yaw about Z, then pitch about Y, then roll about X).
func matrixFromZYX(yaw, pitch, roll float64) matrix {
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cr, sr := math.Cos(roll), math.Sin(roll)

	return matrix{
		{cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr},
		{sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr},
		{-sp, cp * sr, cp * cr},
	}
}

// zyxFromMatrix extracts intrinsic Z-Y-X Euler angles from a rotation
// matrix. The pitch branch is the principal one (|pitch| <= pi/2); the
// chain's pitch joint limits keep sampled poses away from the
// gimbal-lock boundary.
func zyxFromMatrix(r matrix) (yaw, pitch, roll float64) {
	sp := -r[2][0]
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}
	pitch = math.Asin(sp)
	yaw = math.Atan2(r[1][0], r[0][0])
	roll = math.Atan2(r[2][1], r[2][2])
	return yaw, pitch, roll
}

// quatFromMatrix converts a rotation matrix to a unit quaternion
// (x, y, z, w) with w >= 0. The sign convention is deliberate: both
// 2*pi-separated joint branches of the same orientation produce the
// same quaternion, so round-trip comparisons are not at the mercy of
// the double-cover ambiguity the harness comparator ignores.
func quatFromMatrix(r matrix) [4]float64 {
	var q [4]float64
	tr := r[0][0] + r[1][1] + r[2][2]

	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q[3] = s / 4
		q[0] = (r[2][1] - r[1][2]) / s
		q[1] = (r[0][2] - r[2][0]) / s
		q[2] = (r[1][0] - r[0][1]) / s
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := math.Sqrt(1+r[0][0]-r[1][1]-r[2][2]) * 2
		q[3] = (r[2][1] - r[1][2]) / s
		q[0] = s / 4
		q[1] = (r[0][1] + r[1][0]) / s
		q[2] = (r[0][2] + r[2][0]) / s
	case r[1][1] > r[2][2]:
		s := math.Sqrt(1+r[1][1]-r[0][0]-r[2][2]) * 2
		q[3] = (r[0][2] - r[2][0]) / s
		q[0] = (r[0][1] + r[1][0]) / s
		q[1] = s / 4
		q[2] = (r[1][2] + r[2][1]) / s
	default:
		s := math.Sqrt(1+r[2][2]-r[0][0]-r[1][1]) * 2
		q[3] = (r[1][0] - r[0][1]) / s
		q[0] = (r[0][2] + r[2][0]) / s
		q[1] = (r[1][2] + r[2][1]) / s
		q[2] = s / 4
	}

	if q[3] < 0 {
		for i := range q {
			q[i] = -q[i]
		}
	}
	return q
}

// matrixFromQuat converts a unit quaternion (x, y, z, w) to a rotation
// matrix. The result is the same for q and -q.
func matrixFromQuat(q [4]float64) matrix {
	x, y, z, w := q[0], q[1], q[2], q[3]
	return matrix{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}
