package kinematics

import "fmt"

// Pose is the spatial pose of a link: a position in Cartesian space plus
// a unit quaternion orientation. Quaternion components are ordered
// x, y, z, w.
type Pose struct {
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
}

// JointConfiguration is an ordered sequence of joint values, one per
// actuated joint in a group. Length is fixed per group.
type JointConfiguration []float64

// Clone returns an independent copy of the configuration.
func (c JointConfiguration) Clone() JointConfiguration {
	out := make(JointConfiguration, len(c))
	copy(out, c)
	return out
}

// Zero returns an all-zero configuration of n joints.
func Zero(n int) JointConfiguration {
	return make(JointConfiguration, n)
}

// ResultCode is the enumerated outcome of a single FK/IK call.
//
// Values follow the MoveIt error-code convention so that result codes
// recorded by the harness line up with what solver authors already log.
type ResultCode int32

const (
	// ResultSuccess indicates the call produced a valid solution.
	ResultSuccess ResultCode = 1

	// ResultFailure is a catch-all for unclassified solver failure.
	ResultFailure ResultCode = 99999

	// ResultPlanningFailed indicates the search could not reach the
	// target (including rejection of every candidate by an acceptance
	// callback).
	ResultPlanningFailed ResultCode = -1

	// ResultTimedOut indicates the search exhausted its timeout.
	ResultTimedOut ResultCode = -6

	// ResultNoSolution indicates the target is outside the solvable
	// workspace or joint limits.
	ResultNoSolution ResultCode = -31
)

// String returns the symbolic name of the code.
func (c ResultCode) String() string {
	switch c {
	case ResultSuccess:
		return "SUCCESS"
	case ResultFailure:
		return "FAILURE"
	case ResultPlanningFailed:
		return "PLANNING_FAILED"
	case ResultTimedOut:
		return "TIMED_OUT"
	case ResultNoSolution:
		return "NO_IK_SOLUTION"
	default:
		return fmt.Sprintf("ResultCode(%d)", int32(c))
	}
}

// OK reports whether the code is a success.
func (c ResultCode) OK() bool {
	return c == ResultSuccess
}

// KinematicError is the status of a batch (multi-solution) IK query.
type KinematicError int

const (
	// ErrorOK indicates the query produced at least a well-formed
	// (possibly empty) solution set without solver failure.
	ErrorOK KinematicError = iota

	// ErrorNoSolution indicates no valid solution exists for the query.
	ErrorNoSolution

	// ErrorSolverFailed indicates an internal solver failure.
	ErrorSolverFailed

	// ErrorUnsupportedQuery indicates the solver does not support the
	// requested query shape (e.g. multiple tip poses).
	ErrorUnsupportedQuery
)

// String returns the symbolic name of the error.
func (e KinematicError) String() string {
	switch e {
	case ErrorOK:
		return "OK"
	case ErrorNoSolution:
		return "NO_SOLUTION"
	case ErrorSolverFailed:
		return "SOLVER_FAILED"
	case ErrorUnsupportedQuery:
		return "UNSUPPORTED_QUERY"
	default:
		return fmt.Sprintf("KinematicError(%d)", int(e))
	}
}

// KinematicsResult carries the status of a batch IK query.
type KinematicsResult struct {
	Error KinematicError
}

// QueryOptions tunes a batch IK query.
type QueryOptions struct {
	// DiscretizationResolution overrides the solver's configured search
	// discretization when non-zero.
	DiscretizationResolution float64

	// MaxSolutions caps the returned solution set when non-zero.
	MaxSolutions int
}
