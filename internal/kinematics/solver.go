package kinematics

import (
	"time"

	"github.com/armlab/kinconform/internal/robotmodel"
)

// AcceptanceCallback is invoked by a search-based IK operation for each
// candidate solution. It receives the candidate's FK pose and joint
// values and returns ResultSuccess to accept or any other code to
// reject. The search calls it synchronously, possibly many times per
// query; implementations must be side-effect free beyond inspecting
// their arguments.
type AcceptanceCallback func(pose Pose, candidate JointConfiguration) ResultCode

// Solver is the capability contract a kinematics solver exposes to the
// harness. A solver instance is long-lived: Initialize is called once,
// then the instance is reused for every validation cycle. Solvers are
// not required to be safe for concurrent use; the harness invokes them
// from a single goroutine.
type Solver interface {
	// Initialize binds the solver to one kinematic chain of the robot
	// model. searchDiscretization is the step size, in joint units,
	// that search-based IK uses to walk redundant degrees of freedom.
	// A non-nil error is fatal to the run.
	Initialize(model *robotmodel.Model, group, rootLink, tipLink string, searchDiscretization float64) error

	// BaseFrame returns the root link the solver was initialized with.
	BaseFrame() string

	// TipFrame returns the tip link the solver was initialized with.
	TipFrame() string

	// GroupName returns the joint group the solver was initialized with.
	GroupName() string

	// JointNames returns the actuated joint names of the chain, in the
	// order joint configurations are interpreted.
	JointNames() []string

	// PositionFK computes one pose per requested link for the given
	// configuration. For a configuration within joint limits it must
	// not fail.
	PositionFK(linkNames []string, joints JointConfiguration) ([]Pose, error)

	// PositionIK solves for the target pose directly (no search),
	// guided by the seed configuration.
	PositionIK(target Pose, seed JointConfiguration) (JointConfiguration, ResultCode)

	// SearchPositionIK iteratively searches for a solution to the
	// target pose starting from the seed, bounded by timeout.
	SearchPositionIK(target Pose, seed JointConfiguration, timeout time.Duration) (JointConfiguration, ResultCode)

	// SearchPositionIKWithCallback is SearchPositionIK with a
	// per-candidate acceptance callback. A candidate rejected by the
	// callback is never returned as the final solution.
	SearchPositionIKWithCallback(target Pose, seed JointConfiguration, timeout time.Duration, cb AcceptanceCallback) (JointConfiguration, ResultCode)

	// PositionIKMultiple returns all valid solutions for the target
	// poses. The harness only issues single-pose queries; solvers may
	// reject multi-pose queries with ErrorUnsupportedQuery.
	PositionIKMultiple(targets []Pose, opts QueryOptions) ([]JointConfiguration, KinematicsResult)
}
