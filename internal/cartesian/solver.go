// Package cartesian implements the solver capability contract in closed
// form for a decoupled six-joint chain: three prismatic joints carry the
// tip position directly, three revolute joints (intrinsic Z-Y-X) carry
// the orientation. It registers itself as the "cartesian6" plugin.
//
// The solver exists so the harness is runnable and testable end to end
// without an out-of-tree plugin. Because the chain is decoupled, FK and
// IK are exact inverses up to floating-point error, and multi-solution
// IK has a well-defined answer: the 2*pi branches of each revolute
// joint that fall inside its limits.
package cartesian

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/armlab/kinconform/internal/kinematics"
	"github.com/armlab/kinconform/internal/robotmodel"
)

// PluginName is the registry name of the solver.
const PluginName = "cartesian6"

// dof is the fixed chain size: 3 prismatic + 3 revolute.
const dof = 6

func init() {
	kinematics.Register(PluginName, func() kinematics.Solver { return &Solver{} })
}

// Solver solves the decoupled cartesian chain. The zero value is usable
// after Initialize.
type Solver struct {
	group          *robotmodel.Group
	groupName      string
	rootLink       string
	tipLink        string
	jointNames     []string
	discretization float64
}

// Initialize binds the solver to the chain described by the group.
// The group must have exactly six joints: three prismatic followed by
// three revolute.
func (s *Solver) Initialize(model *robotmodel.Model, group, rootLink, tipLink string, searchDiscretization float64) error {
	if model == nil {
		return fmt.Errorf("nil robot model")
	}
	g, err := model.Group(group)
	if err != nil {
		return err
	}
	if g.DOF() != dof {
		return fmt.Errorf("group %q has %d joints, solver requires %d", group, g.DOF(), dof)
	}
	for i, j := range g.Joints {
		want := robotmodel.JointPrismatic
		if i >= 3 {
			want = robotmodel.JointRevolute
		}
		if j.Type != want {
			return fmt.Errorf("joint %q is %s, solver requires %s at position %d", j.Name, j.Type, want, i)
		}
	}
	if g.RootLink != rootLink {
		return fmt.Errorf("group %q is rooted at %q, not %q", group, g.RootLink, rootLink)
	}
	if g.TipLink != tipLink {
		return fmt.Errorf("group %q ends at %q, not %q", group, g.TipLink, tipLink)
	}
	if searchDiscretization <= 0 {
		return fmt.Errorf("search discretization must be positive, got %g", searchDiscretization)
	}

	s.group = g
	s.groupName = group
	s.rootLink = rootLink
	s.tipLink = tipLink
	s.jointNames = g.JointNames()
	s.discretization = searchDiscretization
	return nil
}

// BaseFrame returns the configured root link.
func (s *Solver) BaseFrame() string { return s.rootLink }

// TipFrame returns the configured tip link.
func (s *Solver) TipFrame() string { return s.tipLink }

// GroupName returns the configured joint group.
func (s *Solver) GroupName() string { return s.groupName }

// JointNames returns the chain's joint names in configuration order.
func (s *Solver) JointNames() []string { return s.jointNames }

// PositionFK computes the tip pose for the configuration. Only the tip
// link is solvable; requesting any other link is an error.
func (s *Solver) PositionFK(linkNames []string, joints kinematics.JointConfiguration) ([]kinematics.Pose, error) {
	if s.group == nil {
		return nil, fmt.Errorf("solver not initialized")
	}
	if len(joints) != dof {
		return nil, fmt.Errorf("expected %d joint values, got %d", dof, len(joints))
	}

	poses := make([]kinematics.Pose, len(linkNames))
	for i, link := range linkNames {
		if link != s.tipLink {
			return nil, fmt.Errorf("cannot solve FK for link %q, only tip link %q", link, s.tipLink)
		}
		poses[i] = s.fk(joints)
	}
	return poses, nil
}

func (s *Solver) fk(joints kinematics.JointConfiguration) kinematics.Pose {
	r := matrixFromZYX(joints[3], joints[4], joints[5])
	return kinematics.Pose{
		Position:    [3]float64{joints[0], joints[1], joints[2]},
		Orientation: quatFromMatrix(r),
	}
}

// PositionIK solves the target directly, returning the solution branch
// nearest the seed.
func (s *Solver) PositionIK(target kinematics.Pose, seed kinematics.JointConfiguration) (kinematics.JointConfiguration, kinematics.ResultCode) {
	if s.group == nil {
		return nil, kinematics.ResultFailure
	}
	solutions := s.solveAll(target)
	if len(solutions) == 0 {
		return nil, kinematics.ResultNoSolution
	}
	sortBySeedDistance(solutions, seed)
	return solutions[0], kinematics.ResultSuccess
}

// SearchPositionIK searches for a solution within the timeout.
func (s *Solver) SearchPositionIK(target kinematics.Pose, seed kinematics.JointConfiguration, timeout time.Duration) (kinematics.JointConfiguration, kinematics.ResultCode) {
	return s.SearchPositionIKWithCallback(target, seed, timeout, nil)
}

// SearchPositionIKWithCallback searches for a solution within the
// timeout, offering each candidate to the acceptance callback before
// committing to it. Candidates are visited nearest-seed first.
func (s *Solver) SearchPositionIKWithCallback(target kinematics.Pose, seed kinematics.JointConfiguration, timeout time.Duration, cb kinematics.AcceptanceCallback) (kinematics.JointConfiguration, kinematics.ResultCode) {
	if s.group == nil {
		return nil, kinematics.ResultFailure
	}
	deadline := time.Now().Add(timeout)

	solutions := s.solveAll(target)
	if len(solutions) == 0 {
		return nil, kinematics.ResultNoSolution
	}
	sortBySeedDistance(solutions, seed)

	for _, candidate := range solutions {
		if time.Now().After(deadline) {
			return nil, kinematics.ResultTimedOut
		}
		if cb == nil {
			return candidate, kinematics.ResultSuccess
		}
		if code := cb(s.fk(candidate), candidate); code.OK() {
			return candidate, kinematics.ResultSuccess
		}
	}
	// Every branch was rejected by the callback.
	return nil, kinematics.ResultPlanningFailed
}

// PositionIKMultiple returns every solution branch for a single target
// pose. Multi-pose queries are not supported.
func (s *Solver) PositionIKMultiple(targets []kinematics.Pose, opts kinematics.QueryOptions) ([]kinematics.JointConfiguration, kinematics.KinematicsResult) {
	if s.group == nil {
		return nil, kinematics.KinematicsResult{Error: kinematics.ErrorSolverFailed}
	}
	if len(targets) != 1 {
		return nil, kinematics.KinematicsResult{Error: kinematics.ErrorUnsupportedQuery}
	}

	solutions := s.solveAll(targets[0])
	if len(solutions) == 0 {
		return nil, kinematics.KinematicsResult{Error: kinematics.ErrorNoSolution}
	}
	if opts.MaxSolutions > 0 && len(solutions) > opts.MaxSolutions {
		solutions = solutions[:opts.MaxSolutions]
	}
	return solutions, kinematics.KinematicsResult{Error: kinematics.ErrorOK}
}

// solveAll enumerates every limits-valid solution for the target pose.
// Prismatic joints are fixed by the position; each revolute joint
// contributes its 2*pi-shifted branches that fall inside its limits.
func (s *Solver) solveAll(target kinematics.Pose) []kinematics.JointConfiguration {
	base := make([]float64, dof)
	for i := 0; i < 3; i++ {
		base[i] = target.Position[i]
		if base[i] < s.group.Joints[i].Min || base[i] > s.group.Joints[i].Max {
			return nil
		}
	}
	base[3], base[4], base[5] = zyxFromMatrix(matrixFromQuat(target.Orientation))

	// Branch sets per revolute joint.
	var branches [3][]float64
	for i := 0; i < 3; i++ {
		j := s.group.Joints[3+i]
		branches[i] = wrappedBranches(base[3+i], j.Min, j.Max)
		if len(branches[i]) == 0 {
			return nil
		}
	}

	var solutions []kinematics.JointConfiguration
	for _, yaw := range branches[0] {
		for _, pitch := range branches[1] {
			for _, roll := range branches[2] {
				sol := kinematics.JointConfiguration{base[0], base[1], base[2], yaw, pitch, roll}
				solutions = append(solutions, sol)
			}
		}
	}
	return solutions
}

// wrappedBranches returns every angle of the form base + 2*pi*k inside
// [min, max], in increasing order.
func wrappedBranches(base, min, max float64) []float64 {
	kLo := int(math.Ceil((min - base) / twoPi))
	kHi := int(math.Floor((max - base) / twoPi))

	var out []float64
	for k := kLo; k <= kHi; k++ {
		out = append(out, base+twoPi*float64(k))
	}
	return out
}

// sortBySeedDistance orders solutions by squared joint-space distance
// to the seed, nearest first. A seed of mismatched length sorts by
// distance to the origin.
func sortBySeedDistance(solutions []kinematics.JointConfiguration, seed kinematics.JointConfiguration) {
	dist := func(sol kinematics.JointConfiguration) float64 {
		var d float64
		for i, v := range sol {
			ref := 0.0
			if i < len(seed) {
				ref = seed[i]
			}
			d += (v - ref) * (v - ref)
		}
		return d
	}
	sort.SliceStable(solutions, func(i, j int) bool {
		return dist(solutions[i]) < dist(solutions[j])
	})
}
