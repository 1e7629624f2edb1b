// Package harness is the conformance test engine for kinematics
// solvers.
//
// Given a configuration naming a solver plugin and one kinematic chain
// (group, root link, tip link, joint names), the harness initializes a
// single long-lived solver instance and runs a fixed protocol against
// it: repeated sample-solve-verify cycles for forward kinematics,
// search-based IK, callback-guarded search IK, direct IK, and
// multi-solution IK. Trials sample random joint configurations within
// limits, compute a reference pose via FK, and check that IK solutions
// round-trip back to that pose within tolerance.
//
// The pass bar is statistical: a category passes when more than 99% of
// its trials succeed, which tolerates rare IK non-convergence while
// flagging systematic failure. Round-trip mismatches are different:
// they are correctness violations and fail the run outright, regardless
// of the success rate.
//
// Execution is single-threaded and sequential; one trial fully
// completes before the next begins, and the solver is never invoked
// concurrently.
package harness
