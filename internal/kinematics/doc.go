// Package kinematics defines the capability contract a kinematics solver
// must satisfy to be exercised by the conformance harness.
//
// A solver maps joint configurations to tip poses (forward kinematics)
// and target poses back to joint configurations (inverse kinematics).
// The harness never implements these mappings itself; it consumes them
// through the Solver interface and checks their behavior statistically.
//
// Solvers announce themselves through the package registry. The registry
// is the compile-time stand-in for host-controlled dynamic plugin
// loading: a solver package calls Register from an init func, and the
// harness resolves the configured solver name with Open. Unknown names
// are a startup error, mirroring a failed plugin load.
package kinematics
