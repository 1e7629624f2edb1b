// Package robotmodel provides the robot description consumed by
// kinematics solvers and the harness: link/group topology, per-joint
// limits, and joint-limit-respecting random configuration sampling.
//
// Descriptions are plain YAML files. Parsing a full URDF/SRDF robot
// description is out of scope; the YAML form carries exactly the
// structure the conformance harness needs (links, named joint groups,
// joint types and limits).
package robotmodel
