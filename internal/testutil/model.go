// Package testutil provides shared deterministic fixtures for tests:
// canonical robot descriptions matching the built-in cartesian6 chain.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/armlab/kinconform/internal/robotmodel"
)

// gantryYAML is a six-joint gantry: three prismatic rails carrying the
// tip position and a three-axis wrist. The lift joint is strictly
// positive so every sampled tip pose sits above zero height, and the
// roll joint spans two full turns so most orientations have multiple
// IK branches.
const gantryYAML = `
name: gantry6
links: [base, carriage_x, carriage_y, mast, wrist_yaw, wrist_pitch, tool0]
groups:
  arm:
    root_link: base
    tip_link: tool0
    joints:
      - {name: rail_x, type: prismatic, min: -0.75, max: 0.75}
      - {name: rail_y, type: prismatic, min: -0.5, max: 0.5}
      - {name: lift_z, type: prismatic, min: 0.05, max: 1.2}
      - {name: wrist_yaw, type: revolute, min: -3.0, max: 3.0}
      - {name: wrist_pitch, type: revolute, min: -1.3, max: 1.3}
      - {name: wrist_roll, type: revolute, min: -6.283185307179586, max: 6.283185307179586}
`

// lowGantryYAML is the same chain with a lift range crossing zero, so
// some sampled reference poses have non-positive tip height. Used to
// exercise the callback category's skip path.
const lowGantryYAML = `
name: gantry6-low
links: [base, carriage_x, carriage_y, mast, wrist_yaw, wrist_pitch, tool0]
groups:
  arm:
    root_link: base
    tip_link: tool0
    joints:
      - {name: rail_x, type: prismatic, min: -0.75, max: 0.75}
      - {name: rail_y, type: prismatic, min: -0.5, max: 0.5}
      - {name: lift_z, type: prismatic, min: -0.4, max: 0.4}
      - {name: wrist_yaw, type: revolute, min: -3.0, max: 3.0}
      - {name: wrist_pitch, type: revolute, min: -1.3, max: 1.3}
      - {name: wrist_roll, type: revolute, min: -6.283185307179586, max: 6.283185307179586}
`

// GantryDescription returns the canonical test robot description.
func GantryDescription() []byte {
	return []byte(gantryYAML)
}

// LowGantryDescription returns the variant whose lift range crosses
// zero height.
func LowGantryDescription() []byte {
	return []byte(lowGantryYAML)
}

// GantryModel parses the canonical description, failing the test on
// error.
func GantryModel(t *testing.T) *robotmodel.Model {
	t.Helper()
	m, err := robotmodel.Parse(GantryDescription())
	if err != nil {
		t.Fatalf("failed to parse gantry description: %v", err)
	}
	return m
}

// LowGantryModel parses the low-lift description, failing the test on
// error.
func LowGantryModel(t *testing.T) *robotmodel.Model {
	t.Helper()
	m, err := robotmodel.Parse(LowGantryDescription())
	if err != nil {
		t.Fatalf("failed to parse low gantry description: %v", err)
	}
	return m
}

// WriteGantryDescription writes the canonical description into dir and
// returns its path.
func WriteGantryDescription(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "gantry6.yaml")
	if err := os.WriteFile(path, GantryDescription(), 0o644); err != nil {
		t.Fatalf("failed to write robot description: %v", err)
	}
	return path
}

// GantryJointNames is the joint order of the canonical description.
func GantryJointNames() []string {
	return []string{"rail_x", "rail_y", "lift_z", "wrist_yaw", "wrist_pitch", "wrist_roll"}
}
