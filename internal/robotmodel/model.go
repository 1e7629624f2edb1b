package robotmodel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// JointType classifies how a joint value is interpreted.
type JointType string

const (
	// JointPrismatic is a linear joint; values are lengths.
	JointPrismatic JointType = "prismatic"

	// JointRevolute is a rotary joint; values are angles in radians.
	JointRevolute JointType = "revolute"
)

// Joint describes one actuated joint and its position limits.
type Joint struct {
	Name string    `yaml:"name"`
	Type JointType `yaml:"type"`
	Min  float64   `yaml:"min"`
	Max  float64   `yaml:"max"`
}

// Group is a named, ordered subset of a robot's joints treated as one
// kinematic chain, bounded by a root and a tip link.
type Group struct {
	RootLink string  `yaml:"root_link"`
	TipLink  string  `yaml:"tip_link"`
	Joints   []Joint `yaml:"joints"`
}

// DOF returns the number of actuated joints in the group.
func (g *Group) DOF() int {
	return len(g.Joints)
}

// JointNames returns the joint names in configuration order.
func (g *Group) JointNames() []string {
	names := make([]string, len(g.Joints))
	for i, j := range g.Joints {
		names[i] = j.Name
	}
	return names
}

// WithinLimits reports whether every value of the configuration lies
// inside the corresponding joint's limits. A length mismatch is never
// within limits.
func (g *Group) WithinLimits(joints []float64) bool {
	if len(joints) != len(g.Joints) {
		return false
	}
	for i, v := range joints {
		if v < g.Joints[i].Min || v > g.Joints[i].Max {
			return false
		}
	}
	return true
}

// Model is a parsed robot description: the link set plus named joint
// groups.
type Model struct {
	Name   string            `yaml:"name"`
	Links  []string          `yaml:"links"`
	Groups map[string]*Group `yaml:"groups"`
}

// Load reads and validates a robot description from a YAML file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read robot description: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML robot description.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse robot description: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid robot description: %w", err)
	}
	return &m, nil
}

// Group looks up a joint group by name.
func (m *Model) Group(name string) (*Group, error) {
	g, ok := m.Groups[name]
	if !ok {
		return nil, fmt.Errorf("robot %q has no joint group %q", m.Name, name)
	}
	return g, nil
}

// HasLink reports whether the model declares the named link.
func (m *Model) HasLink(name string) bool {
	for _, l := range m.Links {
		if l == name {
			return true
		}
	}
	return false
}

func (m *Model) validate() error {
	if m.Name == "" {
		return fmt.Errorf("missing robot name")
	}
	if len(m.Links) == 0 {
		return fmt.Errorf("robot %q declares no links", m.Name)
	}
	if len(m.Groups) == 0 {
		return fmt.Errorf("robot %q declares no joint groups", m.Name)
	}

	for name, g := range m.Groups {
		if g == nil || len(g.Joints) == 0 {
			return fmt.Errorf("group %q has no joints", name)
		}
		if !m.HasLink(g.RootLink) {
			return fmt.Errorf("group %q root link %q is not a declared link", name, g.RootLink)
		}
		if !m.HasLink(g.TipLink) {
			return fmt.Errorf("group %q tip link %q is not a declared link", name, g.TipLink)
		}

		seen := make(map[string]bool, len(g.Joints))
		for i, j := range g.Joints {
			if j.Name == "" {
				return fmt.Errorf("group %q joint %d has no name", name, i)
			}
			if seen[j.Name] {
				return fmt.Errorf("group %q declares joint %q twice", name, j.Name)
			}
			seen[j.Name] = true

			switch j.Type {
			case JointPrismatic, JointRevolute:
			default:
				return fmt.Errorf("joint %q has unknown type %q", j.Name, j.Type)
			}
			if j.Min >= j.Max {
				return fmt.Errorf("joint %q has empty limit range [%g, %g]", j.Name, j.Min, j.Max)
			}
		}
	}
	return nil
}
