package harness

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Default operating parameters. Trials and the search-IK timeout follow
// the reference configuration of the protocol; the discretization is
// the fixed constant handed to solver initialization.
const (
	DefaultTrials               = 100
	DefaultTimeout              = 5 * time.Second
	DefaultSearchDiscretization = 0.01
)

// configSchema is the structural contract every harness configuration
// must satisfy. The definition is closed: unknown keys are rejected,
// and the four operating parameters plus the solver name and robot
// description are required with no partial-configuration mode.
const configSchema = `
#Config: {
	solver:            string & !=""
	robot_description: string & !=""
	group:             string & !=""
	root_link:         string & !=""
	tip_link:          string & !=""

	// Ordered joint list, used for post-load metadata verification.
	joint_names: [string, ...string]

	trials?:                int & >0
	timeout_seconds?:       number & >0
	search_discretization?: number & >0
	seed?:                  int
}
`

// Config resolves which solver to test and its operating parameters.
type Config struct {
	// Solver is the registry name of the plugin under test.
	Solver string `yaml:"solver"`

	// RobotDescription is the path to the robot description YAML file.
	RobotDescription string `yaml:"robot_description"`

	// Group, RootLink and TipLink identify the kinematic chain.
	Group    string `yaml:"group"`
	RootLink string `yaml:"root_link"`
	TipLink  string `yaml:"tip_link"`

	// JointNames is the expected ordered joint list; it is used only
	// for the metadata-consistency check after solver initialization.
	JointNames []string `yaml:"joint_names"`

	// Trials is the per-category sample count N.
	Trials int `yaml:"trials"`

	// TimeoutSeconds bounds each search-based IK call.
	TimeoutSeconds float64 `yaml:"timeout_seconds"`

	// SearchDiscretization is passed verbatim to solver initialization.
	SearchDiscretization float64 `yaml:"search_discretization"`

	// Seed seeds the random configuration sampler. Runs with the same
	// seed are reproducible.
	Seed int64 `yaml:"seed"`
}

// Timeout returns the search-IK timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// LoadConfig reads, validates, and defaults a harness configuration.
// Any missing required parameter is an error; callers treat it as fatal
// and do not proceed to validation.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig validates YAML config bytes against the embedded schema
// and decodes them.
func ParseConfig(data []byte) (*Config, error) {
	// Decode generically first so schema validation sees exactly what
	// was written, including unknown keys.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validateConfig(raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		Trials:               DefaultTrials,
		TimeoutSeconds:       DefaultTimeout.Seconds(),
		SearchDiscretization: DefaultSearchDiscretization,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// validateConfig checks the raw config value against the CUE schema.
func validateConfig(raw map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal config schema is invalid: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("internal config schema has no #Config definition")
	}

	val := ctx.Encode(raw)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to encode config for validation: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}
	return nil
}
