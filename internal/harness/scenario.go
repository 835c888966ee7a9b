package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/compstate/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Machine is the path of the YAML or CUE machine document.
	// LoadScenario resolves it relative to the scenario file.
	Machine string `yaml:"machine"`

	// Start is an optional start path such as "Login" or "A/B".
	Start string `yaml:"start,omitempty"`

	// Steps are fired in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the finished trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one input with an optional expectation.
type Step struct {
	Input  string        `yaml:"input"`
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies what a step must produce. Unset fields are not
// checked.
type ExpectClause struct {
	// Result is "Transitioned" or "NoAction".
	Result string `yaml:"result,omitempty"`

	// Path is the expected path after the step.
	Path string `yaml:"path,omitempty"`

	// Hooks are the composite engine's hook calls, in order.
	Hooks []string `yaml:"hooks,omitempty"`

	// TableHooks are the table engine's hook calls, in order.
	TableHooks []string `yaml:"table_hooks,omitempty"`
}

// Assertion validates the finished trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Path is used by visits, visit_count and final_path.
	Path string `yaml:"path,omitempty"`

	// Paths is used by visit_order.
	Paths []string `yaml:"paths,omitempty"`

	// Count is used by visit_count.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertVisits     = "visits"
	AssertVisitOrder = "visit_order"
	AssertVisitCount = "visit_count"
	AssertFinalPath  = "final_path"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Machine != "" && !filepath.IsAbs(scenario.Machine) {
		scenario.Machine = filepath.Join(filepath.Dir(path), scenario.Machine)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Machine == "" {
		return fmt.Errorf("machine is required")
	}
	if _, err := os.Stat(s.Machine); os.IsNotExist(err) {
		return &MachineNotFoundError{Scenario: s.Name, Path: s.Machine}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Input == "" {
			return fmt.Errorf("steps[%d]: input is required", i)
		}
		if step.Expect != nil && step.Expect.Result != "" {
			var r ir.Result
			if err := r.UnmarshalText([]byte(step.Expect.Result)); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertVisits, AssertFinalPath:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for %s", index, a.Type)
		}
	case AssertVisitOrder:
		if len(a.Paths) == 0 {
			return fmt.Errorf("assertions[%d]: paths list is required for visit_order", index)
		}
	case AssertVisitCount:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for visit_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for visit_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
