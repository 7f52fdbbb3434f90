package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one ordered-list conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// List is the list the steps operate on. Defaults to "default".
	List string `yaml:"list,omitempty"`

	// Steps run in order against a fresh store.
	Steps []Step `yaml:"steps"`

	// ExpectOrder is the expected payload order after the last step.
	// Nil skips the check; an empty list expects an empty list.
	ExpectOrder []string `yaml:"expect_order,omitempty"`
}

// Step is a single list operation. Exactly one of Append, Move, Remove or
// Compact must be set.
type Step struct {
	// Append adds an item with this payload at the end.
	Append string `yaml:"append,omitempty"`

	// Move is the label of the item to move to position To.
	Move string `yaml:"move,omitempty"`

	// To is the 1-based target position for Move.
	To int `yaml:"to,omitempty"`

	// Remove is the label of the item to delete.
	Remove string `yaml:"remove,omitempty"`

	// Compact renumbers the list's keys.
	Compact bool `yaml:"compact,omitempty"`

	// ExpectError is the reorder.ErrorCode the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// ExpectKey is the "num/den" key an append or move must produce.
	ExpectKey string `yaml:"expect_key,omitempty"`
}

// Step kinds reported in the trace.
const (
	OpAppend  = "append"
	OpMove    = "move"
	OpRemove  = "remove"
	OpCompact = "compact"
)

// Kind returns which operation the step performs, or "" if it names none
// or more than one.
func (s Step) Kind() string {
	var kinds []string
	if s.Append != "" {
		kinds = append(kinds, OpAppend)
	}
	if s.Move != "" {
		kinds = append(kinds, OpMove)
	}
	if s.Remove != "" {
		kinds = append(kinds, OpRemove)
	}
	if s.Compact {
		kinds = append(kinds, OpCompact)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expect_errors:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
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

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch step.Kind() {
		case "":
			return fmt.Errorf("step %d: exactly one of append, move, remove, compact is required", i+1)
		case OpMove:
			if step.To == 0 && step.ExpectError == "" {
				return fmt.Errorf("step %d: move requires to", i+1)
			}
		default:
			if step.To != 0 {
				return fmt.Errorf("step %d: to is only valid with move", i+1)
			}
		}
		if step.ExpectKey != "" && step.ExpectError != "" {
			return fmt.Errorf("step %d: expect_key and expect_error are exclusive", i+1)
		}
	}

	return nil
}
