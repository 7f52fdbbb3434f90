package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as the plain-text golden format:
//
//	scenario: move_to_front
//	list: todo (list-1)
//	steps:
//	  1 append A -> id=1 key=1/1
//	  4 move C to 1 -> id=3 key=1/2
//	final:
//	  1. C id=3 key=1/2
//
// Keys print in exact "num/den" form; the output is identical across runs.
func Snapshot(name string, result *Result) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "list: %s (%s)\n", result.List.Name, result.List.ID)
	b.WriteString("steps:\n")
	for _, event := range result.Trace {
		fmt.Fprintf(&b, "  %s\n", event)
	}
	b.WriteString("final:\n")
	for i, it := range result.Final {
		fmt.Fprintf(&b, "  %d. %s id=%d key=%s\n", i+1, it.Payload, it.ID, it.Key)
	}
	return b.Bytes()
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}
