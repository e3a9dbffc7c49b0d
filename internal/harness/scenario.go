package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dispatchgen/internal/ir"
)

// Scenario defines an ordering scenario: a hierarchy, a set of frames and
// the assertions the sorted frames must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Events declares the event hierarchy.
	Events []EventStep `yaml:"events"`

	// Frames lists one entry per frame, in input order.
	Frames []FrameStep `yaml:"frames"`

	// Permute also sorts every permutation of Frames and requires the
	// same result each time. Limited to maxPermuteFrames frames.
	Permute bool `yaml:"permute,omitempty"`

	// Assertions validate the sorted frames.
	Assertions []Assertion `yaml:"assertions"`
}

// EventStep declares one event type.
type EventStep struct {
	Name       string   `yaml:"name"`
	Parent     string   `yaml:"parent,omitempty"`
	Interface  bool     `yaml:"interface,omitempty"`
	Implements []string `yaml:"implements,omitempty"`
}

// FrameStep declares one frame.
type FrameStep struct {
	// Event is the frame's event type; "any" is the universal root.
	Event string `yaml:"event"`
	Async bool   `yaml:"async,omitempty"`
}

// Assertion validates the sorted frames.
type Assertion struct {
	// Type specifies the assertion type:
	// - "order": exact emitted order
	// - "before": First precedes Then
	// - "last": Event is emitted last
	// - "count": exactly Count frames
	// - "derived_before_base": hierarchy order holds for every pair
	Type string `yaml:"type"`

	// Expect is the exact order (used by order).
	Expect []string `yaml:"expect,omitempty"`

	// First and Then name event types (used by before).
	First string `yaml:"first,omitempty"`
	Then  string `yaml:"then,omitempty"`

	// Event names an event type (used by last).
	Event string `yaml:"event,omitempty"`

	// Count is the expected number of frames (used by count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOrder             = "order"
	AssertBefore            = "before"
	AssertLast              = "last"
	AssertCount             = "count"
	AssertDerivedBeforeBase = "derived_before_base"
)

// maxPermuteFrames bounds permutation runs to 8! sorts.
const maxPermuteFrames = 8

// Decls converts the scenario's event steps to declarations.
func (s *Scenario) Decls() []ir.EventTypeDecl {
	decls := make([]ir.EventTypeDecl, len(s.Events))
	for i, e := range s.Events {
		decls[i] = ir.EventTypeDecl{
			Name:       e.Name,
			Parent:     e.Parent,
			Interface:  e.Interface,
			Implements: e.Implements,
		}
	}
	return decls
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

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
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
// Hierarchy problems (unknown parents, cycles) are reported by Run.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, e := range s.Events {
		if e.Name == "" {
			return fmt.Errorf("events[%d]: name is required", i)
		}
	}

	for i, f := range s.Frames {
		if f.Event == "" {
			return fmt.Errorf("frames[%d]: event is required", i)
		}
	}

	if s.Permute && len(s.Frames) > maxPermuteFrames {
		return fmt.Errorf("permute supports at most %d frames, got %d", maxPermuteFrames, len(s.Frames))
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
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
	case AssertOrder:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for order", index)
		}
	case AssertBefore:
		if a.First == "" || a.Then == "" {
			return fmt.Errorf("assertions[%d]: first and then are required for before", index)
		}
	case AssertLast:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for last", index)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertDerivedBeforeBase:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
