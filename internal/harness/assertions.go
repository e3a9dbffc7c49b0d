package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/dispatchgen/internal/frame"
)

// AssertionError is returned when an assertion fails.
// It includes the emitted order to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Order    []string // Full emitted order for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nEmitted order:\n")
	for i, name := range e.Order {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, name)
	}

	return buf.String()
}

// assertOrder checks the emitted order exactly.
func assertOrder(order []string, assertion Assertion) error {
	if slices.Equal(order, assertion.Expect) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOrder,
		Expected: fmt.Sprintf("%v", assertion.Expect),
		Actual:   fmt.Sprintf("%v", order),
		Order:    order,
	}
}

// assertBefore checks that the first frame of type First precedes the first
// frame of type Then. Both must be present.
func assertBefore(order []string, assertion Assertion) error {
	first := slices.Index(order, assertion.First)
	then := slices.Index(order, assertion.Then)

	switch {
	case first < 0:
		return &AssertionError{
			Type:     AssertBefore,
			Expected: fmt.Sprintf("%s in output", assertion.First),
			Actual:   "not found",
			Order:    order,
		}
	case then < 0:
		return &AssertionError{
			Type:     AssertBefore,
			Expected: fmt.Sprintf("%s in output", assertion.Then),
			Actual:   "not found",
			Order:    order,
		}
	case first > then:
		return &AssertionError{
			Type:     AssertBefore,
			Expected: fmt.Sprintf("%s before %s", assertion.First, assertion.Then),
			Actual:   fmt.Sprintf("%s at %d, %s at %d", assertion.First, first, assertion.Then, then),
			Order:    order,
		}
	}
	return nil
}

// assertLast checks the type of the final frame.
func assertLast(order []string, assertion Assertion) error {
	if len(order) > 0 && order[len(order)-1] == assertion.Event {
		return nil
	}
	actual := "empty output"
	if len(order) > 0 {
		actual = order[len(order)-1]
	}
	return &AssertionError{
		Type:     AssertLast,
		Expected: assertion.Event,
		Actual:   actual,
		Order:    order,
	}
}

// assertCount checks the number of frames.
func assertCount(order []string, assertion Assertion) error {
	if len(order) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d frame(s)", assertion.Count),
		Actual:   fmt.Sprintf("%d frame(s)", len(order)),
		Order:    order,
	}
}

// assertDerivedBeforeBase checks every pair: a frame never follows a frame
// whose type strictly derives from its own.
func assertDerivedBeforeBase(sorted []*frame.Frame, order []string) error {
	for i, base := range sorted {
		for _, derived := range sorted[i+1:] {
			if derived.EventType().DerivesFrom(base.EventType()) {
				return &AssertionError{
					Type:     AssertDerivedBeforeBase,
					Expected: fmt.Sprintf("%s before its ancestor %s", derived, base),
					Actual:   fmt.Sprintf("%s after %s", derived, base),
					Order:    order,
				}
			}
		}
	}
	return nil
}

// EvaluateAssertions checks all assertions against the sorted frames.
// Returns a slice of error messages (empty if all pass).
func EvaluateAssertions(sorted []*frame.Frame, assertions []Assertion) []string {
	var errors []string
	order := frame.EventTypes(sorted)

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertOrder:
			err = assertOrder(order, assertion)
		case AssertBefore:
			err = assertBefore(order, assertion)
		case AssertLast:
			err = assertLast(order, assertion)
		case AssertCount:
			err = assertCount(order, assertion)
		case AssertDerivedBeforeBase:
			err = assertDerivedBeforeBase(sorted, order)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
