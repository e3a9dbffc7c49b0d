package harness

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/frame"
	"github.com/roach88/dispatchgen/internal/testutil"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// Harness is the scenario execution engine.
type Harness struct {
	registry *typesys.Registry
	logger   *zap.Logger
}

// Run executes a scenario with a no-op logger.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, zap.NewNop())
}

// RunWithLogger executes a scenario and returns the result.
//
// Execution flow:
//  1. Resolve the scenario's event hierarchy
//  2. Build one frame per frame step, in declared order
//  3. Sort the frames and record the trace
//  4. With permute, sort every permutation and compare orders
//  5. Evaluate assertions against the sorted frames
//
// Errors are returned for scenarios that cannot run (bad hierarchy, unknown
// frame types, lost frames); assertion failures are reported on the result.
func RunWithLogger(scenario *Scenario, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg, err := typesys.Resolve(scenario.Decls())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hierarchy: %w", err)
	}

	h := &Harness{
		registry: reg,
		logger:   logger.With(zap.String("scenario", scenario.Name)),
	}

	frames, err := h.buildFrames(scenario.Frames)
	if err != nil {
		return nil, err
	}

	sorted, err := frame.SortByHierarchy(frames)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Order = frame.EventTypes(sorted)
	result.Trace = trace(sorted)
	result.Permutations = 1

	if scenario.Permute {
		if err := h.checkPermutations(frames, result); err != nil {
			return nil, err
		}
	}

	for _, msg := range EvaluateAssertions(sorted, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		zap.Bool("pass", result.Pass),
		zap.Strings("order", result.Order),
		zap.Int("permutations", result.Permutations))

	return result, nil
}

func (h *Harness) buildFrames(steps []FrameStep) ([]*frame.Frame, error) {
	frames := make([]*frame.Frame, 0, len(steps))
	for i, step := range steps {
		typ, ok := h.registry.Lookup(step.Event)
		if !ok {
			return nil, fmt.Errorf("frames[%d]: unknown event type %q", i, step.Event)
		}
		f, err := frame.New(typ, step.Async, nil)
		if err != nil {
			return nil, fmt.Errorf("frames[%d]: %w", i, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// checkPermutations sorts every ordering of frames. Any order that differs
// from the first result is a determinism failure.
func (h *Harness) checkPermutations(frames []*frame.Frame, result *Result) error {
	perms := testutil.Permutations(frames)
	for i, perm := range perms {
		sorted, err := frame.SortByHierarchy(perm)
		if err != nil {
			return fmt.Errorf("permutation %d: %w", i, err)
		}
		if order := frame.EventTypes(sorted); !slices.Equal(order, result.Order) {
			result.AddError(fmt.Sprintf("permutation %d: order %v differs from %v", i, order, result.Order))
		}
	}
	result.Permutations = len(perms)
	return nil
}

func trace(sorted []*frame.Frame) []TraceEvent {
	events := make([]TraceEvent, len(sorted))
	for i, f := range sorted {
		chain := typesys.Chain(f.EventType())
		names := make([]string, len(chain))
		for j, t := range chain {
			names[j] = t.Name
		}
		events[i] = TraceEvent{
			Position: i,
			Event:    f.EventType().Name,
			Chain:    names,
			Async:    f.IsAsync(),
		}
	}
	return events
}
