package codegen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/frame"
)

// ErrEventUnresolved is returned by Generate when FindVariables has not bound
// the event variable.
var ErrEventUnresolved = errors.New("pattern match: event variable not resolved")

// PatternMatch emits a type switch over the current event with one arm per
// frame, in hierarchy order.
type PatternMatch struct {
	// EventType is the static type of the event variable to resolve.
	EventType string
	// Bound names the variable narrowed to each arm's type.
	Bound string

	inner  []*frame.Frame
	event  *Variable
	order  []string
	logger *zap.Logger
}

// NewPatternMatch returns a PatternMatch over frames. Frames are sorted when
// the code is generated, not here.
func NewPatternMatch(frames []*frame.Frame, eventType, bound string, logger *zap.Logger) *PatternMatch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatternMatch{
		EventType: eventType,
		Bound:     bound,
		inner:     frames,
		logger:    logger,
	}
}

// IsAsync reports whether any arm needs asynchronous control flow.
func (p *PatternMatch) IsAsync() bool {
	return frame.AnyAsync(p.inner)
}

// FindVariables resolves the event variable once for the whole block.
func (p *PatternMatch) FindVariables(vars MethodVariables) ([]*Variable, error) {
	ev, err := vars.FindVariable(p.EventType)
	if err != nil {
		return nil, err
	}
	p.event = ev
	return []*Variable{ev}, nil
}

// Order returns the emitted arm order of the last Generate call.
func (p *PatternMatch) Order() []string {
	return p.order
}

// Generate writes the switch. Nothing is written when there are no frames.
// Losing frames while sorting is fatal: a missing arm would silently route
// events to a base type's handler.
func (p *PatternMatch) Generate(w *Writer) error {
	if len(p.inner) == 0 {
		p.order = nil
		return nil
	}
	if p.event == nil {
		return ErrEventUnresolved
	}

	arms, err := frame.Ordered(p.inner)
	if err != nil {
		return err
	}

	var order []string
	w.Block(fmt.Sprintf("switch %s := %s.(type)", p.Bound, p.event.Usage()))
	for f := range arms {
		code := f.Code()
		if code == nil {
			return fmt.Errorf("pattern match: frame %s has no code block", f)
		}
		w.Case(f.EventType().Name)
		if err := code.Generate(w, p.Bound); err != nil {
			return fmt.Errorf("pattern match: frame %s: %w", f, err)
		}
		order = append(order, f.EventType().String())
	}
	w.FinishBlock()

	p.order = order
	p.logger.Debug("emitted dispatch arms",
		zap.Int("frames", len(order)),
		zap.Strings("order", order))
	return nil
}
