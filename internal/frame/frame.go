package frame

import (
	"errors"

	"github.com/roach88/dispatchgen/internal/typesys"
)

// ErrNoEventType is returned by New for a frame without an event type.
var ErrNoEventType = errors.New("frame: event type is required")

// SourceWriter is the part of a code writer a CodeBlock may use.
type SourceWriter interface {
	// Write writes text at the current indentation, one line per newline.
	Write(text string)
	// Block writes header followed by an opening brace and indents.
	Block(header string)
	// FinishBlock dedents and closes the innermost block.
	FinishBlock()
}

// CodeBlock is the handler body of a frame's match arm. The ordering code
// never looks inside it.
type CodeBlock interface {
	// Generate writes the arm body. bound names the variable holding the
	// event narrowed to the arm's type.
	Generate(w SourceWriter, bound string) error
}

// Frame is one event-handling clause: an event type, whether its handler
// needs asynchronous control flow, and the code emitted for it.
//
// Frames are compared by pointer identity.
type Frame struct {
	eventType *typesys.Type
	async     bool
	code      CodeBlock
}

// New returns a frame bound to eventType.
func New(eventType *typesys.Type, async bool, code CodeBlock) (*Frame, error) {
	if eventType == nil {
		return nil, ErrNoEventType
	}
	return &Frame{eventType: eventType, async: async, code: code}, nil
}

// EventType returns the type the frame matches. It is nil only for a nil frame.
func (f *Frame) EventType() *typesys.Type {
	if f == nil {
		return nil
	}
	return f.eventType
}

// IsAsync reports whether the frame's handler needs asynchronous control flow.
// It has no influence on ordering.
func (f *Frame) IsAsync() bool {
	return f != nil && f.async
}

// Code returns the frame's code block.
func (f *Frame) Code() CodeBlock {
	if f == nil {
		return nil
	}
	return f.code
}

func (f *Frame) String() string {
	return f.EventType().String()
}

// AnyAsync reports whether any of frames is asynchronous.
func AnyAsync(frames []*Frame) bool {
	for _, f := range frames {
		if f.IsAsync() {
			return true
		}
	}
	return false
}

// EventTypes returns the event type names of frames in order.
func EventTypes(frames []*Frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.EventType().String()
	}
	return out
}
