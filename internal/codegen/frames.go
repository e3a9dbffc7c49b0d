package codegen

import (
	"fmt"

	"github.com/roach88/dispatchgen/internal/frame"
	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// BuildFrames builds one frame per handler clause of proj, in clause order.
func BuildFrames(reg *typesys.Registry, proj ir.ProjectionSpec, opts Options) ([]*frame.Frame, error) {
	frames := make([]*frame.Frame, 0, len(proj.Handlers))
	for i, h := range proj.Handlers {
		typ, ok := reg.Lookup(h.Event)
		if !ok {
			return nil, fmt.Errorf("projection %s: handlers[%d]: unknown event type %q", proj.Name, i, h.Event)
		}
		f, err := frame.New(typ, h.Async, HandlerCall{
			Receiver: opts.Receiver,
			Method:   h.Method,
			Async:    h.Async,
			Context:  opts.ContextParam,
		})
		if err != nil {
			return nil, fmt.Errorf("projection %s: handlers[%d]: %w", proj.Name, i, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}
