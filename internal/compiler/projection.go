package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/dispatchgen/internal/ir"
)

// CompileProjection parses a CUE value into a ProjectionSpec.
//
//	projection: QuestParty: {
//		handlers: [
//			{event: "FooA", method: "ApplyFooA", async: true},
//			{event: "Base", method: "ApplyBase"},
//		]
//	}
//
// Handler clauses keep their declared order; the generator reorders them.
func CompileProjection(v cue.Value) (*ir.ProjectionSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ProjectionSpec{Name: labelOf(v)}

	handlersVal := v.LookupPath(cue.ParsePath("handlers"))
	if !handlersVal.Exists() {
		// A projection without handlers is legal and dispatches nothing.
		return spec, nil
	}

	iter, err := handlersVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "handlers",
			Message: "must be a list of handler clauses",
			Pos:     handlersVal.Pos(),
		}
	}
	for i := 0; iter.Next(); i++ {
		h, err := parseHandler(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		spec.Handlers = append(spec.Handlers, h)
	}

	return spec, nil
}

func parseHandler(v cue.Value, i int) (ir.HandlerDecl, error) {
	var h ir.HandlerDecl
	prefix := fmt.Sprintf("handlers[%d]", i)

	eventVal := v.LookupPath(cue.ParsePath("event"))
	if !eventVal.Exists() {
		return h, &CompileError{Field: prefix + ".event", Message: "event is required", Pos: v.Pos()}
	}
	event, err := stringField(eventVal, prefix+".event")
	if err != nil {
		return h, err
	}
	h.Event = event

	methodVal := v.LookupPath(cue.ParsePath("method"))
	if !methodVal.Exists() {
		return h, &CompileError{Field: prefix + ".method", Message: "method is required", Pos: v.Pos()}
	}
	method, err := stringField(methodVal, prefix+".method")
	if err != nil {
		return h, err
	}
	h.Method = method

	if asyncVal := v.LookupPath(cue.ParsePath("async")); asyncVal.Exists() {
		h.Async, err = boolField(asyncVal, prefix+".async")
		if err != nil {
			return h, err
		}
	}

	return h, nil
}
