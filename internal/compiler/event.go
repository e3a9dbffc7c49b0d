package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/dispatchgen/internal/ir"
)

// CompileEventType parses a CUE value into an EventTypeDecl.
//
// The CUE value should be the event struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`event: FooA: {parent: "FooBase"}`)
//	decl, err := CompileEventType(v.LookupPath(cue.ParsePath("event.FooA")))
//
// All fields are optional. An event with no parent descends from the
// universal root.
func CompileEventType(v cue.Value) (*ir.EventTypeDecl, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	decl := &ir.EventTypeDecl{Name: labelOf(v)}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		field := iter.Value()
		switch label := iter.Label(); label {
		case "parent":
			decl.Parent, err = stringField(field, "parent")
		case "interface":
			decl.Interface, err = boolField(field, "interface")
		case "implements":
			decl.Implements, err = stringList(field, "implements")
		default:
			err = &CompileError{
				Field:   label,
				Message: fmt.Sprintf("unknown event field %q", label),
				Pos:     field.Pos(),
			}
		}
		if err != nil {
			return nil, err
		}
	}

	return decl, nil
}

// labelOf returns the last path selector of v: the declared name.
func labelOf(v cue.Value) string {
	sels := v.Path().Selectors()
	if len(sels) == 0 {
		return ""
	}
	return sels[len(sels)-1].String()
}

func stringField(v cue.Value, field string) (string, error) {
	s, err := v.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: "must be a string", Pos: v.Pos()}
	}
	return s, nil
}

func boolField(v cue.Value, field string) (bool, error) {
	b, err := v.Bool()
	if err != nil {
		return false, &CompileError{Field: field, Message: "must be a bool", Pos: v.Pos()}
	}
	return b, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "must be a list of strings", Pos: v.Pos()}
	}
	var out []string
	for i := 0; iter.Next(); i++ {
		s, err := stringField(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
