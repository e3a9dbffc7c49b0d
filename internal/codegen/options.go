package codegen

import (
	"fmt"
	"go/token"
)

// Options control the shape of generated dispatch methods.
type Options struct {
	// Package is the package clause of generated files.
	Package string
	// Receiver names the projection receiver.
	Receiver string
	// Method names the generated dispatch method.
	Method string
	// EventParam names the event parameter.
	EventParam string
	// EventType is the static type of the event parameter. It must be an
	// interface type every event satisfies.
	EventType string
	// ContextParam names the context parameter of asynchronous methods.
	ContextParam string
	// Bound names the variable narrowed to each arm's type.
	Bound string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Package:      "projections",
		Receiver:     "p",
		Method:       "Apply",
		EventParam:   "ev",
		EventType:    "any",
		ContextParam: "ctx",
		Bound:        "e",
	}
}

// WithDefaults fills empty fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Package == "" {
		o.Package = d.Package
	}
	if o.Receiver == "" {
		o.Receiver = d.Receiver
	}
	if o.Method == "" {
		o.Method = d.Method
	}
	if o.EventParam == "" {
		o.EventParam = d.EventParam
	}
	if o.EventType == "" {
		o.EventType = d.EventType
	}
	if o.ContextParam == "" {
		o.ContextParam = d.ContextParam
	}
	if o.Bound == "" {
		o.Bound = d.Bound
	}
	return o
}

// Validate checks that every name is a Go identifier and that the names
// bound inside the generated method do not collide.
func (o Options) Validate() error {
	idents := []struct{ field, value string }{
		{"package", o.Package},
		{"receiver", o.Receiver},
		{"method", o.Method},
		{"event_param", o.EventParam},
		{"context_param", o.ContextParam},
		{"bound", o.Bound},
	}
	for _, id := range idents {
		if !token.IsIdentifier(id.value) {
			return fmt.Errorf("%s: %q is not a Go identifier", id.field, id.value)
		}
	}
	if o.EventType == "" {
		return fmt.Errorf("event_type is required")
	}

	seen := make(map[string]string)
	for _, id := range idents[1:] {
		if id.field == "method" {
			continue
		}
		if prev, ok := seen[id.value]; ok {
			return fmt.Errorf("%s and %s are both named %q", prev, id.field, id.value)
		}
		seen[id.value] = id.field
	}
	return nil
}
