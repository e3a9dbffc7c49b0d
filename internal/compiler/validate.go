package compiler

import (
	"fmt"
	"go/token"

	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// EventTypeDecl errors (E101-E109)
	ErrInvalidEventName   = "E101" // event name is not a Go identifier
	ErrReservedEventName  = "E102" // event name is the universal root
	ErrInterfaceParent    = "E103" // interface declares a parent
	ErrDuplicateEventName = "E104" // event declared twice
	ErrUnknownParent      = "E105" // parent is not declared
	ErrInvalidImplements  = "E106" // implements names a non-interface or unknown type
	ErrClassParentIsIface = "E107" // class derives from an interface
	ErrSelfParent         = "E108" // event is its own parent
	ErrInvalidParentName  = "E109" // parent is not a Go identifier

	// ProjectionSpec errors (E110-E119)
	ErrInvalidProjectionName = "E110" // projection name is not a Go identifier
	ErrMissingHandlerEvent   = "E111" // handler has no event
	ErrInvalidHandlerMethod  = "E112" // handler method is not a Go identifier
	ErrUnknownHandlerEvent   = "E113" // handler event is not declared
	ErrDuplicateHandlerEvent = "E114" // two handlers for one event type
	ErrDuplicateProjection   = "E115" // projection declared twice
	ErrInterfaceShadows      = "E116" // interface arm precedes a type implementing it
	ErrHierarchyCycle        = "E119" // inheritance cycle
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled IR against schema rules.
// Returns all errors found (does not fail-fast).
//
// Single declarations are checked in isolation. A Compilation is also
// checked for cross references: parents, implemented interfaces, handler
// event types, inheritance cycles and interface arms that would shadow an
// implementer.
func Validate(v any) []ValidationError {
	switch ir := v.(type) {
	case *ir.EventTypeDecl:
		return validateEventType(ir, "event."+ir.Name)
	case ir.EventTypeDecl:
		return validateEventType(&ir, "event."+ir.Name)
	case *ir.ProjectionSpec:
		return validateProjection(ir, "projection."+ir.Name)
	case ir.ProjectionSpec:
		return validateProjection(&ir, "projection."+ir.Name)
	case *ir.Compilation:
		return validateCompilation(ir)
	case ir.Compilation:
		return validateCompilation(&ir)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateEventType(decl *ir.EventTypeDecl, field string) []ValidationError {
	var errs []ValidationError

	// E101: name must be usable as a case type
	if !token.IsIdentifier(decl.Name) {
		errs = append(errs, ValidationError{
			Field:   field + ".name",
			Message: fmt.Sprintf("event name %q is not a Go identifier", decl.Name),
			Code:    ErrInvalidEventName,
		})
	}

	// E102: the root is implicit
	if decl.Name == typesys.RootName {
		errs = append(errs, ValidationError{
			Field:   field + ".name",
			Message: fmt.Sprintf("%q is the universal root and cannot be declared", decl.Name),
			Code:    ErrReservedEventName,
		})
	}

	if decl.Parent == "" {
		return errs
	}

	// E103: interfaces hang directly under the root
	if decl.Interface {
		errs = append(errs, ValidationError{
			Field:   field + ".parent",
			Message: fmt.Sprintf("interface %q cannot declare a parent", decl.Name),
			Code:    ErrInterfaceParent,
		})
	}

	// E108
	if decl.Parent == decl.Name {
		errs = append(errs, ValidationError{
			Field:   field + ".parent",
			Message: fmt.Sprintf("event %q cannot be its own parent", decl.Name),
			Code:    ErrSelfParent,
		})
	}

	// E109
	if !token.IsIdentifier(decl.Parent) {
		errs = append(errs, ValidationError{
			Field:   field + ".parent",
			Message: fmt.Sprintf("parent %q is not a Go identifier", decl.Parent),
			Code:    ErrInvalidParentName,
		})
	}

	return errs
}

func validateProjection(spec *ir.ProjectionSpec, field string) []ValidationError {
	var errs []ValidationError

	// E110
	if !token.IsIdentifier(spec.Name) {
		errs = append(errs, ValidationError{
			Field:   field + ".name",
			Message: fmt.Sprintf("projection name %q is not a Go identifier", spec.Name),
			Code:    ErrInvalidProjectionName,
		})
	}

	seen := make(map[string]int)
	for i, h := range spec.Handlers {
		hfield := fmt.Sprintf("%s.handlers[%d]", field, i)

		// E111
		if h.Event == "" {
			errs = append(errs, ValidationError{
				Field:   hfield + ".event",
				Message: "handler event is required",
				Code:    ErrMissingHandlerEvent,
			})
		}

		// E112
		if !token.IsIdentifier(h.Method) {
			errs = append(errs, ValidationError{
				Field:   hfield + ".method",
				Message: fmt.Sprintf("handler method %q is not a Go identifier", h.Method),
				Code:    ErrInvalidHandlerMethod,
			})
		}

		// E114: a type switch rejects duplicate case types
		if prev, ok := seen[h.Event]; ok && h.Event != "" {
			errs = append(errs, ValidationError{
				Field:   hfield + ".event",
				Message: fmt.Sprintf("event %q already handled by handlers[%d]", h.Event, prev),
				Code:    ErrDuplicateHandlerEvent,
			})
		} else {
			seen[h.Event] = i
		}
	}

	return errs
}

func validateCompilation(comp *ir.Compilation) []ValidationError {
	var errs []ValidationError

	decls := make(map[string]*ir.EventTypeDecl, len(comp.Events))
	for i := range comp.Events {
		decl := &comp.Events[i]
		field := "event." + decl.Name
		errs = append(errs, validateEventType(decl, field)...)

		// E104
		if _, dup := decls[decl.Name]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("event %q declared more than once", decl.Name),
				Code:    ErrDuplicateEventName,
			})
			continue
		}
		decls[decl.Name] = decl
	}

	for _, decl := range comp.Events {
		field := "event." + decl.Name

		if decl.Parent != "" && decl.Parent != decl.Name {
			parent, ok := decls[decl.Parent]
			switch {
			case !ok:
				// E105
				errs = append(errs, ValidationError{
					Field:   field + ".parent",
					Message: fmt.Sprintf("unknown parent %q", decl.Parent),
					Code:    ErrUnknownParent,
				})
			case parent.Interface && !decl.Interface:
				// E107
				errs = append(errs, ValidationError{
					Field:   field + ".parent",
					Message: fmt.Sprintf("class %q cannot derive from interface %q", decl.Name, decl.Parent),
					Code:    ErrClassParentIsIface,
				})
			}
		}

		// E106
		for j, name := range decl.Implements {
			if iface, ok := decls[name]; !ok || !iface.Interface {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.implements[%d]", field, j),
					Message: fmt.Sprintf("%q is not a declared interface", name),
					Code:    ErrInvalidImplements,
				})
			}
		}
	}

	// E119
	for _, w := range AnalyzeHierarchy(comp.Events) {
		errs = append(errs, ValidationError{
			Field:   "event." + w.Path[0] + ".parent",
			Message: w.Message,
			Code:    ErrHierarchyCycle,
		})
	}

	projections := make(map[string]bool, len(comp.Projections))
	for i := range comp.Projections {
		proj := &comp.Projections[i]
		field := "projection." + proj.Name
		errs = append(errs, validateProjection(proj, field)...)

		// E115
		if projections[proj.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("projection %q declared more than once", proj.Name),
				Code:    ErrDuplicateProjection,
			})
		}
		projections[proj.Name] = true

		// E113
		for j, h := range proj.Handlers {
			if h.Event == "" || h.Event == typesys.RootName {
				continue
			}
			if _, ok := decls[h.Event]; !ok {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.handlers[%d].event", field, j),
					Message: fmt.Sprintf("unknown event type %q", h.Event),
					Code:    ErrUnknownHandlerEvent,
				})
			}
		}
	}

	// E116
	errs = append(errs, validateShadowing(comp)...)

	return errs
}
