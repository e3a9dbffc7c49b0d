package typesys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/dispatchgen/internal/ir"
)

// Resolution errors.
var (
	ErrDuplicateType   = errors.New("duplicate event type")
	ErrReservedName    = errors.New("reserved event type name")
	ErrUnknownParent   = errors.New("unknown parent type")
	ErrInterfaceParent = errors.New("invalid parent")
	ErrEmptyName       = errors.New("event type name is required")
)

// DeclError reports a declaration that could not be resolved.
type DeclError struct {
	Type string
	Err  error
	Msg  string
}

func (e *DeclError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("event type %q: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("event type %q: %v: %s", e.Type, e.Err, e.Msg)
}

func (e *DeclError) Unwrap() error {
	return e.Err
}

// CycleError reports parent links that loop back on themselves.
// Path starts and ends with the same type name.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("inheritance cycle: %s", strings.Join(e.Path, " → "))
}

// Registry holds resolved event types.
type Registry struct {
	root  *Type
	types map[string]*Type
	order []*Type
}

// Resolve builds a registry from declarations. Declarations may appear in
// any order. It fails on the first duplicate name, unknown parent, interface
// with a parent, class deriving from an interface, or inheritance cycle.
func Resolve(decls []ir.EventTypeDecl) (*Registry, error) {
	root := &Type{Name: RootName, Kind: KindClass}
	r := &Registry{
		root:  root,
		types: map[string]*Type{RootName: root},
	}

	for _, d := range decls {
		if d.Name == "" {
			return nil, &DeclError{Err: ErrEmptyName}
		}
		if d.Name == RootName {
			return nil, &DeclError{Type: d.Name, Err: ErrReservedName}
		}
		if _, ok := r.types[d.Name]; ok {
			return nil, &DeclError{Type: d.Name, Err: ErrDuplicateType}
		}
		t := &Type{Name: d.Name, Kind: KindClass}
		if d.Interface {
			t.Kind = KindInterface
		}
		if len(d.Implements) > 0 {
			t.Implements = append([]string(nil), d.Implements...)
		}
		r.types[d.Name] = t
		r.order = append(r.order, t)
	}

	for _, d := range decls {
		t := r.types[d.Name]
		if d.Parent == "" {
			t.Parent = root
			continue
		}
		if t.Kind == KindInterface {
			return nil, &DeclError{Type: d.Name, Err: ErrInterfaceParent, Msg: "interfaces cannot declare a parent"}
		}
		p, ok := r.types[d.Parent]
		if !ok {
			return nil, &DeclError{Type: d.Name, Err: ErrUnknownParent, Msg: d.Parent}
		}
		if p.Kind == KindInterface {
			return nil, &DeclError{Type: d.Name, Err: ErrInterfaceParent, Msg: fmt.Sprintf("parent %q is an interface, list it under implements", p.Name)}
		}
		t.Parent = p
	}

	if err := checkCycles(r.order); err != nil {
		return nil, err
	}

	root.chain = []*Type{root}
	root.foldKey = foldName(root.Name)
	for _, t := range r.order {
		t.chain = walkChain(t)
		t.foldKey = foldName(t.Name)
	}
	return r, nil
}

// checkCycles walks every parent chain with three-color marking.
func checkCycles(types []*Type) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*Type]int, len(types))
	for _, start := range types {
		if state[start] == done {
			continue
		}
		var path []*Type
		t := start
		for t != nil && state[t] == unvisited {
			state[t] = visiting
			path = append(path, t)
			t = t.Parent
		}
		if t != nil && state[t] == visiting {
			var names []string
			for i, p := range path {
				if p == t {
					for _, q := range path[i:] {
						names = append(names, q.Name)
					}
					break
				}
			}
			names = append(names, t.Name)
			return &CycleError{Path: names}
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

// Root returns the universal root type.
func (r *Registry) Root() *Type {
	return r.root
}

// Lookup returns the type with the given name. The root is found under
// RootName.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Types returns declared types in declaration order, excluding the root.
func (r *Registry) Types() []*Type {
	out := make([]*Type, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of declared types, excluding the root.
func (r *Registry) Len() int {
	return len(r.order)
}
