package compiler

import (
	"fmt"

	"github.com/roach88/dispatchgen/internal/frame"
	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// validateShadowing reports interface arms that the sort places ahead of a
// type implementing the interface. Implements never takes part in ordering,
// and a type switch takes the first matching case, so the implementer's
// handler would be unreachable.
//
// Declarations that do not resolve are skipped; the other checks report them.
func validateShadowing(comp *ir.Compilation) []ValidationError {
	reg, err := typesys.Resolve(comp.Events)
	if err != nil {
		return nil
	}

	var errs []ValidationError
	for _, proj := range comp.Projections {
		for i, ih := range proj.Handlers {
			iface, ok := reg.Lookup(ih.Event)
			if !ok || !iface.IsInterface() {
				continue
			}
			ifaceFrame, err := frame.New(iface, false, nil)
			if err != nil {
				continue
			}
			for j, th := range proj.Handlers {
				t, ok := reg.Lookup(th.Event)
				if !ok || t == iface || !implements(reg, t, iface.Name) {
					continue
				}
				tFrame, err := frame.New(t, false, nil)
				if err != nil {
					continue
				}
				c := frame.Compare(ifaceFrame, tFrame)
				if c > 0 || (c == 0 && j < i) {
					continue
				}
				errs = append(errs, ValidationError{
					Field: fmt.Sprintf("projection.%s.handlers[%d].event", proj.Name, j),
					Message: fmt.Sprintf("interface %q is dispatched before %q, which implements it; %s would never run",
						iface.Name, t.Name, th.Method),
					Code: ErrInterfaceShadows,
				})
			}
		}
	}
	return errs
}

// implements reports whether t, one of its ancestors, or an interface they
// list, names iface under implements.
func implements(reg *typesys.Registry, t *typesys.Type, iface string) bool {
	seen := make(map[string]bool)
	var lists func(names []string) bool
	lists = func(names []string) bool {
		for _, n := range names {
			if n == iface {
				return true
			}
			if seen[n] {
				continue
			}
			seen[n] = true
			if it, ok := reg.Lookup(n); ok && lists(it.Implements) {
				return true
			}
		}
		return false
	}
	for p := t; p != nil && !p.IsRoot(); p = p.Parent {
		if lists(p.Implements) {
			return true
		}
	}
	return false
}
