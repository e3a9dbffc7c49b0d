package typesys

import (
	"strings"
	"unicode"
)

// Chain returns the ancestry of t ordered from the most general type down to
// t itself, inclusive. A nil type has an empty chain; a type without a parent
// has a chain of length one.
//
// Resolved types return their precomputed chain. The returned slice is shared
// and must not be modified.
func Chain(t *Type) []*Type {
	if t == nil {
		return nil
	}
	if t.chain != nil {
		return t.chain
	}
	return walkChain(t)
}

// walkChain follows Parent links. It assumes the links are acyclic; Resolve
// guarantees that for registry types.
func walkChain(t *Type) []*Type {
	var depth int
	for p := t; p != nil; p = p.Parent {
		depth++
	}
	chain := make([]*Type, depth)
	for p := t; p != nil; p = p.Parent {
		depth--
		chain[depth] = p
	}
	return chain
}

// foldName maps a type name to its ordinal ignore-case key: each rune is
// uppercased on its own with the simple case mapping, then keys are compared
// byte by byte. Full mappings that change the rune count, like ß to SS, are
// not applied.
func foldName(name string) string {
	return strings.Map(unicode.ToUpper, name)
}
