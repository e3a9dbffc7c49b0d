package frame

import (
	"strings"

	"github.com/roach88/dispatchgen/internal/typesys"
)

// walkState classifies one step of the parallel chain walk.
type walkState int

const (
	bothExhausted walkState = iota
	aExhausted
	bExhausted
	bothPresent
)

func step(a, b []*typesys.Type, i int) walkState {
	switch {
	case i >= len(a) && i >= len(b):
		return bothExhausted
	case i >= len(a):
		return aExhausted
	case i >= len(b):
		return bExhausted
	default:
		return bothPresent
	}
}

// Compare orders two frames for emission. It returns a negative number when
// a must be emitted before b, a positive number when after, and zero when
// their type chains are indistinguishable.
//
// Both hierarchy chains are walked from the root. A chain that ends first
// belongs to the ancestor, which sorts after its descendant. At the first
// position whose names differ, case-insensitive ordinal name order decides.
// Because the walk starts at the root, the first difference is the most
// general one: unrelated branches are ordered by the names where they split,
// and every ancestor follows all of its descendants.
//
// A nil frame, or one without a type, has an empty chain and sorts last.
func Compare(a, b *Frame) int {
	ca := typesys.Chain(a.EventType())
	cb := typesys.Chain(b.EventType())

	for i := 0; ; i++ {
		switch step(ca, cb, i) {
		case bothExhausted:
			// Unreachable for distinct well-formed chains; the chains agree
			// at every position.
			return 0
		case aExhausted:
			return 1
		case bExhausted:
			return -1
		case bothPresent:
			if c := strings.Compare(ca[i].FoldKey(), cb[i].FoldKey()); c != 0 {
				return c
			}
		}
	}
}
