package frame

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrFramesLost reports that sorting changed the number of frames. It means
// the comparator or hierarchy is broken, never that the input is bad, and
// generation must stop: a missing match arm is a silent dispatch bug.
var ErrFramesLost = errors.New("event types were lost during sorting")

// ConsistencyError carries the frame counts around a failed sort.
type ConsistencyError struct {
	In  int
	Out int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: %d frame(s) in, %d out", ErrFramesLost, e.In, e.Out)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrFramesLost
}

// SortByHierarchy returns frames in emission order: every frame precedes the
// frames of its ancestor types, and unrelated frames are ordered by type name.
// The sort is stable, so frames sharing an event type keep their input order.
// The input slice is not modified.
func SortByHierarchy(frames []*Frame) ([]*Frame, error) {
	sorted := slices.Clone(frames)
	slices.SortStableFunc(sorted, Compare)
	if err := CheckCount(len(frames), len(sorted)); err != nil {
		return nil, err
	}
	return sorted, nil
}

// Ordered is SortByHierarchy exposed as a sequence, for emitters that
// consume the order in a single pass.
func Ordered(frames []*Frame) (iter.Seq[*Frame], error) {
	sorted, err := SortByHierarchy(frames)
	if err != nil {
		return nil, err
	}
	return slices.Values(sorted), nil
}

// CheckCount returns a *ConsistencyError unless in equals out.
func CheckCount(in, out int) error {
	if in != out {
		return &ConsistencyError{In: in, Out: out}
	}
	return nil
}
