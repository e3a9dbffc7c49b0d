package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dispatchgen/internal/frame"
	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// framesInOrder builds frames in the given order without sorting them, so
// assertions can be checked against deliberately wrong output.
func framesInOrder(t *testing.T, names ...string) []*frame.Frame {
	t.Helper()
	reg, err := typesys.Resolve([]ir.EventTypeDecl{
		{Name: "Base"},
		{Name: "FooBase", Parent: "Base"},
		{Name: "FooA", Parent: "FooBase"},
		{Name: "IFoo", Interface: true},
	})
	require.NoError(t, err)

	frames := make([]*frame.Frame, len(names))
	for i, n := range names {
		typ, ok := reg.Lookup(n)
		require.True(t, ok, n)
		frames[i], err = frame.New(typ, false, nil)
		require.NoError(t, err)
	}
	return frames
}

func TestAssertOrder(t *testing.T) {
	frames := framesInOrder(t, "FooA", "Base")

	assert.Empty(t, EvaluateAssertions(frames, []Assertion{{Type: AssertOrder, Expect: []string{"FooA", "Base"}}}))

	errs := EvaluateAssertions(frames, []Assertion{{Type: AssertOrder, Expect: []string{"Base", "FooA"}}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: [Base FooA]")
	assert.Contains(t, errs[0], "Actual: [FooA Base]")
	assert.Contains(t, errs[0], "[1] FooA")
}

func TestAssertBefore(t *testing.T) {
	frames := framesInOrder(t, "FooA", "Base", "IFoo")

	tests := []struct {
		name        string
		first, then string
		want        string
	}{
		{"holds", "FooA", "IFoo", ""},
		{"reversed", "IFoo", "Base", "IFoo at 2, Base at 1"},
		{"first missing", "FooBase", "Base", "FooBase in output"},
		{"then missing", "Base", "FooBase", "FooBase in output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(frames, []Assertion{{Type: AssertBefore, First: tt.first, Then: tt.then}})
			if tt.want == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestAssertLast(t *testing.T) {
	assert.Empty(t, EvaluateAssertions(framesInOrder(t, "FooA", "IFoo"), []Assertion{{Type: AssertLast, Event: "IFoo"}}))

	errs := EvaluateAssertions(nil, []Assertion{{Type: AssertLast, Event: "IFoo"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: empty output")
}

func TestAssertCount(t *testing.T) {
	frames := framesInOrder(t, "FooA", "Base")
	assert.Empty(t, EvaluateAssertions(frames, []Assertion{{Type: AssertCount, Count: 2}}))

	errs := EvaluateAssertions(frames, []Assertion{{Type: AssertCount, Count: 3}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: 3 frame(s)")
}

func TestAssertDerivedBeforeBase(t *testing.T) {
	ok := framesInOrder(t, "FooA", "IFoo", "FooBase", "Base")
	assert.Empty(t, EvaluateAssertions(ok, []Assertion{{Type: AssertDerivedBeforeBase}}))

	bad := framesInOrder(t, "FooBase", "Base", "FooA")
	errs := EvaluateAssertions(bad, []Assertion{{Type: AssertDerivedBeforeBase}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "FooA after FooBase")
}

func TestEvaluateUnknownAssertion(t *testing.T) {
	errs := EvaluateAssertions(nil, []Assertion{{Type: "final_state"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "final_state"`)
}
