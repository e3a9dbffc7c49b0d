package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/frame"
)

func TestPatternMatchResolvesEventOnce(t *testing.T) {
	frames, err := BuildFrames(testRegistry(t), questParty(), testOptions())
	require.NoError(t, err)

	pm := NewPatternMatch(frames, "any", "e", zap.NewNop())
	method := &Method{
		Name:   "Apply",
		Params: []*Variable{{Name: "ctx", Type: "context.Context"}, {Name: "ev", Type: "any"}},
	}

	vars, err := pm.FindVariables(method)
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Equal(t, "ev", vars[0].Name)
	assert.True(t, pm.IsAsync())

	w := &Writer{}
	require.NoError(t, pm.Generate(w))
	out := string(w.Bytes())

	assert.Equal(t, 1, countOf(out, "switch e := ev.(type) {"))
	assert.Equal(t, 6, countOf(out, "case "))
	assert.Equal(t, []string{"FooBarA", "BarBase", "FooA", "FooBase", "Base", "IFoo"}, pm.Order())
}

func TestPatternMatchEmitsArmsInHierarchyOrder(t *testing.T) {
	frames, err := BuildFrames(testRegistry(t), questParty(), testOptions())
	require.NoError(t, err)
	sorted, err := frame.SortByHierarchy(frames)
	require.NoError(t, err)

	pm := NewPatternMatch(frames, "any", "e", nil)
	_, err = pm.FindVariables(&Method{Params: []*Variable{{Name: "ev", Type: "any"}}})
	require.NoError(t, err)

	w := &Writer{}
	require.NoError(t, pm.Generate(w))
	out := string(w.Bytes())

	assert.Equal(t, frame.EventTypes(sorted), pm.Order())
	last := -1
	for _, name := range pm.Order() {
		at := strings.Index(out, "case "+name+":")
		require.Greater(t, at, last, "case %s out of order in\n%s", name, out)
		last = at
	}
}

func TestPatternMatchUnresolvedEvent(t *testing.T) {
	frames, err := BuildFrames(testRegistry(t), questParty(), testOptions())
	require.NoError(t, err)

	pm := NewPatternMatch(frames, "any", "e", nil)
	err = pm.Generate(&Writer{})
	assert.True(t, errors.Is(err, ErrEventUnresolved))
}

func TestPatternMatchMissingEventVariable(t *testing.T) {
	pm := NewPatternMatch(nil, "Event", "e", nil)
	_, err := pm.FindVariables(&Method{Name: "Apply", Params: []*Variable{{Name: "ev", Type: "any"}}})
	assert.True(t, errors.Is(err, ErrVariableNotFound))
}

func TestPatternMatchEmpty(t *testing.T) {
	pm := NewPatternMatch(nil, "any", "e", nil)
	assert.False(t, pm.IsAsync())

	w := &Writer{}
	require.NoError(t, pm.Generate(w))
	assert.Empty(t, w.Bytes())
	assert.Empty(t, pm.Order())
}

func TestPatternMatchFrameWithoutCode(t *testing.T) {
	typ, _ := testRegistry(t).Lookup("FooA")
	f, err := frame.New(typ, false, nil)
	require.NoError(t, err)

	pm := NewPatternMatch([]*frame.Frame{f}, "any", "e", nil)
	_, err = pm.FindVariables(&Method{Params: []*Variable{{Name: "ev", Type: "any"}}})
	require.NoError(t, err)

	err = pm.Generate(&Writer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no code block")
	assert.Nil(t, pm.Order(), "order is only recorded for a complete switch")
}

func countOf(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}
