package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(t *testing.T, src, path string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return v.LookupPath(cue.ParsePath(path))
}

func TestCompileEventTypeFull(t *testing.T) {
	v := lookup(t, `
		event: FooBase: {
			parent: "Base"
			implements: ["IFoo", "IAudit"]
		}
	`, "event.FooBase")

	decl, err := CompileEventType(v)
	require.NoError(t, err)

	assert.Equal(t, "FooBase", decl.Name)
	assert.Equal(t, "Base", decl.Parent)
	assert.False(t, decl.Interface)
	assert.Equal(t, []string{"IFoo", "IAudit"}, decl.Implements)
}

func TestCompileEventTypeEmptyStruct(t *testing.T) {
	decl, err := CompileEventType(lookup(t, `event: Base: {}`, "event.Base"))
	require.NoError(t, err)

	assert.Equal(t, "Base", decl.Name)
	assert.Empty(t, decl.Parent)
	assert.Empty(t, decl.Implements)
}

func TestCompileEventTypeInterface(t *testing.T) {
	decl, err := CompileEventType(lookup(t, `event: IFoo: interface: true`, "event.IFoo"))
	require.NoError(t, err)

	assert.Equal(t, "IFoo", decl.Name)
	assert.True(t, decl.Interface)
}

func TestCompileEventTypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"parent not a string", `event: A: parent: 1`, "parent"},
		{"interface not a bool", `event: A: interface: "yes"`, "interface"},
		{"implements not a list", `event: A: implements: "IFoo"`, "implements"},
		{"implements element", `event: A: implements: ["IFoo", 2]`, "implements[1]"},
		{"unknown field", `event: A: parnet: "Base"`, "parnet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileEventType(lookup(t, tt.src, "event.A"))
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompileEventTypeConflict(t *testing.T) {
	v := cuecontext.New().CompileString(`
		event: A: parent: "Base"
		event: A: parent: "Other"
	`)
	_, err := CompileEventType(v.LookupPath(cue.ParsePath("event.A")))
	require.Error(t, err)
}
