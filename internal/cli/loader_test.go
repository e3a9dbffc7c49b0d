package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dispatchgen/internal/compiler"
)

func TestLoadSpecs(t *testing.T) {
	result, errs := LoadSpecs(specsDir("quest"), LoadModeCollectAll)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.FileCount)
	assert.Len(t, result.Compilation.Events, 8)
	assert.Len(t, result.Compilation.Projections, 2)

	party, ok := result.Compilation.Projection("QuestParty")
	require.True(t, ok)
	require.Len(t, party.Handlers, 6)
	assert.Equal(t, "FooA", party.Handlers[1].Event)
	assert.True(t, party.Handlers[1].Async)
}

func TestLoadSpecsDirectoryErrors(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		code string
	}{
		{"missing", specsDir("does-not-exist"), ErrCodeNotFound},
		{"not a directory", specsDir("quest/dispatchgen.yaml"), ErrCodeNotFound},
		{"no cue files", specsDir("nocue"), ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, errs := LoadSpecs(tt.dir, LoadModeFailFast)
			assert.Nil(t, result)
			require.Len(t, errs, 1)
			var loadErr *LoadError
			require.ErrorAs(t, errs[0], &loadErr)
			assert.Equal(t, tt.code, loadErr.Code)
		})
	}
}

func TestLoadSpecsCompileError(t *testing.T) {
	result, errs := LoadSpecs(specsDir("bad_field"), LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeUnknownField, loadErr.Code)
	assert.Contains(t, loadErr.Message, "event.Foo.colour")

	// Base still compiled.
	require.Len(t, result.Compilation.Events, 1)
	assert.Equal(t, "Base", result.Compilation.Events[0].Name)
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"parent", compiler.ErrInvalidParentName},
		{"interface", ErrCodeFieldType},
		{"implements", compiler.ErrInvalidImplements},
		{"implements[2]", compiler.ErrInvalidImplements},
		{"handlers", ErrCodeFieldType},
		{"handlers[0].event", compiler.ErrMissingHandlerEvent},
		{"handlers[3].method", compiler.ErrInvalidHandlerMethod},
		{"handlers[1].async", ErrCodeFieldType},
		{"cue", ErrCodeBuildFailed},
		{"colour", ErrCodeUnknownField},
		{"", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}

func TestLoadErrorFormat(t *testing.T) {
	err := &LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found in specs"}
	assert.Equal(t, "E003: no CUE files found in specs", err.Error())
}
