package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

func testEvents() []ir.EventTypeDecl {
	return []ir.EventTypeDecl{
		{Name: "Base"},
		{Name: "IFoo", Interface: true},
		{Name: "IBar", Interface: true},
		{Name: "FooBase", Parent: "Base", Implements: []string{"IFoo"}},
		{Name: "BarBase", Parent: "Base", Implements: []string{"IBar"}},
		{Name: "FooA", Parent: "FooBase"},
		{Name: "FooX", Parent: "FooBase"},
		{Name: "FooBarA", Parent: "BarBase", Implements: []string{"IFoo"}},
	}
}

func testRegistry(t *testing.T) *typesys.Registry {
	t.Helper()
	reg, err := typesys.Resolve(testEvents())
	require.NoError(t, err)
	return reg
}

func questParty() ir.ProjectionSpec {
	return ir.ProjectionSpec{
		Name: "QuestParty",
		Handlers: []ir.HandlerDecl{
			{Event: "Base", Method: "ApplyBase"},
			{Event: "FooA", Method: "ApplyFooA", Async: true},
			{Event: "FooBase", Method: "ApplyFooBase"},
			{Event: "IFoo", Method: "ApplyFoo"},
			{Event: "BarBase", Method: "ApplyBarBase"},
			{Event: "FooBarA", Method: "ApplyFooBarA"},
		},
	}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Package = "quests"
	return opts
}
