package codegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterBlocks(t *testing.T) {
	w := &Writer{}
	w.Block("func f(v any)")
	w.Block("switch x := v.(type)")
	w.Case("int")
	w.Write("use(x)\n\nuse(x)")
	w.FinishBlock()
	w.FinishBlock()

	want := "func f(v any) {\n" +
		"\tswitch x := v.(type) {\n" +
		"\tcase int:\n" +
		"\t\tuse(x)\n" +
		"\n" +
		"\t\tuse(x)\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, want, string(w.Bytes()))
}

func TestWriterFinishBlockAtTopLevel(t *testing.T) {
	w := &Writer{}
	w.FinishBlock()
	assert.Equal(t, "}\n", string(w.Bytes()))
}

func TestImports(t *testing.T) {
	var imps Imports
	imps.Add("fmt")
	imps.Add("context")
	imps.Add("fmt")
	assert.Equal(t, []string{"context", "fmt"}, imps.List)

	w := &Writer{}
	imps.Render(w)
	assert.Equal(t, "import (\n\t\"context\"\n\t\"fmt\"\n)\n\n", string(w.Bytes()))

	var single Imports
	single.Add("context")
	w = &Writer{}
	single.Render(w)
	assert.Equal(t, "import \"context\"\n\n", string(w.Bytes()))

	w = &Writer{}
	(&Imports{}).Render(w)
	assert.Empty(t, w.Bytes())
}

func TestMethodSignature(t *testing.T) {
	m := &Method{
		Receiver: &Variable{Name: "p", Type: "*Party"},
		Name:     "Apply",
		Params:   []*Variable{{Name: "ctx", Type: "context.Context"}, {Name: "ev", Type: "any"}},
		Returns:  "error",
	}
	assert.Equal(t, "func (p *Party) Apply(ctx context.Context, ev any) error", m.Signature())

	fn := &Method{Name: "apply", Params: []*Variable{{Name: "ev", Type: "Event"}}}
	assert.Equal(t, "func apply(ev Event)", fn.Signature())
}

func TestMethodFindVariable(t *testing.T) {
	m := &Method{
		Receiver: &Variable{Name: "p", Type: "*Party"},
		Name:     "Apply",
		Params:   []*Variable{{Name: "ev", Type: "any"}},
	}

	v, err := m.FindVariable("any")
	require.NoError(t, err)
	assert.Equal(t, "ev", v.Usage())

	v, err = m.FindVariable("*Party")
	require.NoError(t, err)
	assert.Equal(t, "p", v.Name)

	_, err = m.FindVariable("context.Context")
	assert.True(t, errors.Is(err, ErrVariableNotFound))
}

func TestHandlerCall(t *testing.T) {
	w := &Writer{}
	require.NoError(t, HandlerCall{Receiver: "p", Method: "OnA"}.Generate(w, "e"))
	assert.Equal(t, "p.OnA(e)\n", string(w.Bytes()))

	w = &Writer{}
	require.NoError(t, HandlerCall{Receiver: "p", Method: "OnA", Async: true, Context: "ctx"}.Generate(w, "e"))
	assert.Equal(t, "if err := p.OnA(ctx, e); err != nil {\n\treturn err\n}\n", string(w.Bytes()))

	err := HandlerCall{Receiver: "p", Method: "OnA", Async: true}.Generate(&Writer{}, "e")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context")

	err = HandlerCall{Method: "OnA"}.Generate(&Writer{}, "e")
	require.Error(t, err)
}
