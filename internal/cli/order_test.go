package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/codegen"
	"github.com/roach88/dispatchgen/internal/ir"
)

func TestOrderText(t *testing.T) {
	out, err := execute(t, NewOrderCommand(&RootOptions{Format: "text"}), specsDir("quest"))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "order_text", []byte(out))
}

func TestOrderSingleProjectionJSON(t *testing.T) {
	out, err := execute(t, NewOrderCommand(&RootOptions{Format: "json"}), specsDir("quest"), "--projection", "QuestParty")
	require.NoError(t, err)

	data, _, status := decodeResponse[[]ProjectionOrder](t, out)
	assert.Equal(t, "ok", status)
	require.Len(t, data, 1)

	po := data[0]
	want := []string{"FooBarA", "BarBase", "FooA", "FooBase", "Base", "IFoo"}
	assert.Equal(t, "QuestParty", po.Projection)
	assert.Equal(t, want, po.Order)
	assert.Equal(t, ir.OrderHash(want), po.OrderHash)
	require.Len(t, po.Handlers, 6)
	assert.Equal(t, OrderedHandler{Event: "FooA", Method: "ApplyFooA", Async: true}, po.Handlers[2])
}

func TestOrderUnknownProjection(t *testing.T) {
	out, err := execute(t, NewOrderCommand(&RootOptions{Format: "text"}), specsDir("quest"), "-p", "Nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNoProjection)
}

func TestOrderInvalidSpecs(t *testing.T) {
	out, err := execute(t, NewOrderCommand(&RootOptions{Format: "text"}), specsDir("invalid"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
}

func TestProjectionOrdersIsDeterministic(t *testing.T) {
	result, errs := LoadSpecs(specsDir("quest"), LoadModeFailFast)
	require.Empty(t, errs)

	first, err := projectionOrders(&result.Compilation, codegen.DefaultOptions(), "", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Audit", first[0].Projection)
	assert.Equal(t, []string{"FooA", "any"}, first[0].Order)

	// Reversing the handler clauses does not change the emitted order.
	comp := result.Compilation
	for i := range comp.Projections {
		h := comp.Projections[i].Handlers
		rev := make([]ir.HandlerDecl, len(h))
		for j := range h {
			rev[len(h)-1-j] = h[j]
		}
		comp.Projections[i].Handlers = rev
	}
	second, err := projectionOrders(&comp, codegen.DefaultOptions(), "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
