package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/codegen"
	"github.com/roach88/dispatchgen/internal/frame"
	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// OrderOptions holds flags for the order command.
type OrderOptions struct {
	*RootOptions
	Projection string
}

// OrderedHandler is one arm of a dispatch method, in emission order.
type OrderedHandler struct {
	Event  string `json:"event"`
	Method string `json:"method"`
	Async  bool   `json:"async,omitempty"`
}

// ProjectionOrder is the emission order of one projection.
type ProjectionOrder struct {
	Projection string           `json:"projection"`
	Order      []string         `json:"order"`
	OrderHash  string           `json:"order_hash"`
	Handlers   []OrderedHandler `json:"handlers"`
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "order <specs-dir>",
		Short: "Print the dispatch order of each projection",
		Long: `Print the order in which each projection's handlers are tested.

Handlers for derived event types come before handlers for their bases;
unrelated types are ordered by name, ignoring case. This is the order
the generated type switch uses.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Projection, "projection", "p", "", "only print this projection")

	return cmd
}

func runOrder(opts *OrderOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	comp, err := loadValidSpecs(formatter, specsDir)
	if err != nil {
		return err
	}

	orders, err := projectionOrders(comp, codegen.DefaultOptions(), opts.Projection, opts.log())
	if err != nil {
		return outputOrderError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(orders)
	}

	w := formatter.Writer
	for i, po := range orders {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", po.Projection)
		if len(po.Handlers) == 0 {
			fmt.Fprintln(w, "  (no handlers)")
		}
		for n, h := range po.Handlers {
			suffix := ""
			if h.Async {
				suffix = " (async)"
			}
			fmt.Fprintf(w, "  %d. %s → %s%s\n", n+1, h.Event, h.Method, suffix)
		}
	}
	return nil
}

// errNoProjection reports a --projection that names nothing.
var errNoProjection = errors.New("projection not found")

// projectionOrders sorts the handlers of every projection in comp, or only
// of the projection named only. Results are ordered by projection name.
func projectionOrders(comp *ir.Compilation, opts codegen.Options, only string, logger *zap.Logger) ([]ProjectionOrder, error) {
	reg, err := typesys.Resolve(comp.Events)
	if err != nil {
		return nil, err
	}

	projections := slices.Clone(comp.Projections)
	if only != "" {
		p, ok := comp.Projection(only)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errNoProjection, only)
		}
		projections = []ir.ProjectionSpec{p}
	}
	slices.SortFunc(projections, func(a, b ir.ProjectionSpec) int { return strings.Compare(a.Name, b.Name) })

	orders := make([]ProjectionOrder, 0, len(projections))
	for _, proj := range projections {
		frames, err := codegen.BuildFrames(reg, proj, opts)
		if err != nil {
			return nil, err
		}
		sorted, err := frame.SortByHierarchy(frames)
		if err != nil {
			return nil, fmt.Errorf("projection %s: %w", proj.Name, err)
		}

		po := ProjectionOrder{
			Projection: proj.Name,
			Order:      frame.EventTypes(sorted),
			Handlers:   make([]OrderedHandler, 0, len(sorted)),
		}
		po.OrderHash = ir.OrderHash(po.Order)
		for _, f := range sorted {
			h := OrderedHandler{Event: f.EventType().Name, Async: f.IsAsync()}
			if call, ok := f.Code().(codegen.HandlerCall); ok {
				h.Method = call.Method
			}
			po.Handlers = append(po.Handlers, h)
		}
		logger.Debug("sorted projection",
			zap.String("projection", proj.Name),
			zap.Strings("order", po.Order))
		orders = append(orders, po)
	}
	return orders, nil
}

// outputOrderError reports a failure to compute an order.
func outputOrderError(formatter *OutputFormatter, err error) error {
	switch {
	case errors.Is(err, frame.ErrFramesLost):
		return formatter.commandError(ErrCodeFramesLost, err.Error())
	case errors.Is(err, errNoProjection):
		return formatter.commandError(ErrCodeNoProjection, err.Error())
	default:
		return formatter.commandError(ErrCodeGenerate, err.Error())
	}
}
