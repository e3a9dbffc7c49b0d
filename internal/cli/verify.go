package cli

import (
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Config string
	Ledger string
}

// Verification statuses of one projection.
const (
	StatusOK         = "ok"
	StatusDrift      = "drift"
	StatusUnrecorded = "unrecorded"
)

// ProjectionCheck compares one projection's current order with the ledger.
type ProjectionCheck struct {
	Projection  string   `json:"projection"`
	Status      string   `json:"status"`
	Current     []string `json:"current"`
	Recorded    []string `json:"recorded,omitempty"`
	Diff        string   `json:"diff,omitempty"`
	RunID       string   `json:"run_id,omitempty"`
	SpecChanged bool     `json:"spec_changed,omitempty"`
}

// VerifyResult is the payload of the verify command.
type VerifyResult struct {
	Ledger      string            `json:"ledger"`
	Projections []ProjectionCheck `json:"projections"`
	Failed      int               `json:"failed"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <specs-dir>",
		Short: "Check dispatch order against the generation ledger",
		Long: `Recompute every projection's dispatch order and compare it with the
last run recorded in the generation ledger.

A projection whose order changed, or that was never recorded, fails the
check (exit code 1). Spec changes that keep the order are reported but pass.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "config file (default <specs-dir>/dispatchgen.yaml)")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "generation ledger database")

	return cmd
}

func runVerify(opts *VerifyOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.log()

	cfg, err := loadConfig(specsDir, opts.Config)
	if err != nil {
		return formatter.commandError(ErrCodeConfig, err.Error())
	}
	ledger := cfg.Ledger
	if opts.Ledger != "" {
		ledger = opts.Ledger
	}
	if ledger == "" {
		return formatter.commandError(ErrCodeLedger, "no ledger configured: set ledger in dispatchgen.yaml or pass --ledger")
	}
	// Opening creates the database, so check first: a missing ledger is a
	// configuration problem, not a projection that was never recorded.
	if _, err := os.Stat(ledger); err != nil {
		return formatter.commandError(ErrCodeLedger, fmt.Sprintf("ledger not found: %s", ledger))
	}

	comp, err := loadValidSpecs(formatter, specsDir)
	if err != nil {
		return err
	}

	orders, err := projectionOrders(comp, cfg.Options(), "", logger)
	if err != nil {
		return outputOrderError(formatter, err)
	}

	st, err := store.Open(ledger)
	if err != nil {
		return formatter.commandError(ErrCodeLedger, err.Error())
	}
	defer st.Close()

	ctx := commandContext(cmd)
	result := VerifyResult{Ledger: ledger, Projections: make([]ProjectionCheck, 0, len(orders))}
	for _, po := range orders {
		check := ProjectionCheck{Projection: po.Projection, Status: StatusOK, Current: po.Order}

		latest, ok, err := st.LatestRun(ctx, po.Projection)
		if err != nil {
			return formatter.commandError(ErrCodeLedger, err.Error())
		}
		switch {
		case !ok:
			check.Status = StatusUnrecorded
		case latest.OrderHash != po.OrderHash:
			check.Status = StatusDrift
			check.Diff = cmp.Diff(latest.Order, po.Order)
		}
		if ok {
			check.Recorded = latest.Order
			check.RunID = latest.ID
			proj, _ := comp.Projection(po.Projection)
			hash, err := ir.SpecHash(comp.Events, proj)
			if err != nil {
				return formatter.commandError(ErrCodeGeneric, err.Error())
			}
			check.SpecChanged = hash != latest.SpecHash
		}
		if check.Status != StatusOK {
			result.Failed++
		}

		logger.Debug("verified projection",
			zap.String("projection", check.Projection),
			zap.String("status", check.Status),
			zap.Bool("spec_changed", check.SpecChanged))
		result.Projections = append(result.Projections, check)
	}

	return outputVerifyResult(formatter, &result)
}

func outputVerifyResult(formatter *OutputFormatter, result *VerifyResult) error {
	if formatter.Format == "json" {
		if result.Failed > 0 {
			if err := formatter.Failure(ErrCodeOrderDrift, fmt.Sprintf("%d projection(s) failed verification", result.Failed), result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d projection(s) failed verification", result.Failed))
		}
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, c := range result.Projections {
		switch c.Status {
		case StatusOK:
			note := ""
			if c.SpecChanged {
				note = " (spec changed, order unchanged)"
			}
			fmt.Fprintf(w, "✓ %s%s\n", c.Projection, note)
		case StatusUnrecorded:
			fmt.Fprintf(w, "✗ %s: no recorded run\n", c.Projection)
		case StatusDrift:
			fmt.Fprintf(w, "✗ %s: dispatch order changed since run %s (-recorded +current):\n%s\n", c.Projection, c.RunID, c.Diff)
		}
	}

	fmt.Fprintln(w)
	if result.Failed > 0 {
		fmt.Fprintf(w, "Verify Summary: %d of %d projection(s) failed\n", result.Failed, len(result.Projections))
		return NewExitError(ExitFailure, fmt.Sprintf("%d projection(s) failed verification", result.Failed))
	}
	fmt.Fprintln(w, "✓ Dispatch order matches the ledger")
	return nil
}
