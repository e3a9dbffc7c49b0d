package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/codegen"
	"github.com/roach88/dispatchgen/internal/config"
	"github.com/roach88/dispatchgen/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Config string // config file, defaults to <specs-dir>/dispatchgen.yaml
	Out    string // overrides the configured output directory
	Ledger string // overrides the configured ledger path
}

// GeneratedFile describes one written dispatch file.
type GeneratedFile struct {
	Projection string   `json:"projection"`
	Path       string   `json:"path"`
	Order      []string `json:"order"`
	Async      bool     `json:"async,omitempty"`
	SpecHash   string   `json:"spec_hash"`
	OutputHash string   `json:"output_hash"`
	RunID      string   `json:"run_id,omitempty"`
	Seq        int64    `json:"seq,omitempty"`
}

// GenerateResult is the payload of the generate command.
type GenerateResult struct {
	Output string          `json:"output"`
	Ledger string          `json:"ledger,omitempty"`
	Files  []GeneratedFile `json:"files"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <specs-dir>",
		Short: "Generate dispatch methods for every projection",
		Long: `Generate one <projection>_dispatch.go file per projection.

Settings are read from dispatchgen.yaml in the specs directory (or --config).
When a ledger is configured, every generated projection is recorded with its
emission order so later builds can be checked with "dispatchgen verify".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "config file (default <specs-dir>/dispatchgen.yaml)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output directory")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "generation ledger database")

	return cmd
}

func runGenerate(opts *GenerateOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.log()

	cfg, err := loadConfig(specsDir, opts.Config)
	if err != nil {
		return formatter.commandError(ErrCodeConfig, err.Error())
	}
	if opts.Out != "" {
		cfg.Output = opts.Out
	}
	if opts.Ledger != "" {
		cfg.Ledger = opts.Ledger
	}
	formatter.VerboseLog("Using config %s", configSource(cfg))

	comp, err := loadValidSpecs(formatter, specsDir)
	if err != nil {
		return err
	}

	files, err := codegen.Generate(comp, cfg.Options(), logger)
	if err != nil {
		return outputOrderError(formatter, err)
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return formatter.commandError(ErrCodeWriteFailed, fmt.Sprintf("creating output directory: %v", err))
	}

	result := GenerateResult{
		Output: cfg.Output,
		Ledger: cfg.Ledger,
		Files:  make([]GeneratedFile, 0, len(files)),
	}
	for _, f := range files {
		path := filepath.Join(cfg.Output, f.Name)
		if err := os.WriteFile(path, f.Source, 0644); err != nil {
			return formatter.commandError(ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", path, err))
		}
		formatter.VerboseLog("Wrote %s", path)
		result.Files = append(result.Files, GeneratedFile{
			Projection: f.Projection,
			Path:       path,
			Order:      f.Order,
			Async:      f.Async,
			SpecHash:   f.SpecHash,
			OutputHash: f.OutputHash,
		})
	}

	if cfg.Ledger != "" {
		if err := recordRuns(commandContext(cmd), cfg.Ledger, result.Files, logger); err != nil {
			return formatter.commandError(ErrCodeLedger, err.Error())
		}
	}

	return outputGenerateSuccess(formatter, &result)
}

// loadConfig reads an explicit config file, or the one in specsDir.
func loadConfig(specsDir, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDir(specsDir)
}

func configSource(cfg *config.Config) string {
	if cfg.Path == "" {
		return "defaults"
	}
	return cfg.Path
}

// recordRuns appends one ledger run per generated file and fills in the
// assigned run IDs.
func recordRuns(ctx context.Context, ledger string, files []GeneratedFile, logger *zap.Logger) error {
	if dir := filepath.Dir(ledger); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating ledger directory: %w", err)
		}
	}
	st, err := store.Open(ledger)
	if err != nil {
		return err
	}
	defer st.Close()

	for i := range files {
		f := &files[i]
		run, err := st.RecordRun(ctx, store.Run{
			Projection: f.Projection,
			SpecHash:   f.SpecHash,
			Order:      f.Order,
			OutputHash: f.OutputHash,
		})
		if err != nil {
			return err
		}
		f.RunID = run.ID
		f.Seq = run.Seq
		logger.Debug("recorded run",
			zap.String("projection", run.Projection),
			zap.String("run_id", run.ID),
			zap.Int64("seq", run.Seq))
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func outputGenerateSuccess(formatter *OutputFormatter, result *GenerateResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Generated %d file(s) in %s\n\n", len(result.Files), result.Output)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s: %s (%d arm(s))\n", f.Projection, filepath.Base(f.Path), len(f.Order))
	}
	if result.Ledger != "" {
		fmt.Fprintf(w, "\nRecorded %d run(s) in %s\n", len(result.Files), result.Ledger)
	}
	return nil
}
