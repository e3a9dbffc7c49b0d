package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/compiler"
	"github.com/roach88/dispatchgen/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	EventCount      int `json:"event_count"`
	InterfaceCount  int `json:"interface_count"`
	ProjectionCount int `json:"projection_count"`
	HandlerCount    int `json:"handler_count"`
}

// CompileResult is the JSON payload of the compile command.
type CompileResult struct {
	Compilation ir.Compilation   `json:"compilation"`
	Stats       CompilationStats `json:"stats"`
	Output      string           `json:"output,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE specs to canonical IR",
		Long: `Compile CUE event type and projection declarations to canonical IR.

The compiler parses CUE files, extracts the event and projection
declarations, and writes canonical JSON (sorted keys, no whitespace)
when --output is given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.log()

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return outputLoadFailure(formatter, loadErrors)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)
	logger.Debug("loaded specs",
		zap.String("dir", specsDir),
		zap.Int("files", loadResult.FileCount),
		zap.Int("events", len(loadResult.Compilation.Events)),
		zap.Int("projections", len(loadResult.Compilation.Projections)))

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := &CompileResult{
		Compilation: loadResult.Compilation,
		Stats:       calculateStats(&loadResult.Compilation),
		Output:      opts.Output,
	}

	if opts.Output != "" {
		if err := writeIRToFile(&result.Compilation, opts.Output); err != nil {
			return formatter.commandError(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		logger.Debug("wrote canonical IR", zap.String("path", opts.Output))
	}

	return outputCompileSuccess(formatter, result)
}

// calculateStats computes summary statistics from a compilation.
func calculateStats(comp *ir.Compilation) CompilationStats {
	stats := CompilationStats{
		EventCount:      len(comp.Events),
		ProjectionCount: len(comp.Projections),
	}
	for _, e := range comp.Events {
		if e.Interface {
			stats.InterfaceCount++
		}
	}
	for _, p := range comp.Projections {
		stats.HandlerCount += len(p.Handlers)
	}
	return stats
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompileResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d event type(s), %d projection(s)\n\n",
		result.Stats.EventCount, result.Stats.ProjectionCount)

	if len(result.Compilation.Events) > 0 {
		fmt.Fprintln(w, "Events:")
		for _, e := range result.Compilation.Events {
			switch {
			case e.Interface:
				fmt.Fprintf(w, "  %s (interface)\n", e.Name)
			case e.Parent != "":
				fmt.Fprintf(w, "  %s → %s\n", e.Name, e.Parent)
			default:
				fmt.Fprintf(w, "  %s\n", e.Name)
			}
		}
		fmt.Fprintln(w)
	}

	if len(result.Compilation.Projections) > 0 {
		fmt.Fprintln(w, "Projections:")
		for _, p := range result.Compilation.Projections {
			fmt.Fprintf(w, "  %s: %d handler(s)\n", p.Name, len(p.Handlers))
		}
		fmt.Fprintln(w)
	}

	if result.Output != "" {
		fmt.Fprintf(w, "Wrote canonical IR to %s\n", result.Output)
	}

	return nil
}

// outputLoadFailure reports a specs directory that could not be loaded.
func outputLoadFailure(formatter *OutputFormatter, errs []error) error {
	code, message := parseCompileError(errs[0])
	return formatter.commandError(code, message)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}
		if err := formatter.Failure(cliErrors[0].Code, cliErrors[0].Message, cliErrors); err != nil {
			return err
		}
		// Compilation errors are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeIRToFile writes the compilation in canonical JSON, the form its
// spec hashes are computed over.
func writeIRToFile(comp *ir.Compilation, filename string) error {
	data, err := ir.MarshalCanonical(comp)
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
