package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/dispatchgen/internal/compiler"
	"github.com/roach88/dispatchgen/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate specs without generating code",
		Long: `Validate CUE event type and projection declarations.

Checks every declaration against the schema rules, resolves parent and
handler references, and reports every inheritance cycle with its path.
Nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	errs, err := ValidateSpecsDir(specsDir)
	if err != nil {
		return outputLoadFailure(formatter, []error{err})
	}

	opts.log().Debug("validated specs", zap.String("dir", specsDir), zap.Int("errors", len(errs)))

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputValidateSuccess(formatter)
}

// ValidateSpecsDir compiles and validates all specs in a directory.
// The error is non-nil only when the directory cannot be loaded at all;
// compile and schema problems are returned as validation errors.
func ValidateSpecsDir(specsDir string) ([]compiler.ValidationError, error) {
	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return nil, loadErrors[0]
	}
	return validateLoaded(loadResult, loadErrors), nil
}

// validateLoaded merges load errors with schema validation of what compiled,
// so one bad declaration does not hide problems in the others.
func validateLoaded(loadResult *LoadResult, loadErrors []error) []compiler.ValidationError {
	var allErrors []compiler.ValidationError
	for _, err := range loadErrors {
		allErrors = append(allErrors, toValidationError(err))
	}
	return append(allErrors, compiler.Validate(&loadResult.Compilation)...)
}

// loadValidSpecs loads a specs directory for commands that need a valid
// compilation. Problems are reported through formatter and returned as
// command errors.
func loadValidSpecs(formatter *OutputFormatter, specsDir string) (*ir.Compilation, error) {
	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return nil, outputLoadFailure(formatter, loadErrors)
	}
	if errs := validateLoaded(loadResult, loadErrors); len(errs) > 0 {
		_ = outputValidationErrors(formatter, errs)
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("specs are invalid: %d error(s)", len(errs)))
	}
	return &loadResult.Compilation, nil
}

// toValidationError converts a load error to a validation error.
func toValidationError(err error) compiler.ValidationError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		ve := compiler.ValidationError{
			Field:   "specs",
			Message: loadErr.Message,
			Code:    loadErr.Code,
		}
		if loadErr.Pos.IsValid() {
			ve.Field = loadErr.Pos.Filename()
			ve.Line = loadErr.Pos.Line()
		}
		return ve
	}
	return compiler.ValidationError{
		Field:   "specs",
		Message: err.Error(),
		Code:    ErrCodeGeneric,
	}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ All specs valid")
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}
		if err := formatter.Failure(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
