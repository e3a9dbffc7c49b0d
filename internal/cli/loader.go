package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/dispatchgen/internal/compiler"
	"github.com/roach88/dispatchgen/internal/ir"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading specs from a directory.
type LoadResult struct {
	Compilation ir.Compilation
	CUEValue    cue.Value // The raw CUE value for additional processing
	FileCount   int       // Number of CUE files found
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs loads and compiles the CUE specs of a directory.
//
// A nil result means the directory could not be loaded at all. Otherwise
// the result holds every declaration that compiled; errors for the others
// are returned alongside it (only the first one in LoadModeFailFast).
func LoadSpecs(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		Compilation: ir.Compilation{
			Events:      []ir.EventTypeDecl{},
			Projections: []ir.ProjectionSpec{},
		},
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	var errs []error
	collect := func(err error) bool {
		errs = append(errs, err)
		return mode == LoadModeFailFast
	}

	events := value.LookupPath(cue.ParsePath("event"))
	stop := eachField(events, "event", collect, func(label string, v cue.Value) error {
		decl, err := compiler.CompileEventType(v)
		if err != nil {
			return convertCompileError(err, "event."+label)
		}
		result.Compilation.Events = append(result.Compilation.Events, *decl)
		return nil
	})
	if stop {
		return result, errs
	}

	projections := value.LookupPath(cue.ParsePath("projection"))
	stop = eachField(projections, "projection", collect, func(label string, v cue.Value) error {
		spec, err := compiler.CompileProjection(v)
		if err != nil {
			return convertCompileError(err, "projection."+label)
		}
		result.Compilation.Projections = append(result.Compilation.Projections, *spec)
		return nil
	})
	if stop {
		return result, errs
	}

	if len(result.Compilation.Events) == 0 && len(result.Compilation.Projections) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no events or projections found in specs"})
	}

	return result, errs
}

// eachField compiles every field of a top-level struct. It reports whether
// loading should stop.
func eachField(v cue.Value, kind string, collect func(error) bool, compile func(string, cue.Value) error) bool {
	if !v.Exists() {
		return false
	}
	iter, err := v.Fields()
	if err != nil {
		return collect(&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating %s declarations: %v", kind, err), Pos: v.Pos()})
	}
	for iter.Next() {
		if err := compile(iter.Label(), iter.Value()); err != nil {
			if collect(err) {
				return true
			}
		}
	}
	return false
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s.%s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants shared by all CLI commands. Schema validation codes
// (E1xx) are defined by the compiler package.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeUnknownField = "E008" // Unknown field in a declaration
	ErrCodeFieldType    = "E009" // Field has the wrong CUE type
	ErrCodeConfig       = "E010" // dispatchgen.yaml could not be loaded
	ErrCodeLedger       = "E011" // Generation ledger could not be used
	ErrCodeGenerate     = "E012" // Code generation failed

	ErrCodeFramesLost   = "E201" // Sorting lost frames
	ErrCodeOrderDrift   = "E202" // Emission order differs from the ledger
	ErrCodeTestFailed   = "E203" // Scenario failures
	ErrCodeNoProjection = "E204" // Requested projection does not exist
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "parent":
		return compiler.ErrInvalidParentName
	case field == "interface", field == "handlers", strings.HasSuffix(field, ".async"):
		return ErrCodeFieldType
	case strings.HasPrefix(field, "implements"):
		return compiler.ErrInvalidImplements
	case strings.HasSuffix(field, ".event"):
		return compiler.ErrMissingHandlerEvent
	case strings.HasSuffix(field, ".method"):
		return compiler.ErrInvalidHandlerMethod
	case field == "cue":
		return ErrCodeBuildFailed
	case field == "":
		return ErrCodeGeneric
	default:
		return ErrCodeUnknownField
	}
}
