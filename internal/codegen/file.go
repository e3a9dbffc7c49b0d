package codegen

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// Source is everything one generated file depends on.
type Source struct {
	Projection ir.ProjectionSpec
	Registry   *typesys.Registry
	SpecHash   string
}

// File is a generated dispatch file.
type File struct {
	Projection string
	Name       string
	Source     []byte
	Order      []string
	Async      bool
	SpecHash   string
	OutputHash string
}

// Render generates the dispatch file for one projection.
func Render(src Source, opts Options, logger *zap.Logger) (*File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	proj := src.Projection
	log := logger.With(zap.String("projection", proj.Name))

	frames, err := BuildFrames(src.Registry, proj, opts)
	if err != nil {
		return nil, err
	}
	log.Debug("built frames", zap.Int("count", len(frames)))

	match := NewPatternMatch(frames, opts.EventType, opts.Bound, log)
	async := match.IsAsync()

	method := &Method{
		Receiver: &Variable{Name: opts.Receiver, Type: "*" + proj.Name},
		Name:     opts.Method,
	}
	var imps Imports
	if async {
		imps.Add("context")
		method.Params = append(method.Params, &Variable{Name: opts.ContextParam, Type: "context.Context"})
		method.Returns = "error"
	}
	method.Params = append(method.Params, &Variable{Name: opts.EventParam, Type: opts.EventType})

	if _, err := match.FindVariables(method); err != nil {
		return nil, err
	}

	w := &Writer{}
	w.Write(fmt.Sprintf("// Code generated by dispatchgen %s. DO NOT EDIT.", ir.GeneratorVersion))
	w.Write("// Spec: " + src.SpecHash)
	w.Blank()
	w.Write("package " + opts.Package)
	w.Blank()
	imps.Render(w)
	w.Write(fmt.Sprintf("// %s dispatches %s to the %s handler for its most specific event type.",
		opts.Method, opts.EventParam, proj.Name))
	w.Block(method.Signature())
	if err := match.Generate(w); err != nil {
		return nil, fmt.Errorf("projection %s: %w", proj.Name, err)
	}
	if async {
		w.Write("return nil")
	}
	w.FinishBlock()

	name := FileName(proj.Name)
	formatted, err := imports.Process(name, w.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("projection %s: formatting generated code: %w", proj.Name, err)
	}

	return &File{
		Projection: proj.Name,
		Name:       name,
		Source:     formatted,
		Order:      match.Order(),
		Async:      async,
		SpecHash:   src.SpecHash,
		OutputHash: ir.OutputHash(formatted),
	}, nil
}

// Generate resolves the event hierarchy of comp and renders one file per
// projection, ordered by projection name.
func Generate(comp *ir.Compilation, opts Options, logger *zap.Logger) ([]*File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	reg, err := typesys.Resolve(comp.Events)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved event hierarchy", zap.Int("types", reg.Len()))

	projections := make([]ir.ProjectionSpec, len(comp.Projections))
	copy(projections, comp.Projections)
	sort.Slice(projections, func(i, j int) bool { return projections[i].Name < projections[j].Name })

	files := make([]*File, 0, len(projections))
	for _, proj := range projections {
		hash, err := ir.SpecHash(comp.Events, proj)
		if err != nil {
			return nil, err
		}
		f, err := Render(Source{Projection: proj, Registry: reg, SpecHash: hash}, opts, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("generated dispatch",
			zap.String("projection", f.Projection),
			zap.String("file", f.Name),
			zap.Int("arms", len(f.Order)))
		files = append(files, f)
	}
	return files, nil
}

// FileName returns the generated file name for a projection:
// "QuestParty" becomes "quest_party_dispatch.go".
func FileName(projection string) string {
	var b strings.Builder
	runes := []rune(projection)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String() + "_dispatch.go"
}
