package codegen

import (
	"bytes"
	"sort"
	"strings"
)

// Writer is an indentation-aware source writer.
type Writer struct {
	buf    bytes.Buffer
	indent int
}

// Write writes text at the current indentation. Multi-line text is split and
// each line indented; empty lines stay empty.
func (w *Writer) Write(text string) {
	for _, line := range strings.Split(text, "\n") {
		w.line(line)
	}
}

// Block writes header followed by an opening brace and indents.
func (w *Writer) Block(header string) {
	w.line(header + " {")
	w.indent++
}

// Case writes a switch case label one level left of the current indentation,
// where gofmt puts it.
func (w *Writer) Case(label string) {
	w.indent--
	w.line("case " + label + ":")
	w.indent++
}

// FinishBlock dedents and closes the innermost block.
func (w *Writer) FinishBlock() {
	if w.indent > 0 {
		w.indent--
	}
	w.line("}")
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.buf.WriteByte('\n')
}

// Bytes returns the written source.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) line(s string) {
	if s != "" {
		for i := 0; i < w.indent; i++ {
			w.buf.WriteByte('\t')
		}
		w.buf.WriteString(s)
	}
	w.buf.WriteByte('\n')
}

// Imports is an alphabetically sorted set of import paths.
type Imports struct {
	List []string
}

// Add inserts path if not already present.
func (i *Imports) Add(path string) {
	idx := sort.SearchStrings(i.List, path)
	if idx < len(i.List) && i.List[idx] == path {
		return
	}
	i.List = append(i.List, "")
	copy(i.List[idx+1:], i.List[idx:])
	i.List[idx] = path
}

// Render writes the import declaration, if any.
func (i *Imports) Render(w *Writer) {
	switch len(i.List) {
	case 0:
		return
	case 1:
		w.Write(`import "` + i.List[0] + `"`)
	default:
		w.Write("import (")
		w.indent++
		for _, path := range i.List {
			w.Write(`"` + path + `"`)
		}
		w.indent--
		w.Write(")")
	}
	w.Blank()
}
