package codegen

import (
	"fmt"

	"github.com/roach88/dispatchgen/internal/frame"
)

// HandlerCall is the code block of one handler clause: a call to a method on
// the projection receiver with the narrowed event.
//
// Synchronous handlers take the event only. Asynchronous handlers take the
// context first and return an error, which aborts dispatch.
type HandlerCall struct {
	Receiver string
	Method   string
	Async    bool
	Context  string
}

var _ frame.CodeBlock = HandlerCall{}

// Generate implements frame.CodeBlock.
func (h HandlerCall) Generate(w frame.SourceWriter, bound string) error {
	if h.Receiver == "" || h.Method == "" {
		return fmt.Errorf("handler call: receiver and method are required")
	}
	if !h.Async {
		w.Write(fmt.Sprintf("%s.%s(%s)", h.Receiver, h.Method, bound))
		return nil
	}
	if h.Context == "" {
		return fmt.Errorf("handler call %s: async handler needs a context variable", h.Method)
	}
	w.Block(fmt.Sprintf("if err := %s.%s(%s, %s); err != nil", h.Receiver, h.Method, h.Context, bound))
	w.Write("return err")
	w.FinishBlock()
	return nil
}
