package codegen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVariableNotFound is returned when no variable of a requested type is in
// scope.
var ErrVariableNotFound = errors.New("variable not found")

// Variable is a named, typed value in scope of generated code.
type Variable struct {
	Name string
	Type string
}

// Usage returns the expression that refers to the variable.
func (v *Variable) Usage() string {
	return v.Name
}

// MethodVariables resolves variables available to generated code.
type MethodVariables interface {
	FindVariable(typ string) (*Variable, error)
}

// Method describes a generated method and the variables it brings into scope.
type Method struct {
	Receiver *Variable
	Name     string
	Params   []*Variable
	Returns  string
}

// FindVariable returns the first receiver or parameter of type typ.
func (m *Method) FindVariable(typ string) (*Variable, error) {
	if m.Receiver != nil && m.Receiver.Type == typ {
		return m.Receiver, nil
	}
	for _, p := range m.Params {
		if p.Type == typ {
			return p, nil
		}
	}
	return nil, fmt.Errorf("method %s: no %s in scope: %w", m.Name, typ, ErrVariableNotFound)
}

// Signature returns the method declaration header without the opening brace.
func (m *Method) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Name + " " + p.Type
	}

	var b strings.Builder
	b.WriteString("func ")
	if m.Receiver != nil {
		fmt.Fprintf(&b, "(%s %s) ", m.Receiver.Name, m.Receiver.Type)
	}
	fmt.Fprintf(&b, "%s(%s)", m.Name, strings.Join(params, ", "))
	if m.Returns != "" {
		b.WriteString(" " + m.Returns)
	}
	return b.String()
}
