package typesys

// RootName is the name of the implicit universal root. Every type without a
// declared parent descends from it, interfaces included, since any generated
// event value satisfies it. The name is reserved.
const RootName = "any"

// Kind distinguishes class-like types, which may declare a base type, from
// interface-like capabilities, which may not.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
)

func (k Kind) String() string {
	if k == KindInterface {
		return "interface"
	}
	return "class"
}

// Type is a resolved event type.
type Type struct {
	Name       string
	Kind       Kind
	Implements []string

	// Parent is the declared base type or the root. Nil only for the root.
	Parent *Type

	chain   []*Type
	foldKey string
}

// IsInterface reports whether t is an interface-kind type.
func (t *Type) IsInterface() bool {
	return t != nil && t.Kind == KindInterface
}

// IsRoot reports whether t is the universal root.
func (t *Type) IsRoot() bool {
	return t != nil && t.Parent == nil && t.Name == RootName
}

// FoldKey returns the case-folded name used for ordering ties.
func (t *Type) FoldKey() string {
	if t.foldKey == "" {
		return foldName(t.Name)
	}
	return t.foldKey
}

// DerivesFrom reports whether t strictly descends from base.
func (t *Type) DerivesFrom(base *Type) bool {
	if t == nil || base == nil || t == base {
		return false
	}
	for p := t.Parent; p != nil; p = p.Parent {
		if p == base {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}
