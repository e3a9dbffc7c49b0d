package ir

// EventTypeDecl is a compiled event type declaration.
//
// Class-kind declarations descend from Parent, or from the implicit
// universal root when Parent is empty. Interface-kind declarations never
// have a parent; Implements is informational and does not take part in
// ordering.
type EventTypeDecl struct {
	Name       string   `json:"name"`
	Parent     string   `json:"parent,omitempty"`
	Interface  bool     `json:"interface,omitempty"`
	Implements []string `json:"implements,omitempty"`
}

// HandlerDecl is one event-handling clause of a projection.
// Each clause becomes exactly one processing frame.
type HandlerDecl struct {
	Event  string `json:"event"`
	Method string `json:"method"`
	Async  bool   `json:"async,omitempty"`
}

// ProjectionSpec is a compiled projection: a named set of handler clauses
// dispatched from a single generated method.
type ProjectionSpec struct {
	Name     string        `json:"name"`
	Handlers []HandlerDecl `json:"handlers"`
}

// Compilation is the complete compiled output of a specs directory.
type Compilation struct {
	Events      []EventTypeDecl  `json:"events"`
	Projections []ProjectionSpec `json:"projections"`
}

// Projection returns the projection with the given name.
func (c *Compilation) Projection(name string) (ProjectionSpec, bool) {
	for _, p := range c.Projections {
		if p.Name == name {
			return p, true
		}
	}
	return ProjectionSpec{}, false
}
