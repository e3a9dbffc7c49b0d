package harness

// TraceEvent is one sorted frame as it appears in the emitted order.
type TraceEvent struct {
	Position int      `json:"position"`
	Event    string   `json:"event"`
	Chain    []string `json:"chain"`
	Async    bool     `json:"async"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every assertion held and every
	// permutation agreed.
	Pass bool `json:"pass"`

	// Order is the emitted event type order.
	Order []string `json:"order"`

	// Trace is the sorted frames in emission order.
	Trace []TraceEvent `json:"trace"`

	// Permutations is how many input orders were sorted.
	Permutations int `json:"permutations"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Order:  []string{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
