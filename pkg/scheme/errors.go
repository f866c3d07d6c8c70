package scheme

import "fmt"

// Scope names a builder nesting level.
type Scope string

const (
	ScopeCategory   Scope = "category"
	ScopeConstruct  Scope = "construct"
	ScopeScript     Scope = "script"
	ScopeFrameGroup Scope = "frame group"
	ScopeLaneGroup  Scope = "lane group"
)

var openers = map[Scope]string{
	ScopeCategory:   "AddCategory",
	ScopeConstruct:  "AddConstruct",
	ScopeScript:     "AddScript",
	ScopeFrameGroup: "AddFrameGroup",
	ScopeLaneGroup:  "AddLaneGroup",
}

// ConstructionSequenceError reports a builder operation invoked while the
// parent scope it attaches to is not open. It is a programming error.
type ConstructionSequenceError struct {
	Op      string // Operation that was rejected
	Missing Scope  // Parent scope that was not open
}

func (e *ConstructionSequenceError) Error() string {
	return fmt.Sprintf("scheme: cannot %s without a %s; call %s() first", e.Op, e.Missing, openers[e.Missing])
}

// ValidationError reports a structural defect found by Validate.
type ValidationError struct {
	Path   string // Location in the document, e.g. categories[0].constructs[1].script
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// AggregateError collects every ValidationError of a document.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is/As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
