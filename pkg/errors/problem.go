package errors

import (
	"fmt"
	"strings"
)

// NoRun marks a problem that does not belong to a specific run
const NoRun = -1

// Problem pinpoints a single defect found while validating input.
// Strategy and Run are empty/NoRun when the defect is not scoped to them.
type Problem struct {
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Run      int    `json:"run" yaml:"run"`
	Field    string `json:"field,omitempty" yaml:"field,omitempty"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Path renders the location of the problem, e.g. SGD.runs[0].user_params
func (p Problem) Path() string {
	var b strings.Builder
	b.WriteString(p.Strategy)
	if p.Run != NoRun {
		fmt.Fprintf(&b, ".runs[%d]", p.Run)
	}
	if p.Field != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p.Field)
	}
	return b.String()
}

func (p Problem) String() string {
	if path := p.Path(); path != "" {
		return path + ": " + p.Reason
	}
	return p.Reason
}

// ProblemList accumulates problems; the zero value is ready to use
type ProblemList struct {
	items []Problem
}

// Add records a problem
func (l *ProblemList) Add(strategy string, run int, field, format string, args ...interface{}) {
	l.items = append(l.items, Problem{
		Strategy: strategy,
		Run:      run,
		Field:    field,
		Reason:   fmt.Sprintf(format, args...),
	})
}

// Len returns the number of recorded problems
func (l *ProblemList) Len() int { return len(l.items) }

// Items returns a copy of the recorded problems
func (l *ProblemList) Items() []Problem {
	out := make([]Problem, len(l.items))
	copy(out, l.items)
	return out
}

// Err returns nil when empty, otherwise an Error with the given code
// carrying every recorded problem
func (l *ProblemList) Err(code ErrorCode, message string) error {
	if len(l.items) == 0 {
		return nil
	}
	return New(code, fmt.Sprintf("%s (%d problem(s))", message, len(l.items))).
		WithProblems(l.Items())
}
