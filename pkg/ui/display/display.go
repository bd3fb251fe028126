// Package display defines the results commands hand to renderers. Every
// renderer understands every type here.
package display

import (
	"time"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/plan"
	"github.com/covertmark/covertmark/pkg/types"
)

// StrategyRow is one line of a strategy listing
type StrategyRow struct {
	Name          string `json:"name" yaml:"name"`
	Module        string `json:"module" yaml:"module"`
	Object        string `json:"object" yaml:"object"`
	Runs          int    `json:"runs" yaml:"runs"`
	NegativeInput bool   `json:"negative_input" yaml:"negative_input"`
	Bound         bool   `json:"bound" yaml:"bound"`
}

// StrategyList is the result of listing a registry
type StrategyList struct {
	Source     string        `json:"source" yaml:"source"`
	ID         string        `json:"id" yaml:"id"`
	Strategies []StrategyRow `json:"strategies" yaml:"strategies"`
}

// StrategyDetail is one descriptor with its binding state
type StrategyDetail struct {
	Source     string                   `json:"source" yaml:"source"`
	Bound      bool                     `json:"bound" yaml:"bound"`
	Descriptor types.StrategyDescriptor `json:"strategy" yaml:"strategy"`
}

// ValidationResult is the outcome of loading one strategy map
type ValidationResult struct {
	Source     string           `json:"source" yaml:"source"`
	Valid      bool             `json:"valid" yaml:"valid"`
	Strategies []string         `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
	Problems   []errors.Problem `json:"problems,omitempty" yaml:"problems,omitempty"`
	Warnings   []errors.Problem `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ValidationReport collects the results of validating several maps
type ValidationReport struct {
	Results []ValidationResult `json:"results" yaml:"results"`
}

// Failed reports whether any map failed to load
func (r *ValidationReport) Failed() bool {
	for _, res := range r.Results {
		if !res.Valid {
			return true
		}
	}
	return false
}

// PlanResult is a planned strategy
type PlanResult struct {
	Strategy string         `json:"strategy" yaml:"strategy"`
	Runs     []plan.RunPlan `json:"runs" yaml:"runs"`
}

// ReloadEvent reports one reload of a watched strategy map
type ReloadEvent struct {
	Time       time.Time `json:"time" yaml:"time"`
	Source     string    `json:"source" yaml:"source"`
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	Strategies int       `json:"strategies" yaml:"strategies"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorResult is the structured form of a failed command
type ErrorResult struct {
	Code     errors.ErrorCode `json:"code" yaml:"code"`
	Message  string           `json:"message" yaml:"message"`
	Problems []errors.Problem `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// NewErrorResult extracts the code, message and problems from err
func NewErrorResult(err error) ErrorResult {
	res := ErrorResult{
		Code:     errors.GetErrorCode(err),
		Message:  err.Error(),
		Problems: errors.Problems(err),
	}
	if e, ok := errors.AsError(err); ok {
		res.Message = e.Message
		if e.Wrapped != nil && len(res.Problems) == 0 {
			res.Message += ": " + e.Wrapped.Error()
		}
	}
	return res
}
