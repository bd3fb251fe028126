package types

import (
	"slices"

	"github.com/go-json-experiment/json"
)

// StrategyDescriptor declares one detection strategy: the code that
// implements it, the traffic filters and parameters it needs, and the
// ordered runs it executes.
type StrategyDescriptor struct {
	Name            string       `json:"name" yaml:"name"`
	Module          string       `json:"module" yaml:"module"`
	Object          string       `json:"object" yaml:"object"`
	FixedParams     []FixedParam `json:"fixed_params" yaml:"fixed_params"`
	PTFilters       []FilterTag  `json:"pt_filters" yaml:"pt_filters"`
	NegativeFilters []FilterTag  `json:"negative_filters" yaml:"negative_filters"`
	NegativeInput   bool         `json:"negative_input" yaml:"negative_input"`
	Runs            []RunSpec    `json:"runs" yaml:"runs"`
}

// RunSpec is one execution variant of a strategy. RunOrder always equals the
// run's index in StrategyDescriptor.Runs.
type RunSpec struct {
	RunOrder               int         `json:"run_order" yaml:"run_order"`
	RunDescription         string      `json:"run_description" yaml:"run_description"`
	PTFiltersReverse       bool        `json:"pt_filters_reverse" yaml:"pt_filters_reverse"`
	NegativeFiltersReverse bool        `json:"negative_filters_reverse" yaml:"negative_filters_reverse"`
	UserParams             []UserParam `json:"user_params" yaml:"user_params"`
	Constraints            []string    `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Key identifies the implementation a descriptor names, "module.object"
func (d StrategyDescriptor) Key() string {
	return FactoryKey(d.Module, d.Object)
}

// FactoryKey joins a module and object name into a factory table key
func FactoryKey(module, object string) string {
	return module + "." + object
}

// FixedParam returns the value of the named fixed parameter
func (d StrategyDescriptor) FixedParam(name string) (interface{}, bool) {
	for _, p := range d.FixedParams {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// EffectivePTFilters returns the positive-trace filter tags as a run sees
// them, reversed when the run asks for it
func (d StrategyDescriptor) EffectivePTFilters(run RunSpec) []FilterTag {
	return ReverseFilterTags(d.PTFilters, run.PTFiltersReverse)
}

// EffectiveNegativeFilters returns the negative-trace filter tags as a run
// sees them. Strategies without negative input never apply negative filters.
func (d StrategyDescriptor) EffectiveNegativeFilters(run RunSpec) []FilterTag {
	if !d.NegativeInput {
		return nil
	}
	return ReverseFilterTags(d.NegativeFilters, run.NegativeFiltersReverse)
}

// UserParamNames returns every user parameter declared by any run, in first
// declaration order
func (d StrategyDescriptor) UserParamNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, run := range d.Runs {
		for _, p := range run.UserParams {
			if !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		}
	}
	return names
}

// Clone returns a deep copy of d
func (d StrategyDescriptor) Clone() StrategyDescriptor {
	out := d
	out.FixedParams = slices.Clone(d.FixedParams)
	out.PTFilters = slices.Clone(d.PTFilters)
	out.NegativeFilters = slices.Clone(d.NegativeFilters)
	out.Runs = slices.Clone(d.Runs)
	for i := range out.Runs {
		out.Runs[i].UserParams = slices.Clone(d.Runs[i].UserParams)
		out.Runs[i].Constraints = slices.Clone(d.Runs[i].Constraints)
	}
	return out
}

func marshalPair(name string, value interface{}) ([]byte, error) {
	return json.Marshal([]interface{}{name, value})
}
