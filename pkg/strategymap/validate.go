package strategymap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/covertmark/covertmark/pkg/constraints"
	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/types"
)

// NegativeFilterPolicy decides what happens when a strategy declares
// negative filters but takes no negative input
type NegativeFilterPolicy string

const (
	// PolicyIgnore accepts the strategy silently
	PolicyIgnore NegativeFilterPolicy = "ignore"
	// PolicyWarn accepts the strategy and records a warning
	PolicyWarn NegativeFilterPolicy = "warn"
	// PolicyError rejects the strategy map
	PolicyError NegativeFilterPolicy = "error"
)

// DefaultNegativeFilterPolicy is used when no policy is configured
const DefaultNegativeFilterPolicy = PolicyWarn

// ParseNegativeFilterPolicy parses a policy name. An empty string selects
// the default.
func ParseNegativeFilterPolicy(s string) (NegativeFilterPolicy, error) {
	switch p := NegativeFilterPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultNegativeFilterPolicy, nil
	case PolicyIgnore, PolicyWarn, PolicyError:
		return p, nil
	default:
		return "", fmt.Errorf("unknown negative filter policy %q (want ignore, warn or error)", s)
	}
}

var descriptorFields = []string{
	"module", "object", "fixed_params", "pt_filters",
	"negative_filters", "negative_input", "runs",
}

var runFields = []string{
	"run_order", "run_description", "pt_filters_reverse",
	"negative_filters_reverse", "user_params", "constraints",
}

// validator turns generic decoded entries into descriptors, recording every
// problem it finds instead of stopping at the first
type validator struct {
	policy   NegativeFilterPolicy
	problems errors.ProblemList
	warnings errors.ProblemList
}

func newValidator(policy NegativeFilterPolicy) *validator {
	if policy == "" {
		policy = DefaultNegativeFilterPolicy
	}
	return &validator{policy: policy}
}

// validate checks every entry. The returned descriptors are only meaningful
// when no problems were recorded.
func (v *validator) validate(entries []entry) []types.StrategyDescriptor {
	descriptors := make([]types.StrategyDescriptor, 0, len(entries))
	for _, e := range entries {
		descriptors = append(descriptors, v.descriptor(e.Name, e.Value))
	}
	return descriptors
}

func (v *validator) add(strategy string, run int, field, format string, args ...interface{}) {
	v.problems.Add(strategy, run, field, format, args...)
}

func (v *validator) descriptor(name string, raw interface{}) types.StrategyDescriptor {
	desc := types.StrategyDescriptor{Name: name}

	if strings.TrimSpace(name) == "" {
		v.add(name, errors.NoRun, "", "strategy name is empty")
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		v.add(name, errors.NoRun, "", "strategy must be an object, got %s", kindOf(raw))
		return desc
	}
	v.unknownFields(name, errors.NoRun, obj, descriptorFields)

	desc.Module = v.requiredString(name, errors.NoRun, obj, "module")
	desc.Object = v.requiredString(name, errors.NoRun, obj, "object")

	var fixedOK bool
	desc.FixedParams, fixedOK = v.fixedParams(name, obj)
	desc.PTFilters = v.filterTags(name, obj, "pt_filters")
	desc.NegativeFilters = v.filterTags(name, obj, "negative_filters")
	desc.NegativeInput, _ = v.requiredBool(name, errors.NoRun, obj, "negative_input")

	if !desc.NegativeInput && len(desc.NegativeFilters) > 0 {
		const reason = "negative filters are declared but negative_input is false"
		switch v.policy {
		case PolicyError:
			v.add(name, errors.NoRun, "negative_filters", reason)
		case PolicyWarn:
			v.warnings.Add(name, errors.NoRun, "negative_filters", reason)
		}
	}

	runsRaw, present := obj["runs"]
	if !present {
		v.add(name, errors.NoRun, "runs", "required field is missing")
		return desc
	}
	runs, ok := runsRaw.([]interface{})
	if !ok {
		v.add(name, errors.NoRun, "runs", "must be an array, got %s", kindOf(runsRaw))
		return desc
	}
	if len(runs) == 0 {
		v.add(name, errors.NoRun, "runs", "at least one run is required")
		return desc
	}

	fixedNames := make(map[string]bool, len(desc.FixedParams))
	for _, p := range desc.FixedParams {
		fixedNames[p.Name] = true
	}

	desc.Runs = make([]types.RunSpec, 0, len(runs))
	for i, r := range runs {
		desc.Runs = append(desc.Runs, v.run(name, i, r, desc.FixedParams, fixedNames, fixedOK))
	}
	return desc
}

func (v *validator) run(strategy string, index int, raw interface{}, fixed []types.FixedParam, fixedNames map[string]bool, fixedOK bool) types.RunSpec {
	run := types.RunSpec{RunOrder: index}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		v.add(strategy, index, "", "run must be an object, got %s", kindOf(raw))
		return run
	}
	v.unknownFields(strategy, index, obj, runFields)

	if orderRaw, present := obj["run_order"]; !present {
		v.add(strategy, index, "run_order", "required field is missing")
	} else if order, ok := asInt(orderRaw); !ok {
		v.add(strategy, index, "run_order", "must be an integer, got %s", kindOf(orderRaw))
	} else if order != int64(index) {
		v.add(strategy, index, "run_order", "is %d but the run is at position %d", order, index)
	}

	run.RunDescription = v.requiredString(strategy, index, obj, "run_description")
	run.PTFiltersReverse, _ = v.requiredBool(strategy, index, obj, "pt_filters_reverse")
	run.NegativeFiltersReverse, _ = v.requiredBool(strategy, index, obj, "negative_filters_reverse")

	var userOK bool
	run.UserParams, userOK = v.userParams(strategy, index, obj, fixedNames)

	if rawConstraints, present := obj["constraints"]; present {
		list, ok := rawConstraints.([]interface{})
		if !ok {
			v.add(strategy, index, "constraints", "must be an array of strings, got %s", kindOf(rawConstraints))
			return run
		}
		env := constraints.TypeEnv(fixed, run.UserParams)
		for i, c := range list {
			field := fmt.Sprintf("constraints[%d]", i)
			src, ok := c.(string)
			if !ok {
				v.add(strategy, index, field, "must be a string, got %s", kindOf(c))
				continue
			}
			run.Constraints = append(run.Constraints, src)
			// Parameters that failed to parse would only add noise here
			if !fixedOK || !userOK {
				continue
			}
			if _, err := constraints.Compile(src, env); err != nil {
				v.add(strategy, index, field, "%v", err)
			}
		}
	}

	return run
}

func (v *validator) fixedParams(strategy string, obj map[string]interface{}) ([]types.FixedParam, bool) {
	list, ok := v.requiredArray(strategy, errors.NoRun, obj, "fixed_params")
	if !ok {
		return nil, false
	}

	clean := true
	seen := make(map[string]bool, len(list))
	params := make([]types.FixedParam, 0, len(list))
	for i, item := range list {
		field := fmt.Sprintf("fixed_params[%d]", i)
		name, value, ok := v.pair(strategy, errors.NoRun, field, item)
		if !ok {
			clean = false
			continue
		}
		scalar, err := types.NormalizeScalar(value)
		if err != nil {
			v.add(strategy, errors.NoRun, field, "value of %q: %v", name, err)
			clean = false
			continue
		}
		if seen[name] {
			v.add(strategy, errors.NoRun, field, "duplicate parameter %q", name)
			clean = false
			continue
		}
		seen[name] = true
		params = append(params, types.FixedParam{Name: name, Value: scalar})
	}
	return params, clean
}

func (v *validator) userParams(strategy string, run int, obj map[string]interface{}, fixedNames map[string]bool) ([]types.UserParam, bool) {
	list, ok := v.requiredArray(strategy, run, obj, "user_params")
	if !ok {
		return nil, false
	}

	clean := true
	seen := make(map[string]bool, len(list))
	params := make([]types.UserParam, 0, len(list))
	for i, item := range list {
		field := fmt.Sprintf("user_params[%d]", i)
		name, rawType, ok := v.pair(strategy, run, field, item)
		if !ok {
			clean = false
			continue
		}
		tag, isString := rawType.(string)
		if !isString {
			v.add(strategy, run, field, "type tag of %q must be a string, got %s", name, kindOf(rawType))
			clean = false
			continue
		}
		pt, err := types.ParseParamType(tag)
		if err != nil {
			v.add(strategy, run, field, "%v", err)
			clean = false
			continue
		}
		switch {
		case seen[name]:
			v.add(strategy, run, field, "duplicate parameter %q", name)
			clean = false
			continue
		case fixedNames[name]:
			v.add(strategy, run, field, "parameter %q is already a fixed parameter", name)
			clean = false
			continue
		}
		seen[name] = true
		params = append(params, types.UserParam{Name: name, Type: pt})
	}
	return params, clean
}

// pair checks a two-element [name, value] array with a non-empty name
func (v *validator) pair(strategy string, run int, field string, item interface{}) (string, interface{}, bool) {
	arr, ok := item.([]interface{})
	if !ok || len(arr) != 2 {
		v.add(strategy, run, field, "must be a [name, value] pair")
		return "", nil, false
	}
	name, ok := arr[0].(string)
	if !ok || strings.TrimSpace(name) == "" {
		v.add(strategy, run, field, "parameter name must be a non-empty string")
		return "", nil, false
	}
	return name, arr[1], true
}

func (v *validator) filterTags(strategy string, obj map[string]interface{}, field string) []types.FilterTag {
	list, ok := v.requiredArray(strategy, errors.NoRun, obj, field)
	if !ok {
		return nil
	}

	seen := make(map[types.FilterTag]bool, len(list))
	tags := make([]types.FilterTag, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf("%s[%d]", field, i)
		s, ok := item.(string)
		if !ok {
			v.add(strategy, errors.NoRun, path, "filter tag must be a string, got %s", kindOf(item))
			continue
		}
		tag, err := types.ParseFilterTag(s)
		if err != nil {
			v.add(strategy, errors.NoRun, path, "%v", err)
			continue
		}
		if seen[tag] {
			v.add(strategy, errors.NoRun, path, "duplicate filter tag %q", s)
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func (v *validator) requiredString(strategy string, run int, obj map[string]interface{}, field string) string {
	raw, present := obj[field]
	if !present {
		v.add(strategy, run, field, "required field is missing")
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		v.add(strategy, run, field, "must be a string, got %s", kindOf(raw))
		return ""
	}
	if field != "run_description" && strings.TrimSpace(s) == "" {
		v.add(strategy, run, field, "must not be empty")
	}
	return s
}

func (v *validator) requiredBool(strategy string, run int, obj map[string]interface{}, field string) (bool, bool) {
	raw, present := obj[field]
	if !present {
		v.add(strategy, run, field, "required field is missing")
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		v.add(strategy, run, field, "must be a boolean, got %s", kindOf(raw))
		return false, false
	}
	return b, true
}

func (v *validator) requiredArray(strategy string, run int, obj map[string]interface{}, field string) ([]interface{}, bool) {
	raw, present := obj[field]
	if !present {
		v.add(strategy, run, field, "required field is missing")
		return nil, false
	}
	arr, ok := raw.([]interface{})
	if !ok {
		v.add(strategy, run, field, "must be an array, got %s", kindOf(raw))
		return nil, false
	}
	return arr, true
}

func (v *validator) unknownFields(strategy string, run int, obj map[string]interface{}, known []string) {
	var unknown []string
	for key := range obj {
		if !contains(known, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		v.add(strategy, run, key, "unknown field")
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// asInt accepts the integer representations produced by the JSON and YAML
// decoders. Float literals such as 1.0 are rejected.
func asInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
