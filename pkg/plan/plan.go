package plan

import (
	"fmt"
	"net/netip"
	"sort"
	"strings"

	"github.com/covertmark/covertmark/pkg/constraints"
	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/types"
)

// Inputs is what a caller supplies to plan a strategy
type Inputs struct {
	// PTAddresses holds one address or CIDR per pt_filters entry
	PTAddresses []string
	// NegativeAddresses holds one address or CIDR per negative_filters
	// entry, only for strategies with negative input
	NegativeAddresses []string
	// Params holds raw user parameter values keyed by name
	Params map[string]interface{}
}

// BoundFilter is a filter tag applied to a concrete address
type BoundFilter struct {
	Address string          `json:"address" yaml:"address"`
	Prefix  netip.Prefix    `json:"prefix" yaml:"-"`
	Tag     types.FilterTag `json:"tag" yaml:"tag"`
}

func (f BoundFilter) String() string {
	return fmt.Sprintf("%s(%s)", f.Tag, f.Address)
}

// Param is a resolved parameter value passed to a run
type Param struct {
	Name  string      `json:"name" yaml:"name"`
	Value interface{} `json:"value" yaml:"value"`
	Fixed bool        `json:"fixed" yaml:"fixed"`
}

// RunPlan is one run ready to execute
type RunPlan struct {
	Strategy        string        `json:"strategy" yaml:"strategy"`
	Module          string        `json:"module" yaml:"module"`
	Object          string        `json:"object" yaml:"object"`
	RunOrder        int           `json:"run_order" yaml:"run_order"`
	Description     string        `json:"run_description" yaml:"run_description"`
	PTFilters       []BoundFilter `json:"pt_filters" yaml:"pt_filters"`
	NegativeFilters []BoundFilter `json:"negative_filters" yaml:"negative_filters"`
	Params          []Param       `json:"params" yaml:"params"`
}

// ParamMap returns the run's parameters keyed by name
func (r RunPlan) ParamMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Params))
	for _, p := range r.Params {
		out[p.Name] = p.Value
	}
	return out
}

// Plan is every run of one strategy, in run order
type Plan struct {
	Strategy types.StrategyDescriptor `json:"-" yaml:"-"`
	Runs     []RunPlan                `json:"runs" yaml:"runs"`
}

// ParseAddress accepts a single IP address or a CIDR prefix. A bare address
// becomes a full-length prefix.
func ParseAddress(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("invalid address %q", s)
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid address %q", s)
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// Build plans every run of desc. It fails with an errors.ErrPlanInvalid
// error listing every problem when the inputs do not fit the descriptor.
func Build(desc types.StrategyDescriptor, in Inputs) (*Plan, error) {
	b := &builder{desc: desc, in: in}
	return b.build()
}

type builder struct {
	desc     types.StrategyDescriptor
	in       Inputs
	problems errors.ProblemList

	// reported avoids repeating a parameter problem for every run that
	// declares the same parameter
	reported map[string]bool
}

func (b *builder) build() (*Plan, error) {
	b.reported = make(map[string]bool)
	name := b.desc.Name

	ptPrefixes := b.addresses("pt_addresses", b.in.PTAddresses, len(b.desc.PTFilters), "pt filter")

	var negPrefixes []netip.Prefix
	if b.desc.NegativeInput {
		negPrefixes = b.addresses("negative_addresses", b.in.NegativeAddresses, len(b.desc.NegativeFilters), "negative filter")
	} else if len(b.in.NegativeAddresses) > 0 {
		b.problems.Add(name, errors.NoRun, "negative_addresses", "strategy takes no negative input")
	}

	b.unknownParams()

	plan := &Plan{Strategy: b.desc.Clone(), Runs: make([]RunPlan, 0, len(b.desc.Runs))}
	for i, run := range b.desc.Runs {
		rp := RunPlan{
			Strategy:    name,
			Module:      b.desc.Module,
			Object:      b.desc.Object,
			RunOrder:    i,
			Description: run.RunDescription,
		}
		rp.PTFilters = bind(b.in.PTAddresses, ptPrefixes, b.desc.EffectivePTFilters(run))
		rp.NegativeFilters = bind(b.in.NegativeAddresses, negPrefixes, b.desc.EffectiveNegativeFilters(run))

		params, ok := b.params(i, run)
		rp.Params = params
		if ok {
			b.checkConstraints(i, run, rp.ParamMap())
		}
		plan.Runs = append(plan.Runs, rp)
	}

	if err := b.problems.Err(errors.ErrPlanInvalid, "cannot plan strategy "+name); err != nil {
		return nil, err
	}
	return plan, nil
}

func (b *builder) addresses(field string, raw []string, want int, what string) []netip.Prefix {
	if len(raw) != want {
		b.problems.Add(b.desc.Name, errors.NoRun, field, "got %d address(es), want %d (one per %s)", len(raw), want, what)
		return nil
	}
	prefixes := make([]netip.Prefix, len(raw))
	ok := true
	for i, s := range raw {
		p, err := ParseAddress(s)
		if err != nil {
			b.problems.Add(b.desc.Name, errors.NoRun, fmt.Sprintf("%s[%d]", field, i), "%v", err)
			ok = false
			continue
		}
		prefixes[i] = p
	}
	if !ok {
		return nil
	}
	return prefixes
}

func (b *builder) unknownParams() {
	declared := make(map[string]bool)
	for _, n := range b.desc.UserParamNames() {
		declared[n] = true
	}

	var unknown []string
	for n := range b.in.Params {
		if !declared[n] {
			unknown = append(unknown, n)
		}
	}
	sort.Strings(unknown)
	for _, n := range unknown {
		if _, fixed := b.desc.FixedParam(n); fixed {
			b.problems.Add(b.desc.Name, errors.NoRun, "params."+n, "is a fixed parameter and cannot be overridden")
			continue
		}
		b.problems.Add(b.desc.Name, errors.NoRun, "params."+n, "is not declared by any run")
	}
}

func (b *builder) params(index int, run types.RunSpec) ([]Param, bool) {
	params := make([]Param, 0, len(b.desc.FixedParams)+len(run.UserParams))
	for _, p := range b.desc.FixedParams {
		params = append(params, Param{Name: p.Name, Value: p.Value, Fixed: true})
	}

	ok := true
	for _, up := range run.UserParams {
		raw, present := b.in.Params[up.Name]
		if !present {
			b.paramProblem(index, up.Name, "required %s parameter is missing", up.Type)
			ok = false
			continue
		}
		value, err := up.Type.Coerce(raw)
		if err != nil {
			b.paramProblem(index, up.Name, "%v", err)
			ok = false
			continue
		}
		params = append(params, Param{Name: up.Name, Value: value})
	}
	return params, ok
}

func (b *builder) paramProblem(index int, name, format string, args ...interface{}) {
	if b.reported[name] {
		return
	}
	b.reported[name] = true
	b.problems.Add(b.desc.Name, index, "params."+name, format, args...)
}

func (b *builder) checkConstraints(index int, run types.RunSpec, values map[string]interface{}) {
	for i, c := range run.Constraints {
		field := fmt.Sprintf("constraints[%d]", i)
		ok, err := constraints.Eval(c, values)
		switch {
		case err != nil:
			b.problems.Add(b.desc.Name, index, field, "%v", err)
		case !ok:
			b.problems.Add(b.desc.Name, index, field, "%s is not satisfied by %s", c, describe(values))
		}
	}
}

func bind(addresses []string, prefixes []netip.Prefix, tags []types.FilterTag) []BoundFilter {
	if prefixes == nil || len(tags) == 0 {
		return nil
	}
	out := make([]BoundFilter, len(tags))
	for i, tag := range tags {
		out[i] = BoundFilter{Address: strings.TrimSpace(addresses[i]), Prefix: prefixes[i], Tag: tag}
	}
	return out
}

func describe(values map[string]interface{}) string {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%v", n, values[n])
	}
	return strings.Join(parts, ", ")
}
