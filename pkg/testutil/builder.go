package testutil

import (
	"bytes"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/require"
)

// RunFixture describes one run of a strategy fixture. Order defaults to the
// run's position; set it to produce out-of-sequence runs.
type RunFixture struct {
	Description string
	Reverse     bool
	UserParams  [][2]string
	Constraints []string
	Order       *int
}

// StrategyBuilder assembles one strategy entry
type StrategyBuilder struct {
	module        string
	object        string
	fixed         [][]interface{}
	ptFilters     []string
	negFilters    []string
	negativeInput bool
	runs          []RunFixture
}

// Strategy starts a strategy implemented by module.object
func Strategy(module, object string) *StrategyBuilder {
	return &StrategyBuilder{
		module:     module,
		object:     object,
		fixed:      [][]interface{}{},
		ptFilters:  []string{},
		negFilters: []string{},
	}
}

// Fixed adds a fixed parameter
func (b *StrategyBuilder) Fixed(name string, value interface{}) *StrategyBuilder {
	b.fixed = append(b.fixed, []interface{}{name, value})
	return b
}

// PT sets the positive-trace filter tags
func (b *StrategyBuilder) PT(tags ...string) *StrategyBuilder {
	b.ptFilters = append([]string{}, tags...)
	return b
}

// Negative sets the negative filter tags and marks the strategy as taking
// negative input
func (b *StrategyBuilder) Negative(tags ...string) *StrategyBuilder {
	b.negFilters = append([]string{}, tags...)
	b.negativeInput = true
	return b
}

// NegativeInput overrides the negative_input flag
func (b *StrategyBuilder) NegativeInput(v bool) *StrategyBuilder {
	b.negativeInput = v
	return b
}

// Run appends a run
func (b *StrategyBuilder) Run(r RunFixture) *StrategyBuilder {
	b.runs = append(b.runs, r)
	return b
}

// Value returns the strategy as a generic JSON value
func (b *StrategyBuilder) Value() map[string]interface{} {
	runs := make([]interface{}, 0, len(b.runs))
	for i, r := range b.runs {
		order := i
		if r.Order != nil {
			order = *r.Order
		}
		params := make([]interface{}, 0, len(r.UserParams))
		for _, p := range r.UserParams {
			params = append(params, []interface{}{p[0], p[1]})
		}
		run := map[string]interface{}{
			"run_order":                order,
			"run_description":          r.Description,
			"pt_filters_reverse":       r.Reverse,
			"negative_filters_reverse": r.Reverse,
			"user_params":              params,
		}
		if len(r.Constraints) > 0 {
			run["constraints"] = r.Constraints
		}
		runs = append(runs, run)
	}

	return map[string]interface{}{
		"module":           b.module,
		"object":           b.object,
		"fixed_params":     b.fixed,
		"pt_filters":       b.ptFilters,
		"negative_filters": b.negFilters,
		"negative_input":   b.negativeInput,
		"runs":             runs,
	}
}

// MapBuilder assembles a strategy map, keeping strategies in the order added
type MapBuilder struct {
	names  []string
	values []interface{}
}

// NewMap starts an empty strategy map
func NewMap() *MapBuilder {
	return &MapBuilder{}
}

// Add appends a strategy under name. Adding a name twice produces a
// document with a duplicate key.
func (m *MapBuilder) Add(name string, s *StrategyBuilder) *MapBuilder {
	return m.AddRaw(name, s.Value())
}

// AddRaw appends an arbitrary value under name
func (m *MapBuilder) AddRaw(name string, value interface{}) *MapBuilder {
	m.names = append(m.names, name)
	m.values = append(m.values, value)
	return m
}

// JSON encodes the map
func (m *MapBuilder) JSON(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.AllowDuplicateNames(true), jsontext.Multiline(true))
	require.NoError(t, enc.WriteToken(jsontext.BeginObject))
	for i, name := range m.names {
		require.NoError(t, enc.WriteToken(jsontext.String(name)))
		raw, err := json.Marshal(m.values[i], json.Deterministic(true))
		require.NoError(t, err)
		require.NoError(t, enc.WriteValue(raw))
	}
	require.NoError(t, enc.WriteToken(jsontext.EndObject))
	return buf.Bytes()
}

// IntPtr returns a pointer to v, for RunFixture.Order
func IntPtr(v int) *int { return &v }
