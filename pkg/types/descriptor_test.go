package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func entropyDescriptor() StrategyDescriptor {
	return StrategyDescriptor{
		Name:            "entropy_dist",
		Module:          "entropy_dist",
		Object:          "EntropyStrategy",
		FixedParams:     []FixedParam{},
		PTFilters:       []FilterTag{FilterIPSource, FilterIPDestination},
		NegativeFilters: []FilterTag{FilterIPSource},
		NegativeInput:   true,
		Runs: []RunSpec{
			{
				RunOrder:       0,
				RunDescription: "Client to server",
				UserParams:     []UserParam{{Name: "protocol_min_length", Type: ParamInt}},
			},
			{
				RunOrder:               1,
				RunDescription:         "Server to client",
				PTFiltersReverse:       true,
				NegativeFiltersReverse: true,
				UserParams:             []UserParam{{Name: "protocol_min_length", Type: ParamInt}, {Name: "tag", Type: ParamString}},
				Constraints:            []string{"protocol_min_length >= 0"},
			},
		},
	}
}

func TestDescriptorKey(t *testing.T) {
	assert.Equal(t, "entropy_dist.EntropyStrategy", entropyDescriptor().Key())
}

func TestEffectiveFilters(t *testing.T) {
	d := entropyDescriptor()

	assert.Equal(t, []FilterTag{FilterIPSource, FilterIPDestination}, d.EffectivePTFilters(d.Runs[0]))
	assert.Equal(t, []FilterTag{FilterIPDestination, FilterIPSource}, d.EffectivePTFilters(d.Runs[1]))
	assert.Equal(t, []FilterTag{FilterIPSource}, d.EffectiveNegativeFilters(d.Runs[0]))
	assert.Equal(t, []FilterTag{FilterIPDestination}, d.EffectiveNegativeFilters(d.Runs[1]))

	d.NegativeInput = false
	assert.Nil(t, d.EffectiveNegativeFilters(d.Runs[0]))
}

func TestUserParamNames(t *testing.T) {
	assert.Equal(t, []string{"protocol_min_length", "tag"}, entropyDescriptor().UserParamNames())
}

func TestFixedParamLookup(t *testing.T) {
	d := entropyDescriptor()
	d.FixedParams = []FixedParam{{Name: "test_recall", Value: false}}

	v, ok := d.FixedParam("test_recall")
	assert.True(t, ok)
	assert.Equal(t, false, v)

	_, ok = d.FixedParam("missing")
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	original := entropyDescriptor()
	clone := original.Clone()
	assert.Equal(t, original, clone)

	clone.PTFilters[0] = FilterIPEither
	clone.Runs[1].UserParams[0].Name = "changed"
	clone.Runs[1].Constraints[0] = "true"
	clone.Runs = append(clone.Runs, RunSpec{RunOrder: 2})

	assert.Equal(t, entropyDescriptor(), original, "mutating a clone must not affect the original")
	assert.NotNil(t, clone.FixedParams, "empty slices stay non-nil")
}
