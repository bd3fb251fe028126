package testutil

import (
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBuilderKeepsOrder(t *testing.T) {
	data := NewMap().
		Add("zeta", Strategy("m", "Z").PT("IP_SRC").Run(RunFixture{Description: "only"})).
		Add("alpha", Strategy("m", "A").PT("IP_DST").Run(RunFixture{})).
		JSON(t)

	zeta := strings.Index(string(data), `"zeta"`)
	alpha := strings.Index(string(data), `"alpha"`)
	require.True(t, zeta >= 0 && alpha >= 0)
	assert.Less(t, zeta, alpha)

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Z", decoded["zeta"]["object"])
	assert.Equal(t, false, decoded["alpha"]["negative_input"])
}

func TestMapBuilderDuplicateNames(t *testing.T) {
	data := NewMap().
		Add("s", Strategy("m", "o")).
		Add("s", Strategy("m", "o")).
		JSON(t)
	assert.Equal(t, 2, strings.Count(string(data), `"s"`))
}

func TestStrategyBuilderValue(t *testing.T) {
	v := Strategy("sdg", "SDGStrategy").
		Fixed("pt_split", true).
		PT("IP_EITHER").
		Negative("IP_EITHER").
		Run(RunFixture{
			Description: "classify",
			UserParams:  [][2]string{{"window_size", "int"}},
			Constraints: []string{"window_size >= 10"},
		}).
		Run(RunFixture{Reverse: true, Order: IntPtr(5)}).
		Value()

	assert.Equal(t, true, v["negative_input"])
	assert.Equal(t, [][]interface{}{{"pt_split", true}}, v["fixed_params"])

	runs := v["runs"].([]interface{})
	require.Len(t, runs, 2)
	first := runs[0].(map[string]interface{})
	assert.Equal(t, 0, first["run_order"])
	assert.Equal(t, []string{"window_size >= 10"}, first["constraints"])
	second := runs[1].(map[string]interface{})
	assert.Equal(t, 5, second["run_order"])
	assert.Equal(t, true, second["pt_filters_reverse"])
	assert.NotContains(t, second, "constraints")
}
