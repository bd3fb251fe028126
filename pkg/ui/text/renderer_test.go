package text_test

import (
	"bytes"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/plan"
	"github.com/covertmark/covertmark/pkg/types"
	"github.com/covertmark/covertmark/pkg/ui/display"
	"github.com/covertmark/covertmark/pkg/ui/text"
)

func render(t *testing.T, v interface{}) string {
	t.Helper()
	var buf bytes.Buffer
	r, err := text.New(&buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(v))
	return buf.String()
}

func TestList(t *testing.T) {
	out := render(t, &display.StrategyList{Strategies: []display.StrategyRow{
		{Name: "entropy_dist", Module: "entropy", Object: "EntropyStrategy", Runs: 2, Bound: true},
		{Name: "SGD", Module: "sdg", Object: "SDGStrategy", Runs: 1, NegativeInput: true},
	}})

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "NAME")
	assert.Contains(t, string(lines[1]), "entropy.EntropyStrategy")
	assert.Contains(t, string(lines[2]), "SGD")
}

func TestPlan(t *testing.T) {
	out := render(t, &display.PlanResult{
		Strategy: "SGD",
		Runs: []plan.RunPlan{{
			RunOrder:    0,
			Description: "Classify",
			PTFilters: []plan.BoundFilter{
				{Address: "10.0.0.1", Prefix: netip.MustParsePrefix("10.0.0.1/32"), Tag: types.FilterIPDestination},
			},
			Params: []plan.Param{{Name: "pt_split", Value: true, Fixed: true}, {Name: "window_size", Value: 20}},
		}},
	})

	assert.Contains(t, out, "Plan for SGD")
	assert.Contains(t, out, "Run 0: Classify")
	assert.Contains(t, out, "pt_split=true, window_size=20")
	assert.NotContains(t, out, "negative filters")
}

func TestValidation(t *testing.T) {
	out := render(t, &display.ValidationReport{Results: []display.ValidationResult{
		{Source: "good.json", Valid: true, Strategies: []string{"a", "b"}},
		{
			Source:   "bad.json",
			Error:    "strategy map bad.json is invalid (1 problem(s))",
			Problems: []errors.Problem{{Strategy: "x", Run: errors.NoRun, Field: "module", Reason: "required field is missing"}},
		},
	}})

	assert.Contains(t, out, "OK    good.json (2 strategies)")
	assert.Contains(t, out, "FAIL  bad.json")
	assert.Contains(t, out, "  - x.module: required field is missing")
}

func TestReload(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "03:04:05  loaded m.json (4 strategies, id abc)",
		text.FormatReload(&display.ReloadEvent{Time: at, Source: "m.json", ID: "abc", Strategies: 4}))
	assert.Contains(t, text.FormatReload(&display.ReloadEvent{Time: at, Source: "m.json", Error: "boom"}),
		"failed, keeping previous map: boom")
}

func TestRenderError(t *testing.T) {
	var list errors.ProblemList
	list.Add("SGD", 1, "user_params", "duplicate parameter %q", "w")
	err := list.Err(errors.ErrConfigInvalid, "strategy map m.json is invalid")

	var buf bytes.Buffer
	r, _ := text.New(&buf)
	require.NoError(t, r.RenderError(err))
	assert.Contains(t, buf.String(), "Error: strategy map m.json is invalid (1 problem(s))")
	assert.Contains(t, buf.String(), `  - SGD.runs[1].user_params: duplicate parameter "w"`)
}
