package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/types"
)

func sgd() types.StrategyDescriptor {
	return types.StrategyDescriptor{
		Name:            "SGD",
		Module:          "sdg",
		Object:          "SDGStrategy",
		FixedParams:     []types.FixedParam{{Name: "pt_split", Value: true}},
		PTFilters:       []types.FilterTag{types.FilterIPSource},
		NegativeFilters: []types.FilterTag{types.FilterIPEither},
		NegativeInput:   true,
		Runs: []types.RunSpec{{
			RunOrder:         0,
			RunDescription:   "Classify",
			PTFiltersReverse: true,
			UserParams:       []types.UserParam{{Name: "window_size", Type: types.ParamInt}},
			Constraints:      []string{"window_size >= 10"},
		}},
	}
}

func TestStrategyDetailMarkdown(t *testing.T) {
	md := StrategyDetail{Descriptor: sgd(), Bound: false}.Markdown()

	assert.Contains(t, md, "# SGD\n")
	assert.Contains(t, md, "`sdg.SDGStrategy` (no implementation registered)")
	assert.Contains(t, md, "| pt_split | `true` |")
	assert.Contains(t, md, "### Run 0: Classify")
	assert.Contains(t, md, "- **PT filters:** IP_DST (reversed)")
	assert.Contains(t, md, "- **Negative filters:** IP_EITHER\n")
	assert.Contains(t, md, "`window_size` (int)")
	assert.Contains(t, md, "- **Requires:** `window_size >= 10`")
}

func TestMarkdownWithoutNegativeInput(t *testing.T) {
	d := sgd()
	d.NegativeInput = false
	d.FixedParams = nil
	d.Runs[0].UserParams = nil

	md := StrategyDetail{Descriptor: d, Bound: true}.Markdown()
	assert.Contains(t, md, "(implementation registered)")
	assert.NotContains(t, md, "## Fixed parameters")
	assert.NotContains(t, md, "- **Negative filters:** IP_EITHER\n- **User")
	assert.Contains(t, md, "- **User parameters:** none")
}

func TestValidationReportFailed(t *testing.T) {
	r := &ValidationReport{Results: []ValidationResult{{Valid: true}}}
	assert.False(t, r.Failed())

	r.Results = append(r.Results, ValidationResult{Valid: false})
	assert.True(t, r.Failed())
}

func TestNewErrorResult(t *testing.T) {
	var problems errors.ProblemList
	problems.Add("SGD", 0, "user_params[0]", "unknown type tag %q", "float")
	err := problems.Err(errors.ErrConfigInvalid, "strategy map is invalid")

	res := NewErrorResult(err)
	assert.Equal(t, errors.ErrConfigInvalid, res.Code)
	assert.Equal(t, "strategy map is invalid (1 problem(s))", res.Message)
	assert.Len(t, res.Problems, 1)

	wrapped := errors.Wrap(assert.AnError, errors.ErrFileAccess, "cannot read map")
	res = NewErrorResult(wrapped)
	assert.Equal(t, errors.ErrFileAccess, res.Code)
	assert.Equal(t, "cannot read map: "+assert.AnError.Error(), res.Message)
}
