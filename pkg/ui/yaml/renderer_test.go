package yaml_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/ui/display"
	uiyaml "github.com/covertmark/covertmark/pkg/ui/yaml"
)

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	r, err := uiyaml.New(&buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(&display.ValidationReport{Results: []display.ValidationResult{
		{Source: "a.yaml", Valid: true, Strategies: []string{"SGD"}},
	}}))

	var got map[string][]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got["results"], 1)
	assert.Equal(t, "a.yaml", got["results"][0]["source"])
	assert.Equal(t, true, got["results"][0]["valid"])
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	r, _ := uiyaml.New(&buf)
	require.NoError(t, r.RenderError(errors.New(errors.ErrStrategyUnbound, "no implementation")))

	assert.Contains(t, buf.String(), "code: STRATEGY_UNBOUND")
	assert.Contains(t, buf.String(), "message: no implementation")
}
