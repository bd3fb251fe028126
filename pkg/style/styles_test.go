package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covertmark/covertmark/pkg/types"
)

func TestFilterTagKeepsText(t *testing.T) {
	for _, tag := range types.FilterTags {
		assert.Contains(t, FilterTag(tag), tag.String())
	}
	assert.Equal(t, "IP_BOGUS", FilterTag(types.FilterTag("IP_BOGUS")))
}

func TestIndicators(t *testing.T) {
	assert.Contains(t, SuccessIndicator, "✓")
	assert.Contains(t, ErrorIndicator, "✗")
	assert.Contains(t, Bold("strategy"), "strategy")
}
