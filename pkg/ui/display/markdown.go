package display

import (
	"fmt"
	"strings"

	"github.com/covertmark/covertmark/pkg/types"
)

// Markdown describes a strategy as a markdown document
func (d StrategyDetail) Markdown() string {
	desc := d.Descriptor
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", desc.Name)
	binding := "no implementation registered"
	if d.Bound {
		binding = "implementation registered"
	}
	fmt.Fprintf(&b, "`%s` (%s)\n\n", desc.Key(), binding)

	fmt.Fprintf(&b, "- **PT filters:** %s\n", joinTags(desc.PTFilters))
	fmt.Fprintf(&b, "- **Negative filters:** %s\n", joinTags(desc.NegativeFilters))
	fmt.Fprintf(&b, "- **Negative input:** %t\n\n", desc.NegativeInput)

	if len(desc.FixedParams) > 0 {
		b.WriteString("## Fixed parameters\n\n| Name | Value |\n|---|---|\n")
		for _, p := range desc.FixedParams {
			fmt.Fprintf(&b, "| %s | `%v` |\n", p.Name, p.Value)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Runs\n")
	for _, run := range desc.Runs {
		fmt.Fprintf(&b, "\n### Run %d: %s\n\n", run.RunOrder, run.RunDescription)
		fmt.Fprintf(&b, "- **PT filters:** %s%s\n", joinTags(desc.EffectivePTFilters(run)), reversed(run.PTFiltersReverse))
		if desc.NegativeInput {
			fmt.Fprintf(&b, "- **Negative filters:** %s%s\n", joinTags(desc.EffectiveNegativeFilters(run)), reversed(run.NegativeFiltersReverse))
		}
		if len(run.UserParams) == 0 {
			b.WriteString("- **User parameters:** none\n")
		} else {
			params := make([]string, len(run.UserParams))
			for i, p := range run.UserParams {
				params[i] = fmt.Sprintf("`%s` (%s)", p.Name, p.Type)
			}
			fmt.Fprintf(&b, "- **User parameters:** %s\n", strings.Join(params, ", "))
		}
		for _, c := range run.Constraints {
			fmt.Fprintf(&b, "- **Requires:** `%s`\n", c)
		}
	}
	return b.String()
}

func joinTags(tags []types.FilterTag) string {
	if len(tags) == 0 {
		return "none"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func reversed(r bool) string {
	if r {
		return " (reversed)"
	}
	return ""
}
