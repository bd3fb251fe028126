// Package text provides plain text output without styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/plan"
	"github.com/covertmark/covertmark/pkg/ui/display"
)

// Renderer writes plain text
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.StrategyList:
		return r.list(v)
	case *display.StrategyDetail:
		_, err := io.WriteString(r.output, v.Markdown())
		return err
	case *display.ValidationReport:
		return r.validation(v)
	case *display.PlanResult:
		_, err := io.WriteString(r.output, FormatPlan(v))
		return err
	case *display.ReloadEvent:
		_, err := fmt.Fprintln(r.output, FormatReload(v))
		return err
	default:
		_, err := fmt.Fprintf(r.output, "%v\n", v)
		return err
	}
}

// RenderError renders an error with its problems, one per line
func (r *Renderer) RenderError(err error) error {
	if _, werr := fmt.Fprintf(r.output, "Error: %s\n", display.NewErrorResult(err).Message); werr != nil {
		return werr
	}
	for _, p := range errors.Problems(err) {
		if _, werr := fmt.Fprintf(r.output, "  - %s\n", p); werr != nil {
			return werr
		}
	}
	return nil
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) list(v *display.StrategyList) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tIMPLEMENTATION\tRUNS\tNEGATIVE INPUT\tBOUND")
	for _, s := range v.Strategies {
		fmt.Fprintf(tw, "%s\t%s.%s\t%d\t%s\t%s\n", s.Name, s.Module, s.Object, s.Runs, yesNo(s.NegativeInput), yesNo(s.Bound))
	}
	return tw.Flush()
}

func (r *Renderer) validation(v *display.ValidationReport) error {
	for _, res := range v.Results {
		if _, err := io.WriteString(r.output, FormatValidation(res)); err != nil {
			return err
		}
	}
	return nil
}

// FormatValidation renders one validation result
func FormatValidation(res display.ValidationResult) string {
	var b strings.Builder
	if res.Valid {
		fmt.Fprintf(&b, "OK    %s (%d strategies)\n", res.Source, len(res.Strategies))
	} else {
		fmt.Fprintf(&b, "FAIL  %s: %s\n", res.Source, res.Error)
	}
	for _, p := range res.Problems {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "  ! %s\n", w)
	}
	return b.String()
}

// FormatPlan renders every planned run
func FormatPlan(v *display.PlanResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan for %s\n", v.Strategy)
	for _, run := range v.Runs {
		fmt.Fprintf(&b, "\nRun %d: %s\n", run.RunOrder, run.Description)
		fmt.Fprintf(&b, "  pt filters:       %s\n", formatFilters(run.PTFilters))
		if run.NegativeFilters != nil {
			fmt.Fprintf(&b, "  negative filters: %s\n", formatFilters(run.NegativeFilters))
		}
		fmt.Fprintf(&b, "  params:           %s\n", formatParams(run.Params))
	}
	return b.String()
}

// FormatReload renders one reload event
func FormatReload(v *display.ReloadEvent) string {
	ts := v.Time.Format("15:04:05")
	if v.Error != "" {
		return fmt.Sprintf("%s  reload of %s failed, keeping previous map: %s", ts, v.Source, v.Error)
	}
	return fmt.Sprintf("%s  loaded %s (%d strategies, id %s)", ts, v.Source, v.Strategies, v.ID)
}

func formatFilters(filters []plan.BoundFilter) string {
	if len(filters) == 0 {
		return "none"
	}
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

func formatParams(params []plan.Param) string {
	if len(params) == 0 {
		return "none"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s=%v", p.Name, p.Value)
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
