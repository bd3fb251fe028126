// Package terminal provides rich terminal output using lipgloss and glamour
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/plan"
	"github.com/covertmark/covertmark/pkg/style"
	"github.com/covertmark/covertmark/pkg/ui/display"
)

// Renderer provides rich terminal output with colors and formatting
type Renderer struct {
	output   io.Writer
	markdown *MarkdownRenderer
}

// New creates a new terminal renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{
		output:   output,
		markdown: NewMarkdownRenderer(),
	}, nil
}

// RenderResult renders any result type with styling
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.StrategyList:
		return r.write(r.list(v))
	case *display.StrategyDetail:
		return r.write(r.markdown.Render(v.Markdown()))
	case *display.ValidationReport:
		return r.write(r.validation(v))
	case *display.PlanResult:
		return r.write(r.plan(v))
	case *display.ReloadEvent:
		return r.write(r.reload(v) + "\n")
	default:
		return r.write(fmt.Sprintf("%v\n", v))
	}
}

// RenderError renders an error with its problems
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	res := display.NewErrorResult(err)
	fmt.Fprintf(&b, "%s %s %s\n", style.ErrorIndicator, style.ErrorStyle.Render("Error:"), res.Message)
	for _, p := range errors.Problems(err) {
		fmt.Fprintf(&b, "  %s %s\n", style.PathStyle.Render(p.Path()+":"), p.Reason)
	}
	return r.write(b.String())
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.write(msg + "\n")
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.output, s)
	return err
}

func (r *Renderer) list(v *display.StrategyList) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(style.BorderColor)).
		Headers("", "Strategy", "Implementation", "Runs", "Negative input").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return style.HeaderCellStyle
			}
			return style.CellStyle
		})
	for _, s := range v.Strategies {
		indicator := style.SuccessIndicator
		if !s.Bound {
			indicator = style.UnboundIndicator
		}
		negative := style.MutedStyle.Render("no")
		if s.NegativeInput {
			negative = "yes"
		}
		t.Row(indicator, style.Bold(s.Name), style.CodeStyle.Render(s.Module+"."+s.Object), fmt.Sprint(s.Runs), negative)
	}
	return fmt.Sprintf("%s %s\n%s\n", style.TitleStyle.Render("Strategies from"), style.PathStyle.Render(v.Source), t.Render())
}

func (r *Renderer) validation(v *display.ValidationReport) string {
	var b strings.Builder
	for _, res := range v.Results {
		if res.Valid {
			fmt.Fprintf(&b, "%s %s %s\n", style.SuccessIndicator, style.PathStyle.Render(res.Source),
				style.MutedStyle.Render(fmt.Sprintf("(%d strategies)", len(res.Strategies))))
		} else {
			fmt.Fprintf(&b, "%s %s %s\n", style.ErrorIndicator, style.PathStyle.Render(res.Source), res.Error)
		}
		for _, p := range res.Problems {
			fmt.Fprintf(&b, "    %s %s\n", style.ErrorStyle.Render(p.Path()+":"), p.Reason)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "    %s %s %s\n", style.WarningIndicator, style.WarningStyle.Render(w.Path()+":"), w.Reason)
		}
	}
	return b.String()
}

func (r *Renderer) plan(v *display.PlanResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", style.TitleStyle.Render("Plan for"), style.Bold(v.Strategy))
	for _, run := range v.Runs {
		fmt.Fprintf(&b, "\n%s %s\n", style.TitleStyle.Render(fmt.Sprintf("Run %d", run.RunOrder)), run.Description)
		fmt.Fprintf(&b, "  %s %s\n", style.MutedStyle.Render("pt:      "), filters(run.PTFilters))
		if run.NegativeFilters != nil {
			fmt.Fprintf(&b, "  %s %s\n", style.MutedStyle.Render("negative:"), filters(run.NegativeFilters))
		}
		fmt.Fprintf(&b, "  %s %s\n", style.MutedStyle.Render("params:  "), params(run.Params))
	}
	return b.String()
}

func (r *Renderer) reload(v *display.ReloadEvent) string {
	ts := style.MutedStyle.Render(v.Time.Format("15:04:05"))
	if v.Error != "" {
		return fmt.Sprintf("%s %s %s %s", ts, style.ErrorIndicator, style.PathStyle.Render(v.Source), v.Error)
	}
	return fmt.Sprintf("%s %s %s %s", ts, style.SuccessIndicator, style.PathStyle.Render(v.Source),
		style.MutedStyle.Render(fmt.Sprintf("%d strategies, id %s", v.Strategies, v.ID)))
}

func filters(fs []plan.BoundFilter) string {
	if len(fs) == 0 {
		return style.MutedStyle.Render("none")
	}
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = fmt.Sprintf("%s %s", style.FilterTag(f.Tag), style.CodeStyle.Render(f.Address))
	}
	return strings.Join(parts, ", ")
}

func params(ps []plan.Param) string {
	if len(ps) == 0 {
		return style.MutedStyle.Render("none")
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		name := p.Name
		if p.Fixed {
			name = style.MutedStyle.Render(name)
		}
		parts[i] = fmt.Sprintf("%s=%s", name, style.CodeStyle.Render(fmt.Sprint(p.Value)))
	}
	return strings.Join(parts, " ")
}
