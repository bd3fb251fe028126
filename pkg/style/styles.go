// Package style holds the lipgloss styles used for terminal output
package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/covertmark/covertmark/pkg/types"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)

	HeaderCellStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// Status indicators
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	UnboundIndicator = MutedStyle.Render("○")
)

var filterStyles = map[types.FilterTag]lipgloss.Style{
	types.FilterIPSource:      lipgloss.NewStyle().Foreground(SourceColor).Bold(true),
	types.FilterIPDestination: lipgloss.NewStyle().Foreground(DestinationColor).Bold(true),
	types.FilterIPEither:      lipgloss.NewStyle().Foreground(EitherColor).Bold(true),
}

// FilterTag renders a tag in its role color
func FilterTag(tag types.FilterTag) string {
	if s, ok := filterStyles[tag]; ok {
		return s.Render(tag.String())
	}
	return tag.String()
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
