package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reviews-cli/internal/reviews"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Username   lipgloss.Style
	Rating     lipgloss.Style
	Body       lipgloss.Style
	Created    lipgloss.Style
	ShowMore   lipgloss.Style
	Count      lipgloss.Style
	Selection  lipgloss.Style
	Separator  lipgloss.Style
	Thumbnail  lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	Spinner    lipgloss.Style
	ActiveLine lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpBlue := lipgloss.Color("#89b4fa")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface1 := lipgloss.Color("#45475a")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Username:   lipgloss.NewStyle().Bold(true).Foreground(cpText),
		Rating:     lipgloss.NewStyle().Foreground(cpYellow),
		Body:       lipgloss.NewStyle().Foreground(cpSubtext1),
		Created:    lipgloss.NewStyle().Foreground(cpOverlay1),
		ShowMore:   lipgloss.NewStyle().Foreground(cpBlue).Underline(true),
		Count:      lipgloss.NewStyle().Foreground(cpSubtext0).Italic(true),
		Selection:  lipgloss.NewStyle().Foreground(cpMauve),
		Separator:  lipgloss.NewStyle().Foreground(cpSurface1),
		Thumbnail:  lipgloss.NewStyle().Foreground(cpOverlay1).Background(cpSurface0),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),
		Spinner:    lipgloss.NewStyle().Foreground(cpTeal),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
	}
}

// RowStyles are the text styles review rows are built with.
func (t Theme) RowStyles() reviews.Styles {
	return reviews.Styles{
		Username: t.Username,
		Rating:   t.Rating,
		Body:     t.Body,
		Created:  t.Created,
		Count:    t.Count,
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
