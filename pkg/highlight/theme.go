package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps style tags to terminal styles. Ranges whose tag is missing are
// rendered unstyled.
type Theme map[Style]lipgloss.Style

// DefaultTheme returns the default theme for a renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }
	return Theme{
		Command:    fg("#1E5AC8").Bold(true),
		Literal:    fg("#1E5AC8"),
		Number:     fg("#2F97C1"),
		Bool:       fg("#2F97C1"),
		Coordinate: fg("#AB81CD"),
		Resource:   fg("#45503B"),
		UUID:       fg("#2F97C1"),
		Enum:       fg("#1E5AC8"),
		String:     r.NewStyle(),
		Quoted:     fg("#A31621"),
		Comment:    fg("#006400").Italic(true),
		Error:      r.NewStyle().Underline(true).Foreground(lipgloss.Color("#FF0000")),
	}
}

// Render returns text with the ranges styled according to the theme. The
// ranges must be ordered and must not overlap, as returned by Format and
// Document. A nil theme renders text as is.
func Render(text string, ranges []Range, theme Theme) string {
	if theme == nil {
		return text
	}
	var sb strings.Builder
	lastTo := 0
	for _, r := range ranges {
		if r.From > lastTo {
			sb.WriteString(text[lastTo:r.From])
		}
		region := text[r.From:r.To]
		if style, ok := theme[r.Style]; ok {
			region = style.Render(region)
		}
		sb.WriteString(region)
		lastTo = r.To
	}
	sb.WriteString(text[lastTo:])
	return sb.String()
}
