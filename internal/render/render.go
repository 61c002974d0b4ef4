// Package render draws the board for a terminal using lipgloss.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/casekanban/internal/board"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 120

// minColumnWidth keeps a card panel readable on narrow terminals.
const minColumnWidth = 26

var (
	headerColor = lipgloss.Color("#101F38")
	accentColor = lipgloss.Color("#8BC34A")
	mutedColor  = lipgloss.Color("#6b7280")
	borderColor = lipgloss.Color("#dce0e5")
)

// Styles holds the lipgloss styles used for the board.
type Styles struct {
	Header lipgloss.Style
	Panel  lipgloss.Style
	Name   lipgloss.Style
	Muted  lipgloss.Style
	Empty  lipgloss.Style
}

// DefaultStyles returns the standard board styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(headerColor).Background(accentColor).Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1),
		Name:  lipgloss.NewStyle().Bold(true),
		Muted: lipgloss.NewStyle().Foreground(mutedColor),
		Empty: lipgloss.NewStyle().Foreground(mutedColor).Italic(true).Padding(0, 1),
	}
}

// Board draws columns side by side within width. A width of zero or less
// means DefaultWidth.
func Board(columns []board.ColumnView, width int) string {
	return DefaultStyles().Board(columns, width)
}

// Card draws a single card panel.
func Card(c types.Card) string {
	return DefaultStyles().Card(c, 0)
}

// Board draws columns side by side using s.
func (s Styles) Board(columns []board.ColumnView, width int) string {
	if len(columns) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	colWidth := width/len(columns) - 1
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}

	rendered := make([]string, 0, len(columns)*2)
	for i, col := range columns {
		if i > 0 {
			rendered = append(rendered, " ")
		}
		rendered = append(rendered, s.column(col, colWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (s Styles) column(col board.ColumnView, width int) string {
	parts := []string{
		s.Header.Width(width).Render(fmt.Sprintf("%s (%d)", col.Status, col.Count)),
	}
	if len(col.Cards) == 0 {
		parts = append(parts, s.Empty.Width(width).Render("no cards"))
	}
	for _, c := range col.Cards {
		parts = append(parts, s.Card(c, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Card draws one card panel. A width of zero or less lets the panel size to
// its content.
func (s Styles) Card(c types.Card, width int) string {
	lines := []string{
		s.Name.Render(Heading(c)),
		c.Email,
		c.Phone,
		s.Muted.Render(fmt.Sprintf("#%d", c.ID)),
	}
	panel := s.Panel
	if width > 0 {
		// Width covers padding but not the border.
		panel = panel.Width(width - 2)
	}
	return panel.Render(strings.Join(lines, "\n"))
}

// Heading is the first line of a card: "Title. Name  Age yo".
func Heading(c types.Card) string {
	title := strings.TrimSuffix(strings.TrimSpace(c.Title), ".")
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString(". ")
	}
	b.WriteString(c.Name)
	if c.Age != "" {
		b.WriteString("  ")
		b.WriteString(string(c.Age))
		b.WriteString(" yo")
	}
	return b.String()
}

// Line is a one-line plain summary of a card for list output.
func Line(c types.Card) string {
	return fmt.Sprintf("%d\t%s\t%s\t%s\t%s", c.ID, c.Status, Heading(c), c.Email, c.Phone)
}
