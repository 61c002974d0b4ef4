package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/casekanban/internal/board"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

func jane() types.Card {
	return types.Card{
		ID: 1700000000000, Title: "Dr.", Name: "Jane Doe", Age: "30",
		Email: "a@b.com", Phone: "12345678901", Status: types.StatusFirstContact,
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name string
		card types.Card
		want string
	}{
		{name: "title with dot", card: jane(), want: "Dr. Jane Doe  30 yo"},
		{name: "title without dot", card: types.Card{Title: "Mr", Name: "John", Age: "41"}, want: "Mr. John  41 yo"},
		{name: "no title", card: types.Card{Name: "Ann", Age: "7"}, want: "Ann  7 yo"},
		{name: "no age", card: types.Card{Title: "Ms", Name: "Lee"}, want: "Ms. Lee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Heading(tt.card))
		})
	}
}

func TestCardPanel(t *testing.T) {
	view := Card(jane())

	t.Logf("View:\n%s", view)
	for _, want := range []string{"Dr. Jane Doe  30 yo", "a@b.com", "12345678901", "#1700000000000"} {
		assert.Contains(t, view, want)
	}
}

func TestBoardShowsEveryColumn(t *testing.T) {
	cols := board.Columns([]types.Card{jane()})

	view := Board(cols, 160)

	t.Logf("View:\n%s", view)
	assert.Contains(t, view, "Unclaimed (0)")
	assert.Contains(t, view, "First Contact (1)")
	assert.Contains(t, view, "Preparing Work Offer (0)")
	assert.Contains(t, view, "Send to Therapist (0)")
	assert.Contains(t, view, "Jane Doe")
	assert.Contains(t, view, "no cards")
}

func TestBoardWidth(t *testing.T) {
	cols := board.Columns(nil)

	assert.LessOrEqual(t, lipgloss.Width(Board(cols, 160)), 160)
	// Narrow terminals fall back to the minimum column width.
	assert.GreaterOrEqual(t, lipgloss.Width(Board(cols, 40)), 4*minColumnWidth)
	assert.Equal(t, Board(cols, DefaultWidth), Board(cols, 0))
}

func TestBoardEmptyColumns(t *testing.T) {
	assert.Equal(t, "", Board(nil, 80))
}

func TestLine(t *testing.T) {
	got := Line(jane())
	assert.Equal(t, 5, len(strings.Split(got, "\t")))
	assert.True(t, strings.HasPrefix(got, "1700000000000\tFirst Contact\t"))
}
