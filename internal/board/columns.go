package board

import "github.com/mesh-intelligence/casekanban/pkg/types"

// ColumnView is one board column: its status and the cards in it.
type ColumnView struct {
	Status types.Status `json:"status"`
	Count  int          `json:"count"`
	Cards  []types.Card `json:"cards"`
}

// Column returns the cards whose status equals status, in collection order.
// The result is never nil.
func Column(cards []types.Card, status types.Status) []types.Card {
	out := []types.Card{}
	for _, c := range cards {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// Columns projects cards into all four columns in board order.
func Columns(cards []types.Card) []ColumnView {
	views := make([]ColumnView, len(types.Statuses))
	for i, s := range types.Statuses {
		col := Column(cards, s)
		views[i] = ColumnView{Status: s, Count: len(col), Cards: col}
	}
	return views
}
