package board

import "github.com/mesh-intelligence/casekanban/pkg/types"

// The reducers below never modify their input slice. Each returns a fresh
// slice, so a snapshot handed out earlier stays valid.

// Append returns cards with c added at the end.
func Append(cards []types.Card, c types.Card) []types.Card {
	out := make([]types.Card, 0, len(cards)+1)
	out = append(out, cards...)
	return append(out, c)
}

// ReplaceFields returns cards with the five user fields of the card matching
// id replaced by f, in place. ID and Status are kept. Reports whether id was
// found; when it was not, cards is returned unchanged.
func ReplaceFields(cards []types.Card, id int64, f types.Fields) ([]types.Card, bool) {
	i := indexOf(cards, id)
	if i < 0 {
		return cards, false
	}
	out := clone(cards)
	out[i] = out[i].WithFields(f)
	return out, true
}

// SetStatus returns cards with the status of the card matching id replaced.
// Reports whether id was found; when it was not, cards is returned unchanged.
func SetStatus(cards []types.Card, id int64, status types.Status) ([]types.Card, bool) {
	i := indexOf(cards, id)
	if i < 0 {
		return cards, false
	}
	out := clone(cards)
	out[i].Status = status
	return out, true
}

// Remove returns cards without the card matching id. Reports whether id was
// found; when it was not, cards is returned unchanged.
func Remove(cards []types.Card, id int64) ([]types.Card, bool) {
	i := indexOf(cards, id)
	if i < 0 {
		return cards, false
	}
	out := make([]types.Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	return append(out, cards[i+1:]...), true
}

// Find returns the card matching id.
func Find(cards []types.Card, id int64) (types.Card, bool) {
	i := indexOf(cards, id)
	if i < 0 {
		return types.Card{}, false
	}
	return cards[i], true
}

func indexOf(cards []types.Card, id int64) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(cards []types.Card) []types.Card {
	out := make([]types.Card, len(cards))
	copy(out, cards)
	return out
}
