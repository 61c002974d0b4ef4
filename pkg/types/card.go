package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the board column a card sits in.
type Status string

// Card statuses, one per board column.
const (
	StatusUnclaimed          Status = "Unclaimed"
	StatusFirstContact       Status = "First Contact"
	StatusPreparingWorkOffer Status = "Preparing Work Offer"
	StatusSendToTherapist    Status = "Send to Therapist"
)

// Statuses lists the recognized statuses in column order.
var Statuses = []Status{
	StatusUnclaimed,
	StatusFirstContact,
	StatusPreparingWorkOffer,
	StatusSendToTherapist,
}

// validStatuses is the set of recognized status values.
var validStatuses = map[Status]bool{
	StatusUnclaimed:          true,
	StatusFirstContact:       true,
	StatusPreparingWorkOffer: true,
	StatusSendToTherapist:    true,
}

// Valid reports whether s is one of the four board columns.
func (s Status) Valid() bool {
	return validStatuses[s]
}

// ParseStatus maps user input to a recognized status. Matching ignores case
// and surrounding whitespace. Returns ErrInvalidStatus for anything else.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// StatusNames returns the statuses as a comma-separated list for messages.
func StatusNames() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Age holds a card's age as the form submitted it. Snapshots may carry the
// value as a JSON string or a JSON number; it is always written as a string.
type Age string

// UnmarshalJSON accepts both "30" and 30.
func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Age(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("age must be a string or number: %w", err)
	}
	*a = Age(n.String())
	return nil
}

// Fields are the five user-editable card fields as raw form input.
type Fields struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Age   string `json:"age"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Card is a single case on the board.
type Card struct {
	ID     int64  `json:"id"`     // Issued on creation; unique and increasing.
	Title  string `json:"title"`  // Honorific or case title, e.g. "Dr".
	Name   string `json:"name"`   // Letters and spaces only.
	Age    Age    `json:"age"`    // 1-120 on creation.
	Email  string `json:"email"`  // local@domain.tld shape.
	Phone  string `json:"phone"`  // Exactly 11 digits.
	Status Status `json:"status"` // One of Statuses.
}

// Fields returns the card's user-editable fields.
func (c Card) Fields() Fields {
	return Fields{
		Title: c.Title,
		Name:  c.Name,
		Age:   string(c.Age),
		Email: c.Email,
		Phone: c.Phone,
	}
}

// WithFields returns a copy of the card carrying f. ID and Status are kept.
func (c Card) WithFields(f Fields) Card {
	c.Title = f.Title
	c.Name = f.Name
	c.Age = Age(f.Age)
	c.Email = f.Email
	c.Phone = f.Phone
	return c
}
