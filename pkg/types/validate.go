package types

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Field names used as FieldErrors keys.
const (
	FieldTitle = "title"
	FieldName  = "name"
	FieldAge   = "age"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// fieldOrder is the order fields appear on the form.
var fieldOrder = []string{FieldTitle, FieldName, FieldAge, FieldEmail, FieldPhone}

// Age bounds on the creation path.
const (
	MinAge = 1
	MaxAge = 120
)

var (
	nameRe   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe  = regexp.MustCompile(`^\d{11}$`)
)

// FieldErrors maps a field name to a human-readable message for every field
// that failed its rule. An absent key means the field is valid.
type FieldErrors map[string]string

// Error lists the failures in form order.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fieldOrder {
		if msg, ok := fe[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return "invalid card: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for field errors.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// Fields returns the failing field names in form order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for _, f := range fieldOrder {
		if _, ok := fe[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// ValidateNew checks fields on the creation path. Age must be a whole number
// between MinAge and MaxAge. Returns nil when every field is valid.
func ValidateNew(f Fields) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.Title) == "" {
		errs[FieldTitle] = "Title is required."
	}

	validateName(f.Name, errs)

	switch {
	case strings.TrimSpace(f.Age) == "":
		errs[FieldAge] = "Age is required."
	case !digitsRe.MatchString(f.Age):
		errs[FieldAge] = "Age must be a valid number."
	default:
		// Digits only, so the only Atoi failure is overflow.
		n, err := strconv.Atoi(f.Age)
		if err != nil || n < MinAge || n > MaxAge {
			errs[FieldAge] = "Age must be between 1 and 120."
		}
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs[FieldEmail] = "Email is required."
	case !emailRe.MatchString(f.Email):
		errs[FieldEmail] = "Email must be a valid email address."
	}

	switch {
	case strings.TrimSpace(f.Phone) == "":
		errs[FieldPhone] = "Phone number is required."
	case !phoneRe.MatchString(f.Phone):
		errs[FieldPhone] = "Phone number must be 11 digits."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateEdit checks fields on the inline edit path. It differs from
// ValidateNew only in the age rule: any positive number passes, with no
// upper bound. Returns nil when every field is valid.
func ValidateEdit(f Fields) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.Title) == "" {
		errs[FieldTitle] = "Title is required."
	}

	validateName(f.Name, errs)

	if !positiveNumber(f.Age) {
		errs[FieldAge] = "Age must be a positive number."
	}

	if strings.TrimSpace(f.Email) == "" || !emailRe.MatchString(f.Email) {
		errs[FieldEmail] = "Please enter a valid email."
	}

	if !phoneRe.MatchString(f.Phone) {
		errs[FieldPhone] = "Phone number must be 11 digits."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateName(name string, errs FieldErrors) {
	switch {
	case strings.TrimSpace(name) == "":
		errs[FieldName] = "Name is required."
	case !nameRe.MatchString(name):
		errs[FieldName] = "Name must contain only letters."
	}
}

// positiveNumber reports whether s, trimmed, parses as a number above zero.
func positiveNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) {
		return false
	}
	return n > 0
}
