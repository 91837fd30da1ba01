package users

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	minTextLen = 2
	maxTextLen = 49
	minAge     = 1
	maxAge     = 149
	minRating  = 0
	maxRating  = 10
)

var datePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)

// ValidationError reports the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks every present field of p and returns a *ValidationError for
// the first violation found. Absent fields are not checked.
func (p *Patch) Validate() error {
	if p.ID != nil && *p.ID < 1 {
		return &ValidationError{Field: "id", Reason: "must be positive"}
	}
	if p.Name != nil {
		if err := checkText("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Age != nil {
		if err := checkRange("age", *p.Age, minAge, maxAge); err != nil {
			return err
		}
	}
	if p.City != nil {
		if err := checkText("city", *p.City); err != nil {
			return err
		}
	}
	if p.Date != nil {
		if err := checkDate(*p.Date); err != nil {
			return err
		}
	}
	if p.Rating != nil {
		if err := checkRange("rating", *p.Rating, minRating, maxRating); err != nil {
			return err
		}
	}
	return nil
}

// checkText enforces the length bounds in characters, not bytes.
func checkText(field, v string) error {
	if n := utf8.RuneCountInString(v); n < minTextLen || n > maxTextLen {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("length must be between %d and %d characters", minTextLen, maxTextLen)}
	}
	if strings.IndexFunc(v, unicode.IsControl) >= 0 {
		return &ValidationError{Field: field, Reason: "must not contain control characters"}
	}
	return nil
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return nil
}

func checkDate(v string) error {
	if !datePattern.MatchString(v) {
		return &ValidationError{Field: "date", Reason: "must be formatted as YYYY-MM-DD"}
	}
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return &ValidationError{Field: "date", Reason: "not a calendar date"}
	}
	return nil
}
