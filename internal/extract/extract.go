// Package extract resolves single field values out of parsed HTML documents.
//
// A field is described by an ordered list of strategies. Pages on the source
// site come in several template variants, so the same value may sit inside a
// paragraph on one page and inside a list item on another; strategies are
// tried in priority order and the first one that matches wins.
package extract

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrMissingRequiredField is matched by every *MissingRequiredFieldError.
var ErrMissingRequiredField = errors.New("required field not found")

// MissingRequiredFieldError reports a required field for which no strategy matched.
type MissingRequiredFieldError struct {
	Field  string
	Entity string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("required field %q not found for %s", e.Field, e.Entity)
}

func (e *MissingRequiredFieldError) Unwrap() error {
	return ErrMissingRequiredField
}

// Strategy locates a value below root. ok is false when no node matched.
type Strategy func(root *goquery.Selection) (value string, ok bool)

// Field is a named value with its ordered extraction strategies.
type Field struct {
	Name       string
	Required   bool
	Strategies []Strategy
}

// First runs the strategies in order and returns the value of the first one
// that matches together with its index. index is -1 when nothing matched.
func First(root *goquery.Selection, strategies ...Strategy) (value string, index int, ok bool) {
	for i, strategy := range strategies {
		if v, matched := strategy(root); matched {
			return v, i, true
		}
	}
	return "", -1, false
}

// Extract resolves f below root. A field that no strategy matches is NULL,
// or a *MissingRequiredFieldError naming entity when f is required.
func Extract(root *goquery.Selection, f Field, entity string) (sql.NullString, error) {
	value, _, ok := First(root, f.Strategies...)
	if !ok {
		if f.Required {
			return sql.NullString{}, &MissingRequiredFieldError{Field: f.Name, Entity: entity}
		}
		return sql.NullString{}, nil
	}
	return sql.NullString{String: value, Valid: true}, nil
}

// NullIfEmpty turns blank strings into NULL.
func NullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
