package sofifa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/sofifa/internal/extract"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("page structure not recognized")
	// ErrNoData is matched by every *NoDataError.
	ErrNoData = errors.New("no data found")
	// ErrUnknownLeague is matched by every *UnknownLeagueError.
	ErrUnknownLeague = errors.New("unknown league")
	// ErrInvalidVersion is matched by every *InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid version selection")
	// ErrMissingRequiredField is matched by every *MissingRequiredFieldError.
	ErrMissingRequiredField = extract.ErrMissingRequiredField
)

// MissingRequiredFieldError reports a required field that could not be found.
type MissingRequiredFieldError = extract.MissingRequiredFieldError

// ParseError reports a page that no longer matches the markup the parsers
// rely on. It aborts the read instead of producing corrupt rows.
type ParseError struct {
	Page   string // cache key of the offending page
	Entity string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %s", e.Entity, e.Page, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// NoDataError reports a caller filter that matched nothing.
type NoDataError struct {
	Filter string
	Values []string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data found for %s %s in the selected leagues and versions", e.Filter, strings.Join(e.Values, ", "))
}

func (e *NoDataError) Unwrap() error {
	return ErrNoData
}

// UnknownLeagueError reports a requested league that cannot be resolved.
type UnknownLeagueError struct {
	League string
	Reason string
}

func (e *UnknownLeagueError) Error() string {
	return fmt.Sprintf("league %q: %s", e.League, e.Reason)
}

func (e *UnknownLeagueError) Unwrap() error {
	return ErrUnknownLeague
}

// InvalidVersionError reports a version selection that cannot be satisfied.
type InvalidVersionError struct {
	Selector string
	Missing  []int
}

func (e *InvalidVersionError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("invalid versions %q: unknown version ids %v", e.Selector, e.Missing)
	}
	return fmt.Sprintf("invalid versions %q", e.Selector)
}

func (e *InvalidVersionError) Unwrap() error {
	return ErrInvalidVersion
}
