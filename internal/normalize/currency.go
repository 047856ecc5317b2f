// Package normalize turns raw scraped strings into canonical values.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Currency converts a shorthand money amount such as "€1.2M" or "€500K" into
// an integer string ("1200000", "500000"). The result stays a string so that
// values compare equal to previously exported tables.
func Currency(s string) (string, error) {
	digits := nonNumeric.ReplaceAllString(s, "")
	if digits == "" {
		return "", fmt.Errorf("currency %q has no numeric part", s)
	}
	val, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return "", fmt.Errorf("parse currency %q: %w", s, err)
	}

	switch {
	case strings.Contains(s, "M"):
		val *= 1_000_000
	case strings.Contains(s, "K"):
		val *= 1_000
	}
	return strconv.FormatInt(int64(val), 10), nil
}
