package normalize

import (
	"regexp"
	"strings"
)

var (
	camelWord   = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	doubleUpper = regexp.MustCompile(`__([A-Z])`)
	lowerUpper  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ColumnName standardizes a display label into a column name.
// Word boundaries inside CamelCase become underscores, dashes become
// underscores and spaces are dropped:
//
//	"Overall rating" -> "overallrating"
//	"FK Accuracy"    -> "fk_accuracy"
//	"GK Diving"      -> "gk_diving"
func ColumnName(label string) string {
	name := camelWord.ReplaceAllString(label, "${1}_${2}")
	name = doubleUpper.ReplaceAllString(name, "_${1}")
	name = lowerUpper.ReplaceAllString(name, "${1}_${2}")
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ReplaceAll(name, " ", "")
}
