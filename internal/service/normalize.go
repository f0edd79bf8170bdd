package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// normalizeTitle trims, collapses inner whitespace and title-cases each word,
// so "  the great   gatsby " is stored as "The Great Gatsby".
func normalizeTitle(s string) string {
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}
