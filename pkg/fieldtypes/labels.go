package fieldtypes

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a type tag such as "date_picker" or "multiSelect" into a
// title-cased label ("Date Picker", "Multi Select").
func Humanize(tag string) string {
	words := strings.FieldsFunc(tag, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	segments := make([]string, 0, len(words))
	for _, word := range words {
		segments = append(segments, splitCamel(word)...)
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(segments, " "))
}

func splitCamel(word string) []string {
	var (
		parts   []string
		current []rune
	)
	runes := []rune(word)
	for i, r := range runes {
		if i > 0 && isBoundary(runes[i-1], r) {
			parts = append(parts, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}

func isBoundary(prev, r rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	}
	return false
}
