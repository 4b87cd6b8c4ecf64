package schema

import (
	"sort"
	"strings"
)

// DefaultLocale is used when a caller does not request a specific locale and
// as the first fallback when a translation is missing.
const DefaultLocale = "en"

// LocalizedText maps locale codes (en, fr, es-MX, ...) to text.
type LocalizedText map[string]string

// Text returns a LocalizedText holding value under DefaultLocale.
func Text(value string) LocalizedText {
	return LocalizedText{DefaultLocale: value}
}

// Get resolves the text for locale, falling back to DefaultLocale and then to
// the first non-empty value in locale order.
func (t LocalizedText) Get(locale string) string {
	if len(t) == 0 {
		return ""
	}
	if value := strings.TrimSpace(t[locale]); value != "" {
		return t[locale]
	}
	if value := strings.TrimSpace(t[DefaultLocale]); value != "" {
		return t[DefaultLocale]
	}
	for _, key := range t.Locales() {
		if strings.TrimSpace(t[key]) != "" {
			return t[key]
		}
	}
	return ""
}

// String returns the DefaultLocale resolution.
func (t LocalizedText) String() string {
	return t.Get(DefaultLocale)
}

// Locales returns the locale keys in sorted order.
func (t LocalizedText) Locales() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsBlank reports whether every translation is empty or whitespace.
func (t LocalizedText) IsBlank() bool {
	for _, value := range t {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// WithSuffix returns a copy where every translation has suffix appended,
// separated by a single space. Blank text yields the suffix under
// DefaultLocale.
func (t LocalizedText) WithSuffix(suffix string) LocalizedText {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return t.Clone()
	}
	if t.IsBlank() {
		return Text(suffix)
	}
	out := make(LocalizedText, len(t))
	for locale, value := range t {
		if strings.TrimSpace(value) == "" {
			out[locale] = value
			continue
		}
		out[locale] = value + " " + suffix
	}
	return out
}

// Clone returns a detached copy, preserving nil.
func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for locale, value := range t {
		out[locale] = value
	}
	return out
}
