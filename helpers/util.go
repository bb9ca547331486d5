package helpers

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase lower-cases the text and capitalizes the first letter of each
// word. A Caser is stateful, so one is created per call rather than shared.
func TitleCase(text string) string {
	return cases.Title(language.English).String(strings.ToLower(text))
}

// CompactSpace trims the text and collapses internal whitespace runs to one space
func CompactSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
