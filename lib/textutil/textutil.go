package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// the punctuation the registry's search engine ignores. queries and
// candidate names are stripped of these before building urls or scoring.
var symbolRegex = regexp.MustCompile(`[-,.&%$?!@#"/()']`)

func RemoveSymbols(s string) string {
	return symbolRegex.ReplaceAllString(s, "")
}

// NormalizeForMatch prepares a string for fuzzy comparison: symbols
// stripped, lowercased, inner whitespace collapsed.
func NormalizeForMatch(s string) string {
	s = RemoveSymbols(strings.ToLower(s))
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// Slugify turns a company name into a filesystem-safe folder name.
func Slugify(name string) string {
	name = RemoveSymbols(strings.ToLower(strings.Trim(name, " \n\t")))
	name = whitespaceRegex.ReplaceAllString(name, "_")
	return name
}
