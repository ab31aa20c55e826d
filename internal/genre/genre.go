// Package genre normalizes free-form genre strings into canonical slugs so
// catalog filtering and search facets don't splinter across spellings.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Sci-Fi/Fantasy" -> "sci-fi-fantasy".
func Slugify(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)

	// Replace non-alphanumeric with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// aliases maps common variations to their canonical slug. Anything not
// listed here keeps its own slug.
var aliases = map[string]string{
	// Fiction umbrella terms
	"literature":         "fiction",
	"literature-fiction": "fiction",
	"general-fiction":    "fiction",

	// Science fiction variations
	"sci-fi":          "science-fiction",
	"scifi":           "science-fiction",
	"sf":              "science-fiction",
	"science-fantasy": "science-fiction",

	// Fantasy variations
	"high-fantasy": "fantasy",
	"epic-fantasy": "fantasy",

	// Mystery/thriller
	"suspense":         "thriller",
	"mystery-thriller": "mystery",
	"crime":            "mystery",
	"crime-fiction":    "mystery",

	// Young adult
	"ya":          "young-adult",
	"teen":        "young-adult",
	"teen-ya":     "young-adult",
	"young-adult": "young-adult",

	// Romance
	"modern-romance":       "romance",
	"contemporary-romance": "romance",

	// Non-fiction
	"nonfiction":  "non-fiction",
	"non-fiction": "non-fiction",
	"self-help":   "self-help",
	"selfhelp":    "self-help",

	// Historical
	"historical":         "historical-fiction",
	"historical-fiction": "historical-fiction",

	// Memoir
	"memoir":            "biography",
	"biography-memoir":  "biography",
	"autobiography":     "biography",
	"biographies":       "biography",
}

// Canonical returns the canonical slug for a raw genre string. Unknown
// genres pass through slugified; an empty input stays empty.
func Canonical(raw string) string {
	slug := Slugify(raw)
	if slug == "" {
		return ""
	}
	if canonical, ok := aliases[slug]; ok {
		return canonical
	}
	return slug
}
