// Package slug produces URL- and filesystem-safe identifiers used for
// archive paths and download filenames.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum     = regexp.MustCompile("[^a-z0-9-]+")
	multiHyphens = regexp.MustCompile("-+")
)

// Generate creates a URL-friendly slug from a string
func Generate(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = transliterate(s)

	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	s = nonAlnum.ReplaceAllString(s, "")
	s = multiHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	// Limit length to 100 characters
	if len(s) > 100 {
		s = s[:100]
		s = strings.TrimRight(s, "-")
	}

	return s
}

// GenerateWithFallback generates a slug, falling back to a default if the input produces an empty slug
func GenerateWithFallback(s, fallback string) string {
	slug := Generate(s)
	if slug == "" {
		return Generate(fallback)
	}
	return slug
}

// FromURL generates a slug from a page URL: scheme stripped, host and path
// joined. "https://example.com/docs/start" becomes "example-com-docs-start".
func FromURL(url string) string {
	s := url
	if idx := strings.Index(s, "://"); idx != -1 {
		s = s[idx+3:]
	}
	if idx := strings.IndexAny(s, "?#"); idx != -1 {
		s = s[:idx]
	}
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return Generate(s)
}

// Filename sanitizes a caller-supplied download filename, preserving a
// trailing .txt extension and falling back to the default when the input
// reduces to nothing.
func Filename(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}

	base := name
	ext := ""
	if strings.HasSuffix(strings.ToLower(name), ".txt") {
		base = name[:len(name)-len(".txt")]
		ext = ".txt"
	}

	s := Generate(base)
	if s == "" {
		return fallback
	}
	if ext == "" {
		ext = ".txt"
	}
	return s + ext
}

// transliterate converts unicode characters to ASCII equivalents
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// isMn checks if a rune is a nonspacing mark (accents, diacritics)
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
