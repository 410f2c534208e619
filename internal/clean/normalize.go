// Package clean implements the per-table cleaning rules: field
// normalization, statistical imputation, and the order delivery metrics.
// Every cleaner is a pure function of its input batch; callers keep
// ownership of their slices and cleaned batches are always fresh copies.
package clean

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UpperTrim strips surrounding whitespace and uppercases, used for state
// codes.
func UpperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// stripMarks removes diacritics: decompose, drop nonspacing marks, recompose.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// StripAccents returns s with combining marks removed ("São Paulo" →
// "Sao Paulo").
func StripAccents(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeCity is the city rule: accent-strip, then uppercase and trim.
func NormalizeCity(s string) string {
	return UpperTrim(StripAccents(s))
}

// CategorySlug is the category rule: lowercase, trim, internal spaces to
// underscores.
func CategorySlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

// timestampLayouts are tried in order. The space-separated layout comes
// first because it is the source data's native format; RFC3339 covers
// values this pipeline wrote itself.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a textual timestamp into an instant. Empty and
// unparseable values yield nil so downstream imputation can handle them;
// parsing never fails with an error.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
