// Package slugx produces and parses the short, URL-safe identifiers
// ("slugs") that route delivery traffic to an owning user. Slugs are
// lowercase, restricted to [a-z0-9-], and capped at 40 characters.
package slugx

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	// MaxLen is the hard cap on slug length.
	MaxLen = 40

	// MinLen is the minimum length accepted when parsing references.
	MinLen = 3

	// SuffixLen is the number of random hex characters appended to
	// disambiguate generated slugs.
	SuffixLen = 4

	// DefaultBase is used when neither a hint nor a handle yields a
	// usable base.
	DefaultBase = "user"
)

var (
	invalidRunes   = regexp.MustCompile(`[^a-z0-9\-]+`)
	repeatedDashes = regexp.MustCompile(`-{2,}`)
)

// Normalize lowercases s, replaces every run of disallowed characters with a
// single dash, collapses repeated dashes, trims leading/trailing dashes and
// caps the result at MaxLen. Returns "" when nothing usable remains.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = invalidRunes.ReplaceAllString(s, "-")
	s = repeatedDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLen {
		s = strings.Trim(s[:MaxLen], "-")
	}
	return s
}

// Generate builds a slug from base (normalized, falling back to DefaultBase)
// with a random SuffixLen-character hex tail. The tail keeps independently
// generated slugs from colliding on popular bases.
func Generate(base string) string {
	b := Normalize(base)
	if b == "" {
		b = DefaultBase
	}

	// Leave room for "-" + suffix within MaxLen.
	if limit := MaxLen - SuffixLen - 1; len(b) > limit {
		b = strings.Trim(b[:limit], "-")
	}

	return b + "-" + randomSuffix()
}

func randomSuffix() string {
	buf := make([]byte, SuffixLen/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken,
		// at which point there is nothing sensible to fall back to.
		panic("slugx: entropy source unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// Valid reports whether s is a well-formed slug in its canonical form.
func Valid(s string) bool {
	if len(s) < MinLen || len(s) > MaxLen {
		return false
	}
	return Normalize(s) == s
}
