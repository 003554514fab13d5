package slugx

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidReference reports that no slug could be extracted from a
// reference string.
var ErrInvalidReference = errors.New("slugx: invalid reference")

// Reference forms accepted by ExtractFromReference, in priority order.
var (
	pathRef  = regexp.MustCompile(`/r/([a-z0-9\-]{3,40})`)
	queryRef = regexp.MustCompile(`[?&](?:slug|code)=([a-z0-9\-]{3,40})`)
	bareRef  = regexp.MustCompile(`^[a-z0-9\-]{3,40}$`)
)

// ExtractFromReference deterministically pulls a slug out of a user-supplied
// reference. It accepts, in this order:
//
//  1. a delivery URL carrying the slug as a path segment: .../r/<slug>
//  2. a delivery URL carrying it as a query parameter: ...?slug=<slug>
//     or ...?code=<slug>
//  3. the bare slug itself
//
// Whitespace is trimmed from bare candidates. Anything else fails with
// ErrInvalidReference.
func ExtractFromReference(ref string) (string, error) {
	if m := pathRef.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if m := queryRef.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}

	cand := strings.TrimSpace(ref)
	if bareRef.MatchString(cand) {
		return cand, nil
	}

	return "", ErrInvalidReference
}
