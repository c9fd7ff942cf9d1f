package jwtgate

import (
	"errors"
	"regexp"
	"strings"
)

// Locator errors. These classify why a source produced no token; the
// user-visible rejection messages are chosen by the engine, which needs the
// distinction between a source that is absent and one that is present but
// unusable.
var (
	// ErrHeaderMissing is returned when the Authorization header is absent
	// or blank.
	ErrHeaderMissing = errors.New("authorization header missing")

	// ErrHeaderMalformed is returned when the Authorization header is
	// present but does not match the Bearer token pattern.
	ErrHeaderMalformed = errors.New("authorization header format must be Bearer <token>")

	// ErrCookieMissing is returned when the configured token cookie is not
	// present on the request.
	ErrCookieMissing = errors.New("token cookie missing")

	// ErrCookieEmpty is returned when the token cookie is present but its
	// value is blank.
	ErrCookieEmpty = errors.New("token cookie empty")
)

// bearerPattern is the strict shape of an acceptable Authorization header:
// the literal Bearer prefix and three dot-separated base64url segments. The
// third segment may be empty, which is the unsigned-token case where the
// signature is dropped; the first two may not.
var bearerPattern = regexp.MustCompile(`^Bearer ([A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*)$`)

// HeaderToken extracts the bearer token from a raw Authorization header
// value. An absent or blank value yields ErrHeaderMissing; a present value
// that does not match the Bearer pattern yields ErrHeaderMalformed. The
// returned token keeps its trailing period when the signature segment is
// empty.
func HeaderToken(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrHeaderMissing
	}

	m := bearerPattern.FindStringSubmatch(value)
	if m == nil {
		return "", ErrHeaderMalformed
	}

	return m[1], nil
}

// CookieToken looks up name in the request's cookie map. An absent key
// yields ErrCookieMissing; a present key whose value is blank or whitespace
// yields ErrCookieEmpty.
func CookieToken(cookies map[string]string, name string) (string, error) {
	value, ok := cookies[name]
	if !ok {
		return "", ErrCookieMissing
	}

	if strings.TrimSpace(value) == "" {
		return "", ErrCookieEmpty
	}

	return value, nil
}
