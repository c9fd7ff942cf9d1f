// Package codec handles the cryptographic half of the gate: turning a raw
// token string into decoded claims and header maps, and signing a claims map
// back into a token string.
//
// The gate consumes the Codec interface so hosts can plug in their own
// implementation. The bundled implementation is built on
// github.com/golang-jwt/jwt/v5 and classifies every decode failure into an
// exhaustive Kind so callers never have to string-match library errors.
package codec
