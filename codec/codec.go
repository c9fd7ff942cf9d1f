package codec

import (
	"context"
	"time"
)

// Algorithm identifies a JWT signing algorithm.
type Algorithm string

// Supported signing algorithms.
const (
	None    = Algorithm("none")    // Unsecured JWT, empty signature segment
	HS256   = Algorithm("HS256")   // HMAC using SHA-256
	HS384   = Algorithm("HS384")   // HMAC using SHA-384
	HS512   = Algorithm("HS512")   // HMAC using SHA-512
	RS256   = Algorithm("RS256")   // RSASSA-PKCS-v1.5 using SHA-256
	RS384   = Algorithm("RS384")   // RSASSA-PKCS-v1.5 using SHA-384
	RS512   = Algorithm("RS512")   // RSASSA-PKCS-v1.5 using SHA-512
	ES256   = Algorithm("ES256")   // ECDSA using P-256 and SHA-256
	ES384   = Algorithm("ES384")   // ECDSA using P-384 and SHA-384
	ES512   = Algorithm("ES512")   // ECDSA using P-521 and SHA-512
	ED25519 = Algorithm("ED25519") // EdDSA using Curve25519
)

// Decoded is the result of successfully decoding a token. Claims and Header
// are owned by the request that triggered the decode and must not be shared
// across requests.
type Decoded struct {
	Claims map[string]any
	Header map[string]any
}

// Options carries the claim-verification directives forwarded to the codec.
// Zero values disable the corresponding check.
type Options struct {
	// Issuer is the expected "iss" claim.
	Issuer string

	// Audience is the expected "aud" claim.
	Audience string

	// Subject is the expected "sub" claim.
	Subject string

	// TokenID is the expected "jti" claim.
	TokenID string

	// Leeway is the clock skew tolerated on time-based claims.
	Leeway time.Duration

	// ValidateIssuedAt rejects tokens whose "iat" claim is in the future.
	ValidateIssuedAt bool

	// RequireExpiry rejects tokens that carry no "exp" claim.
	RequireExpiry bool
}

// Codec decodes and encodes tokens. Implementations must be safe for
// concurrent use; the gate holds a single Codec for its whole lifetime.
type Codec interface {
	// Decode verifies the token string and returns its claims and header.
	// Failures are reported as *Error carrying a classified Kind.
	Decode(ctx context.Context, token string) (*Decoded, error)

	// Encode signs a claims map into a compact token string.
	Encode(claims map[string]any) (string, error)
}
