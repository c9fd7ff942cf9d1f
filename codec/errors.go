package codec

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Kind classifies a decode failure. Every failure maps to exactly one Kind;
// anything the classifier does not recognize falls into KindDecode, so a
// decode error can never escape the taxonomy.
type Kind int

const (
	// KindDecode is the catch-all for malformed tokens and any failure not
	// covered by a more specific kind.
	KindDecode Kind = iota

	// KindSignature indicates the signature did not verify against the key.
	KindSignature

	// KindExpired indicates the "exp" claim is in the past.
	KindExpired

	// KindAlgorithm indicates the token's alg header does not match the
	// configured algorithm.
	KindAlgorithm

	// KindImmature indicates the "nbf" claim is in the future.
	KindImmature

	// KindIssuer indicates the "iss" claim does not match.
	KindIssuer

	// KindIssuedAt indicates the "iat" claim is in the future.
	KindIssuedAt

	// KindAudience indicates the "aud" claim does not match.
	KindAudience

	// KindSubject indicates the "sub" claim does not match.
	KindSubject

	// KindTokenID indicates the "jti" claim does not match.
	KindTokenID
)

// String returns a short machine-readable tag, used for log fields and
// metric labels.
func (k Kind) String() string {
	switch k {
	case KindSignature:
		return "signature"
	case KindExpired:
		return "expired"
	case KindAlgorithm:
		return "algorithm"
	case KindImmature:
		return "immature"
	case KindIssuer:
		return "issuer"
	case KindIssuedAt:
		return "issued_at"
	case KindAudience:
		return "audience"
	case KindSubject:
		return "subject"
	case KindTokenID:
		return "token_id"
	default:
		return "decode"
	}
}

// Message returns the user-visible rejection message for the kind. These
// strings are part of the gate's response contract and must stay stable.
func (k Kind) Message() string {
	switch k {
	case KindSignature:
		return "Invalid JWT token : Signature Verification Error"
	case KindExpired:
		return "Invalid JWT token : Expired Signature Error"
	case KindAlgorithm:
		return "Invalid JWT token : Incorrect Algorithm Error"
	case KindImmature:
		return "Invalid JWT token : Immature Signature Error"
	case KindIssuer:
		return "Invalid JWT token : Invalid Issuer Error"
	case KindIssuedAt:
		return "Invalid JWT token : Invalid Issued At Error"
	case KindAudience:
		return "Invalid JWT token : Invalid Audience Error"
	case KindSubject:
		return "Invalid JWT token : Invalid Subject Error"
	case KindTokenID:
		return "Invalid JWT token : Invalid JWT ID Error"
	default:
		return "Invalid JWT token : Decode Error"
	}
}

// Error is a classified decode failure. The underlying library error is kept
// for logs; only Message ever reaches a response body.
type Error struct {
	Kind Kind
	Err  error
}

// Error returns the classified message plus the underlying detail, intended
// for logs rather than response bodies.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind.Message(), e.Err)
	}
	return e.Kind.Message()
}

// Message returns the exact user-visible rejection message.
func (e *Error) Message() string {
	return e.Kind.Message()
}

// Unwrap exposes the underlying library error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// errAlgorithmMismatch is returned from the key func when the token's alg
// header differs from the configured algorithm, so the mismatch classifies
// as KindAlgorithm instead of a generic verification failure.
var errAlgorithmMismatch = errors.New("token algorithm does not match configured algorithm")

// Classify wraps a golang-jwt error in an *Error with the matching Kind.
// The order matters: the alg mismatch sentinel travels inside an
// ErrTokenUnverifiable chain and must be checked first.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	kind := KindDecode
	switch {
	case errors.Is(err, errAlgorithmMismatch):
		kind = KindAlgorithm
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		kind = KindSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		kind = KindExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		kind = KindImmature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		kind = KindIssuer
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		kind = KindIssuedAt
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		kind = KindAudience
	case errors.Is(err, jwt.ErrTokenInvalidSubject):
		kind = KindSubject
	case errors.Is(err, jwt.ErrTokenInvalidId):
		kind = KindTokenID
	}

	return &Error{Kind: kind, Err: err}
}
