package jwtgate

import (
	"context"

	"github.com/gatehouse/go-jwt-gate/codec"
)

// contextKey is an unexported type for context keys to prevent collisions
// with other packages.
type contextKey int

const decodedKey contextKey = iota

// SetDecoded stores a decoded token on the context. The gate calls this
// after a successful decode; adapters for other transports may reuse it.
func SetDecoded(ctx context.Context, token *codec.Decoded) context.Context {
	return context.WithValue(ctx, decodedKey, token)
}

// DecodedFromContext retrieves the decoded token attached by the gate. The
// second return is false when the request passed through unauthenticated.
func DecodedFromContext(ctx context.Context) (*codec.Decoded, bool) {
	token, ok := ctx.Value(decodedKey).(*codec.Decoded)
	return token, ok
}

// ClaimsFromContext is a convenience for handlers that only need the claims
// mapping.
func ClaimsFromContext(ctx context.Context) (map[string]any, bool) {
	token, ok := DecodedFromContext(ctx)
	if !ok {
		return nil, false
	}
	return token.Claims, true
}

// IsAuthenticated reports whether the gate attached a decoded token to the
// context.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := DecodedFromContext(ctx)
	return ok
}
