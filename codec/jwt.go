package codec

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Configuration errors returned by New.
var (
	ErrUnknownAlgorithm = errors.New("codec: unknown signing algorithm")
	ErrSecretMissing    = errors.New("codec: secret is required for this algorithm")
	ErrSecretType       = errors.New("codec: secret type does not match the algorithm family")
	ErrNoneSecret       = errors.New(`codec: secret must be empty when algorithm is "none"`)
	ErrNoneVerify       = errors.New(`codec: verify must be disabled when algorithm is "none"`)
	ErrNoSigningKey     = errors.New("codec: signing requires a private key")
)

// Config configures the bundled golang-jwt codec. Secret accepts nil, a
// string, a []byte, or an asymmetric key object matching the algorithm
// family.
type Config struct {
	Secret    any
	Algorithm Algorithm
	Verify    bool
	Options   Options
}

// JWTCodec is the bundled Codec implementation backed by golang-jwt v5.
// It is immutable after New and safe for concurrent use.
type JWTCodec struct {
	method    jwt.SigningMethod
	verify    bool
	opts      Options
	signKey   any
	verifyKey any
	parser    *jwt.Parser
}

var _ Codec = (*JWTCodec)(nil)

// New builds a JWTCodec, validating that the secret's type fits the
// algorithm family and that the "none" invariants hold.
func New(cfg Config) (*JWTCodec, error) {
	alg := cfg.Algorithm
	if alg == "" {
		alg = HS256
	}

	c := &JWTCodec{
		verify: cfg.Verify,
		opts:   cfg.Options,
	}

	switch alg {
	case None:
		if !isEmptySecret(cfg.Secret) {
			return nil, ErrNoneSecret
		}
		if cfg.Verify {
			return nil, ErrNoneVerify
		}
		c.method = jwt.SigningMethodNone
		c.signKey = jwt.UnsafeAllowNoneSignatureType

	case HS256, HS384, HS512:
		key, err := hmacKey(cfg.Secret)
		if err != nil {
			return nil, err
		}
		c.method = jwt.GetSigningMethod(string(alg))
		c.signKey = key
		c.verifyKey = key

	case RS256, RS384, RS512:
		switch key := cfg.Secret.(type) {
		case *rsa.PrivateKey:
			c.signKey = key
			c.verifyKey = &key.PublicKey
		case *rsa.PublicKey:
			c.verifyKey = key
		case nil:
			return nil, ErrSecretMissing
		default:
			return nil, fmt.Errorf("%w: %T for %s", ErrSecretType, cfg.Secret, alg)
		}
		c.method = jwt.GetSigningMethod(string(alg))

	case ES256, ES384, ES512:
		switch key := cfg.Secret.(type) {
		case *ecdsa.PrivateKey:
			c.signKey = key
			c.verifyKey = &key.PublicKey
		case *ecdsa.PublicKey:
			c.verifyKey = key
		case nil:
			return nil, ErrSecretMissing
		default:
			return nil, fmt.Errorf("%w: %T for %s", ErrSecretType, cfg.Secret, alg)
		}
		c.method = jwt.GetSigningMethod(string(alg))

	case ED25519:
		switch key := cfg.Secret.(type) {
		case ed25519.PrivateKey:
			c.signKey = key
			c.verifyKey = key.Public()
		case ed25519.PublicKey:
			c.verifyKey = key
		case nil:
			return nil, ErrSecretMissing
		default:
			return nil, fmt.Errorf("%w: %T for %s", ErrSecretType, cfg.Secret, alg)
		}
		c.method = jwt.SigningMethodEdDSA

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}

	c.parser = jwt.NewParser(c.parserOptions()...)

	return c, nil
}

func isEmptySecret(secret any) bool {
	switch s := secret.(type) {
	case nil:
		return true
	case string:
		return s == ""
	case []byte:
		return len(s) == 0
	default:
		return false
	}
}

func hmacKey(secret any) ([]byte, error) {
	switch s := secret.(type) {
	case string:
		if s == "" {
			return nil, ErrSecretMissing
		}
		return []byte(s), nil
	case []byte:
		if len(s) == 0 {
			return nil, ErrSecretMissing
		}
		return s, nil
	case nil:
		return nil, ErrSecretMissing
	default:
		return nil, fmt.Errorf("%w: %T for HMAC", ErrSecretType, secret)
	}
}

func (c *JWTCodec) parserOptions() []jwt.ParserOption {
	var opts []jwt.ParserOption
	if c.opts.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(c.opts.Leeway))
	}
	if c.opts.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.opts.Issuer))
	}
	if c.opts.Audience != "" {
		opts = append(opts, jwt.WithAudience(c.opts.Audience))
	}
	if c.opts.Subject != "" {
		opts = append(opts, jwt.WithSubject(c.opts.Subject))
	}
	if c.opts.ValidateIssuedAt {
		opts = append(opts, jwt.WithIssuedAt())
	}
	if c.opts.RequireExpiry {
		opts = append(opts, jwt.WithExpirationRequired())
	}
	return opts
}

// keyFunc rejects algorithm mismatches before handing back the verification
// key, so a token signed with the wrong method classifies as KindAlgorithm.
func (c *JWTCodec) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != c.method.Alg() {
		return nil, fmt.Errorf("%w: token uses %q, configured %q",
			errAlgorithmMismatch, token.Method.Alg(), c.method.Alg())
	}
	return c.verifyKey, nil
}

// Decode implements Codec. When verification is disabled the token is only
// parsed, mirroring a decode with signature checking turned off.
func (c *JWTCodec) Decode(ctx context.Context, token string) (*Decoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindDecode, Err: err}
	}

	claims := jwt.MapClaims{}

	if !c.verify {
		parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
		if err != nil {
			return nil, Classify(err)
		}
		return &Decoded{Claims: claims, Header: parsed.Header}, nil
	}

	parsed, err := c.parser.ParseWithClaims(token, claims, c.keyFunc)
	if err != nil {
		return nil, Classify(err)
	}

	// golang-jwt has no built-in jti check.
	if c.opts.TokenID != "" {
		id, _ := claims["jti"].(string)
		if id != c.opts.TokenID {
			return nil, Classify(jwt.ErrTokenInvalidId)
		}
	}

	return &Decoded{Claims: claims, Header: parsed.Header}, nil
}

// Encode implements Codec. It is a thin pass-through to golang-jwt signing.
func (c *JWTCodec) Encode(claims map[string]any) (string, error) {
	if c.signKey == nil {
		return "", ErrNoSigningKey
	}

	signed, err := jwt.NewWithClaims(c.method, jwt.MapClaims(claims)).SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("codec: sign token: %w", err)
	}
	return signed, nil
}
