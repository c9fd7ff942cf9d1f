package jwtgate

import (
	"errors"

	"github.com/gatehouse/go-jwt-gate/codec"
)

// Option configures the Gate. Options may fail fast; New stops at the first
// failing option and returns its error.
type Option func(*Gate) error

// Sentinel errors for configuration validation.
var (
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrCodecConflict        = errors.New("WithCodec cannot be combined with secret, algorithm, verify or codec options")
	ErrCodecNil             = errors.New("codec cannot be nil")
	ErrErrorHandlerNil      = errors.New("errorHandler cannot be nil")
	ErrLoggerNil            = errors.New("logger cannot be nil")
	ErrMetricsNil           = errors.New("metrics cannot be nil")
	ErrTracerNil            = errors.New("tracer cannot be nil")
)

// supportedAlgorithms is the fixed set the gate accepts. ED25519 is handled
// separately via the EdDSA capability flag.
var supportedAlgorithms = map[codec.Algorithm]bool{
	codec.None:  true,
	codec.HS256: true,
	codec.HS384: true,
	codec.HS512: true,
	codec.RS256: true,
	codec.RS384: true,
	codec.RS512: true,
	codec.ES256: true,
	codec.ES384: true,
	codec.ES512: true,
}

// WithSecret sets the key material: a string or []byte for HMAC algorithms,
// or an asymmetric key object matching the algorithm family. Leave unset
// only with the "none" algorithm.
func WithSecret(secret any) Option {
	return func(g *Gate) error {
		g.secret = secret
		g.codecConfigured = true
		return nil
	}
}

// WithAlgorithm sets the signing algorithm.
//
// Default: HS256.
func WithAlgorithm(alg codec.Algorithm) Option {
	return func(g *Gate) error {
		g.algorithm = alg
		g.codecConfigured = true
		return nil
	}
}

// WithVerify toggles signature and claim verification. Disabling it decodes
// tokens without any cryptographic check; it must be disabled when the
// algorithm is "none".
//
// Default: true.
func WithVerify(value bool) Option {
	return func(g *Gate) error {
		g.verify = value
		g.codecConfigured = true
		return nil
	}
}

// WithCodecOptions forwards claim-verification directives (issuer, audience,
// subject, token ID, leeway) opaquely to the bundled codec.
func WithCodecOptions(opts codec.Options) Option {
	return func(g *Gate) error {
		g.codecOpts = opts
		g.codecConfigured = true
		return nil
	}
}

// WithCookieName enables the cookie token source, looking the token up under
// the given cookie name. The cookie source takes precedence over the
// Authorization header when both supply a token.
//
// Default: disabled.
func WithCookieName(name string) Option {
	return func(g *Gate) error {
		g.cookieName = name
		return nil
	}
}

// WithExclusions sets the ordered exclusion rules. Requests matching any
// rule are exempt from mandatory authentication. Rules are validated by New.
func WithExclusions(rules ...ExclusionRule) Option {
	return func(g *Gate) error {
		g.exclusions = rules
		return nil
	}
}

// WithCodec injects a custom token codec. It replaces the bundled golang-jwt
// codec entirely and cannot be combined with WithSecret, WithAlgorithm,
// WithVerify or WithCodecOptions.
func WithCodec(c codec.Codec) Option {
	return func(g *Gate) error {
		if c == nil {
			return ErrCodecNil
		}
		g.codec = c
		return nil
	}
}

// WithEdDSACapability declares whether the configured codec implements
// EdDSA. The ED25519 algorithm is accepted only when the capability is set.
//
// Default: true (the bundled codec implements EdDSA).
func WithEdDSACapability(available bool) Option {
	return func(g *Gate) error {
		g.edDSACapability = available
		return nil
	}
}

// WithErrorHandler sets the handler called on rejections. See the
// ErrorHandler type for the contract.
//
// Default: DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(g *Gate) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		g.errorHandler = h
		return nil
	}
}

// WithLogger sets an optional logger used at the engine's decision points.
//
// Default: no logging.
func WithLogger(l Logger) Option {
	return func(g *Gate) error {
		if l == nil {
			return ErrLoggerNil
		}
		g.logger = l
		return nil
	}
}

// WithMetrics sets the metrics sink for per-request outcome counters and
// decode timings.
//
// Default: NoopMetrics.
func WithMetrics(m Metrics) Option {
	return func(g *Gate) error {
		if m == nil {
			return ErrMetricsNil
		}
		g.metrics = m
		return nil
	}
}

// WithTracer sets the tracer used to span each authentication decision.
//
// Default: NoopTracer.
func WithTracer(t Tracer) Option {
	return func(g *Gate) error {
		if t == nil {
			return ErrTracerNil
		}
		g.tracer = t
		return nil
	}
}
