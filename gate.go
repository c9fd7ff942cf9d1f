package jwtgate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gatehouse/go-jwt-gate/codec"
)

// Request carries the per-request inputs the decision engine consumes. It is
// transport-neutral: HTTP handlers derive it from *http.Request via
// RequestFromHTTP, other transports fill it in directly.
type Request struct {
	Path          string
	Method        string
	Authorization string
	Cookies       map[string]string
}

// RequestFromHTTP derives the engine's request view from an incoming HTTP
// request. When a cookie name repeats, the first value wins, matching
// net/http lookup order.
func RequestFromHTTP(r *http.Request) Request {
	var cookies map[string]string
	if all := r.Cookies(); len(all) > 0 {
		cookies = make(map[string]string, len(all))
		for _, c := range all {
			if _, ok := cookies[c.Name]; !ok {
				cookies[c.Name] = c.Value
			}
		}
	}

	return Request{
		Path:          r.URL.Path,
		Method:        r.Method,
		Authorization: r.Header.Get("Authorization"),
		Cookies:       cookies,
	}
}

// Outcome labels used for metrics and trace tags.
const (
	outcomeRejected      = "rejected"
	outcomeAuthenticated = "authenticated"
	outcomePassedThrough = "passed_through"
)

// Metric names recorded through the Metrics interface.
const (
	metricRequests      = "jwtgate_requests_total"
	metricDecodeSeconds = "jwtgate_decode_duration_seconds"
)

// Gate is the authentication decision engine. It is immutable after New and
// safe for concurrent use by any number of requests.
type Gate struct {
	codec        codec.Codec
	errorHandler ErrorHandler
	cookieName   string
	exclusions   []ExclusionRule
	logger       Logger
	metrics      Metrics
	tracer       Tracer

	// Construction-time inputs consumed by New when building the bundled
	// codec.
	secret          any
	algorithm       codec.Algorithm
	verify          bool
	codecOpts       codec.Options
	codecConfigured bool
	edDSACapability bool
}

// New constructs a Gate with the supplied options, validating the whole
// configuration up front. Any violation returns an error naming the
// offending field; no Gate is returned and no request can be processed
// against the invalid configuration.
//
// Example:
//
//	gate, err := jwtgate.New(
//	    jwtgate.WithSecret("s3cr3t"),
//	    jwtgate.WithAlgorithm(codec.HS256),
//	    jwtgate.WithExclusions(jwtgate.Path("/health")),
//	)
func New(opts ...Option) (*Gate, error) {
	g := &Gate{
		verify:          true,
		edDSACapability: true,
		errorHandler:    DefaultErrorHandler,
		metrics:         &NoopMetrics{},
		tracer:          &NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("invalid gate configuration: %w", err)
	}

	return g, nil
}

func (g *Gate) validate() error {
	if g.codec != nil && g.codecConfigured {
		return ErrCodecConflict
	}

	alg := g.algorithm
	if alg == "" {
		alg = codec.HS256
	}
	if alg == codec.ED25519 {
		if !g.edDSACapability {
			return fmt.Errorf("%w: %q requires the EdDSA capability", ErrUnsupportedAlgorithm, alg)
		}
	} else if !supportedAlgorithms[alg] {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}

	for _, rule := range g.exclusions {
		if err := rule.validate(); err != nil {
			return err
		}
	}

	if g.codec == nil {
		c, err := codec.New(codec.Config{
			Secret:    g.secret,
			Algorithm: alg,
			Verify:    g.verify,
			Options:   g.codecOpts,
		})
		if err != nil {
			return err
		}
		g.codec = c
	}

	return nil
}

// Evaluate runs the decision engine against a single request. The return is
// the tagged outcome: a non-nil token means the request is authenticated and
// the token should travel with it; nil, nil means the request is exempt,
// supplied no token, and proceeds unauthenticated; a non-nil error is always
// a *Error rejection whose Message is the exact response string.
func (g *Gate) Evaluate(ctx context.Context, req Request) (*codec.Decoded, error) {
	span := g.tracer.StartSpan("jwtgate.evaluate")
	defer span.Finish()
	span.SetTag("http.path", req.Path)
	span.SetTag("http.method", req.Method)

	exempt := isExempt(g.exclusions, req.Path, req.Method)

	cookieEnabled := g.cookieName != ""
	var cookieTok string
	cookieErr := ErrCookieMissing
	if cookieEnabled {
		cookieTok, cookieErr = CookieToken(req.Cookies, g.cookieName)
	}
	headerTok, headerErr := HeaderToken(req.Authorization)

	if !exempt {
		switch {
		case cookieEnabled && errors.Is(cookieErr, ErrCookieMissing) && errors.Is(headerErr, ErrHeaderMissing):
			return nil, g.reject(span, MsgMissingCookieAndHeader, errors.Join(cookieErr, headerErr))
		case cookieEnabled && errors.Is(cookieErr, ErrCookieEmpty):
			return nil, g.reject(span, MsgEmptyCookie, cookieErr)
		case !cookieEnabled && errors.Is(headerErr, ErrHeaderMissing):
			return nil, g.reject(span, MsgMissingHeader, headerErr)
		case !cookieEnabled && errors.Is(headerErr, ErrHeaderMalformed):
			return nil, g.reject(span, MsgMalformedHeader, headerErr)
		}
	}

	// Cookie token takes precedence when both sources supply one.
	token := cookieTok
	if token == "" {
		token = headerTok
	}

	if exempt && token == "" {
		if g.logger != nil {
			g.logger.Debugf("request exempt from authentication: %s %s", req.Method, req.Path)
		}
		span.SetTag("outcome", outcomePassedThrough)
		g.metrics.IncCounter(metricRequests, map[string]string{"outcome": outcomePassedThrough})
		return nil, nil
	}

	// A token on an exempt path is still verified; exclusion only makes
	// authentication optional, never skips checking a supplied token.
	if g.logger != nil {
		g.logger.Debugf("decoding token for %s %s", req.Method, req.Path)
	}

	start := time.Now()
	decoded, err := g.codec.Decode(ctx, token)
	g.metrics.ObserveHistogram(metricDecodeSeconds, time.Since(start).Seconds(), map[string]string{})

	if err != nil {
		classified := codec.Classify(err)
		return nil, g.reject(span, classified.Message(), classified)
	}

	if g.logger != nil {
		g.logger.Debugf("token decoded successfully for %s %s", req.Method, req.Path)
	}
	span.SetTag("outcome", outcomeAuthenticated)
	g.metrics.IncCounter(metricRequests, map[string]string{"outcome": outcomeAuthenticated})
	return decoded, nil
}

func (g *Gate) reject(span Span, message string, cause error) *Error {
	if g.logger != nil {
		g.logger.Warnf("authentication rejected: %s", message)
	}
	span.SetTag("outcome", outcomeRejected)
	g.metrics.IncCounter(metricRequests, map[string]string{"outcome": outcomeRejected})
	return newRejection(message, cause)
}

// CheckRequest runs the engine against an HTTP request.
func (g *Gate) CheckRequest(r *http.Request) (*codec.Decoded, error) {
	return g.Evaluate(r.Context(), RequestFromHTTP(r))
}

// CheckAuth is the net/http middleware wrapper. On rejection the configured
// ErrorHandler owns the response and the downstream handler never runs; on
// success the decoded token (if any) is attached to the request context.
func (g *Gate) CheckAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decoded, err := g.CheckRequest(r)
		if err != nil {
			g.errorHandler(w, r, err)
			return
		}

		if decoded != nil {
			r = r.Clone(SetDecoded(r.Context(), decoded))
		}
		next.ServeHTTP(w, r)
	})
}

// Encode signs a claims map into a token string. It is a thin pass-through
// to the configured codec.
func (g *Gate) Encode(claims map[string]any) (string, error) {
	return g.codec.Encode(claims)
}
