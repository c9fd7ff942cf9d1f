// Package gingate adapts the gate to the Gin framework.
package gingate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtgate "github.com/gatehouse/go-jwt-gate"
	"github.com/gatehouse/go-jwt-gate/codec"
)

// DefaultContextKey is the Gin context key the decoded token is stored under.
const DefaultContextKey = "jwt"

var (
	ErrMissingToken = errors.New("no decoded token found in context")
	ErrInvalidToken = errors.New("invalid decoded token type")
)

type config struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
}

// Option configures the Gin middleware.
type Option func(*config)

// WithErrorHandler sets a custom error handler for rejected requests.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(c *config) {
		c.errorHandler = handler
	}
}

// WithContextKey sets the Gin context key the decoded token is stored under.
func WithContextKey(key string) Option {
	return func(c *config) {
		c.contextKey = key
	}
}

// Middleware returns a Gin handler running the gate against each request.
// Rejected requests are aborted through the error handler; on an exempt
// pass-through the chain continues without a token in the context.
func Middleware(gate *jwtgate.Gate, opts ...Option) gin.HandlerFunc {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultContextKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		decoded, err := gate.CheckRequest(c.Request)
		if err != nil {
			cfg.errorHandler(c, err)
			return
		}

		if decoded != nil {
			c.Set(cfg.contextKey, decoded)
			c.Request = c.Request.Clone(jwtgate.SetDecoded(c.Request.Context(), decoded))
		}
		c.Next()
	}
}

func defaultErrorHandler(c *gin.Context, err error) {
	message := "Authentication failed"
	var rejection *jwtgate.Error
	if errors.As(err, &rejection) {
		message = rejection.Message()
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// GetDecoded extracts the decoded token stored by Middleware under the
// default context key.
func GetDecoded(c *gin.Context) (*codec.Decoded, error) {
	return GetDecodedWithKey(c, DefaultContextKey)
}

// GetDecodedWithKey extracts the decoded token stored under a custom key.
func GetDecodedWithKey(c *gin.Context, contextKey string) (*codec.Decoded, error) {
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingToken
	}

	decoded, ok := value.(*codec.Decoded)
	if !ok {
		return nil, ErrInvalidToken
	}
	return decoded, nil
}
