// Package echogate adapts the gate to the Echo framework.
package echogate

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtgate "github.com/gatehouse/go-jwt-gate"
	"github.com/gatehouse/go-jwt-gate/codec"
)

// DefaultContextKey is the Echo context key the decoded token is stored under.
const DefaultContextKey = "jwt"

type config struct {
	errorHandler func(echo.Context, error) error
	contextKey   string
}

// Option configures the Echo middleware.
type Option func(*config)

// WithErrorHandler sets a custom error handler for rejected requests.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(c *config) {
		c.errorHandler = handler
	}
}

// WithContextKey sets the Echo context key the decoded token is stored under.
func WithContextKey(key string) Option {
	return func(c *config) {
		c.contextKey = key
	}
}

// Middleware returns an Echo middleware running the gate against each
// request.
func Middleware(gate *jwtgate.Gate, opts ...Option) echo.MiddlewareFunc {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultContextKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decoded, err := gate.CheckRequest(c.Request())
			if err != nil {
				return cfg.errorHandler(c, err)
			}

			if decoded != nil {
				c.Set(cfg.contextKey, decoded)
				c.SetRequest(c.Request().Clone(jwtgate.SetDecoded(c.Request().Context(), decoded)))
			}
			return next(c)
		}
	}
}

func defaultErrorHandler(c echo.Context, err error) error {
	message := "Authentication failed"
	var rejection *jwtgate.Error
	if errors.As(err, &rejection) {
		message = rejection.Message()
	}
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": message})
}

// GetDecoded extracts the decoded token stored by Middleware. The second
// return reports whether a token was present and of the expected type.
func GetDecoded(c echo.Context) (*codec.Decoded, bool) {
	return GetDecodedWithKey(c, DefaultContextKey)
}

// GetDecodedWithKey extracts the decoded token stored under a custom key.
func GetDecodedWithKey(c echo.Context, contextKey string) (*codec.Decoded, bool) {
	value := c.Get(contextKey)
	if value == nil {
		return nil, false
	}
	decoded, ok := value.(*codec.Decoded)
	return decoded, ok
}
