// Package grpcgate adapts the gate to gRPC server interceptors. Tokens
// travel in the "authorization" metadata field using the same Bearer scheme
// as HTTP, and method exemptions match on the full gRPC method name.
package grpcgate

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	jwtgate "github.com/gatehouse/go-jwt-gate"
)

const authorizationKey = "authorization"

type config struct {
	errorHandler func(ctx context.Context, err error) error
}

// Option configures the gRPC interceptors.
type Option func(*config)

// WithErrorHandler sets a custom handler translating rejections into gRPC
// status errors.
func WithErrorHandler(handler func(ctx context.Context, err error) error) Option {
	return func(c *config) {
		c.errorHandler = handler
	}
}

func defaultErrorHandler(_ context.Context, err error) error {
	message := "Authentication failed"
	var rejection *jwtgate.Error
	if errors.As(err, &rejection) {
		message = rejection.Message()
	}
	return status.Error(codes.Unauthenticated, message)
}

// authorizationFromContext reads the authorization metadata value. More than
// one value is ambiguous and refused outright.
func authorizationFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}

	values := md.Get(authorizationKey)
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	default:
		return "", status.Error(codes.InvalidArgument, "multiple authorization metadata values supplied")
	}
}

func authenticate(ctx context.Context, gate *jwtgate.Gate, cfg *config, fullMethod string) (context.Context, error) {
	authorization, err := authorizationFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// gRPC maps onto POST in its HTTP/2 transport, so method scoped
	// exemptions behave the same as for an HTTP gate.
	decoded, err := gate.Evaluate(ctx, jwtgate.Request{
		Path:          fullMethod,
		Method:        http.MethodPost,
		Authorization: authorization,
	})
	if err != nil {
		return nil, cfg.errorHandler(ctx, err)
	}

	if decoded != nil {
		ctx = jwtgate.SetDecoded(ctx, decoded)
	}
	return ctx, nil
}

// UnaryServerInterceptor returns a unary interceptor running the gate
// against each call.
func UnaryServerInterceptor(gate *jwtgate.Gate, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := &config{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		authCtx, err := authenticate(ctx, gate, cfg, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns a stream interceptor running the gate
// against each stream before any message flows.
func StreamServerInterceptor(gate *jwtgate.Gate, opts ...Option) grpc.StreamServerInterceptor {
	cfg := &config{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		authCtx, err := authenticate(ss.Context(), gate, cfg, info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

// wrappedServerStream overrides the stream context with the authenticated
// one.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
