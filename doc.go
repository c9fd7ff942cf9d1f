// Package jwtgate is a request-authentication gate for HTTP services. For
// each incoming request it decides whether a valid JWT is present, verifies
// it against the configured rules, and either rejects the request with a 401
// JSON response or annotates it with the decoded claims before handing it
// downstream.
//
// A token is located in the Authorization header (strict "Bearer
// seg1.seg2.seg3" shape) or, when a cookie name is configured, in that
// cookie; the cookie wins when both are present. Path-prefix exclusion
// rules, optionally scoped to HTTP methods, mark routes where
// authentication is optional: a token supplied on an excluded route is
// still verified, but its absence is not an error.
//
// Basic usage:
//
//	gate, err := jwtgate.New(
//	    jwtgate.WithSecret("s3cr3t"),
//	    jwtgate.WithAlgorithm(codec.HS256),
//	    jwtgate.WithExclusions(jwtgate.Path("/health")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", gate.CheckAuth(mux))
//
// Downstream handlers read the decoded token from the request context:
//
//	claims, ok := jwtgate.ClaimsFromContext(r.Context())
//
// Cryptographic decode and encode are delegated to a codec.Codec; the
// bundled implementation is built on github.com/golang-jwt/jwt/v5 and
// classifies every decode failure into a fixed taxonomy so rejections carry
// stable, non-leaking messages. Adapters for gin, echo and gRPC servers
// live under framework/.
package jwtgate
