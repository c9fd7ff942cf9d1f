package jwtgate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrRejected is the umbrella error for every per-request rejection. Any
// error returned by Check satisfies errors.Is(err, ErrRejected).
var ErrRejected = errors.New("authentication rejected")

// Rejection messages for token-location failures. Decode-failure messages
// live with the codec error taxonomy.
const (
	MsgMissingCookieAndHeader = "Missing token cookie and Authorization header"
	MsgEmptyCookie            = "Empty token cookie"
	MsgMissingHeader          = "Missing Authorization header"
	MsgMalformedHeader        = "Invalid Authorization header format"
)

// Error is a per-request rejection. Message is the exact string surfaced to
// the client; the wrapped cause carries the classification detail for logs.
type Error struct {
	message string
	cause   error
}

func newRejection(message string, cause error) *Error {
	return &Error{message: message, cause: cause}
}

// Message returns the user-visible rejection message.
func (e *Error) Message() string {
	return e.message
}

// Error returns the message plus the underlying detail, intended for logs.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause)
	}
	return e.message
}

// Is allows the error to support equality to ErrRejected.
func (e *Error) Is(target error) bool {
	return target == ErrRejected
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// ErrorHandler is called when the gate rejects a request. It owns the
// response; the request never reaches the downstream handler. The err can be
// inspected with errors.As for *jwtgate.Error to get the rejection message,
// or unwrapped to the *codec.Error classification. Custom handlers must
// still deny the request, or the gate stops functioning as intended.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler answers every rejection with status 401 and a JSON
// body {"error":"<message>"}, leaking no internal detail.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	message := "Authentication failed"
	var rejection *Error
	if errors.As(err, &rejection) {
		message = rejection.Message()
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
