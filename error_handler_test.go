package jwtgate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantBody string
	}{
		{
			name:     "rejection error surfaces its message",
			err:      newRejection(MsgMissingHeader, ErrHeaderMissing),
			wantBody: `{"error":"Missing Authorization header"}`,
		},
		{
			name:     "wrapped rejection error",
			err:      errors.Join(errors.New("outer"), newRejection(MsgEmptyCookie, ErrCookieEmpty)),
			wantBody: `{"error":"Empty token cookie"}`,
		},
		{
			name:     "unknown error leaks nothing",
			err:      errors.New("database on fire"),
			wantBody: `{"error":"Authentication failed"}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)

			DefaultErrorHandler(recorder, request, testCase.err)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			assert.JSONEq(t, testCase.wantBody, recorder.Body.String())
		})
	}
}

func TestError(t *testing.T) {
	cause := errors.New("token cookie empty")
	err := newRejection(MsgEmptyCookie, cause)

	assert.Equal(t, MsgEmptyCookie, err.Message())
	assert.Equal(t, "Empty token cookie: token cookie empty", err.Error())
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, cause)

	bare := newRejection(MsgMissingHeader, nil)
	assert.Equal(t, MsgMissingHeader, bare.Error())
}
