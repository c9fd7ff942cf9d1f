package codec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{"signature", jwt.ErrTokenSignatureInvalid, KindSignature},
		{"expired", jwt.ErrTokenExpired, KindExpired},
		{"algorithm mismatch", errAlgorithmMismatch, KindAlgorithm},
		{"not yet valid", jwt.ErrTokenNotValidYet, KindImmature},
		{"issuer", jwt.ErrTokenInvalidIssuer, KindIssuer},
		{"issued at", jwt.ErrTokenUsedBeforeIssued, KindIssuedAt},
		{"audience", jwt.ErrTokenInvalidAudience, KindAudience},
		{"subject", jwt.ErrTokenInvalidSubject, KindSubject},
		{"token id", jwt.ErrTokenInvalidId, KindTokenID},
		{"malformed", jwt.ErrTokenMalformed, KindDecode},
		{"unknown error", errors.New("boom"), KindDecode},
		{"wrapped sentinel", fmt.Errorf("outer: %w", jwt.ErrTokenExpired), KindExpired},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Classify(testCase.err)
			assert.Equal(t, testCase.wantKind, got.Kind)
			assert.ErrorIs(t, got, testCase.err)
		})
	}
}

func TestClassify_NilAndPassthrough(t *testing.T) {
	assert.Nil(t, Classify(nil))

	already := &Error{Kind: KindExpired, Err: jwt.ErrTokenExpired}
	assert.Same(t, already, Classify(fmt.Errorf("outer: %w", already)))
}

func TestKindMessages(t *testing.T) {
	testCases := []struct {
		kind Kind
		want string
	}{
		{KindSignature, "Invalid JWT token : Signature Verification Error"},
		{KindExpired, "Invalid JWT token : Expired Signature Error"},
		{KindAlgorithm, "Invalid JWT token : Incorrect Algorithm Error"},
		{KindImmature, "Invalid JWT token : Immature Signature Error"},
		{KindIssuer, "Invalid JWT token : Invalid Issuer Error"},
		{KindIssuedAt, "Invalid JWT token : Invalid Issued At Error"},
		{KindAudience, "Invalid JWT token : Invalid Audience Error"},
		{KindSubject, "Invalid JWT token : Invalid Subject Error"},
		{KindTokenID, "Invalid JWT token : Invalid JWT ID Error"},
		{KindDecode, "Invalid JWT token : Decode Error"},
		{Kind(99), "Invalid JWT token : Decode Error"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.want, testCase.kind.Message())
	}
}

func TestErrorFormatting(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Kind: KindSignature, Err: inner}

	assert.Equal(t, "Invalid JWT token : Signature Verification Error: boom", err.Error())
	assert.Equal(t, "Invalid JWT token : Signature Verification Error", err.Message())
	assert.ErrorIs(t, err, inner)

	bare := &Error{Kind: KindDecode}
	assert.Equal(t, "Invalid JWT token : Decode Error", bare.Error())
}
