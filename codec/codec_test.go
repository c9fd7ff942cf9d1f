package codec

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConfigValidation(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "hs256 with string secret",
			cfg:  Config{Secret: "s3cr3t", Algorithm: HS256, Verify: true},
		},
		{
			name: "hs256 with byte secret",
			cfg:  Config{Secret: []byte("s3cr3t"), Algorithm: HS512, Verify: true},
		},
		{
			name: "default algorithm is hs256",
			cfg:  Config{Secret: "s3cr3t", Verify: true},
		},
		{
			name: "none with empty secret and verify off",
			cfg:  Config{Algorithm: None},
		},
		{
			name:    "none with secret",
			cfg:     Config{Secret: "s3cr3t", Algorithm: None},
			wantErr: ErrNoneSecret,
		},
		{
			name:    "none with verify on",
			cfg:     Config{Algorithm: None, Verify: true},
			wantErr: ErrNoneVerify,
		},
		{
			name:    "hmac without secret",
			cfg:     Config{Algorithm: HS256, Verify: true},
			wantErr: ErrSecretMissing,
		},
		{
			name:    "hmac with empty secret",
			cfg:     Config{Secret: "", Algorithm: HS256, Verify: true},
			wantErr: ErrSecretMissing,
		},
		{
			name:    "hmac with asymmetric key",
			cfg:     Config{Secret: rsaKey, Algorithm: HS256, Verify: true},
			wantErr: ErrSecretType,
		},
		{
			name: "rsa with private key",
			cfg:  Config{Secret: rsaKey, Algorithm: RS256, Verify: true},
		},
		{
			name: "rsa with public key",
			cfg:  Config{Secret: &rsaKey.PublicKey, Algorithm: RS384, Verify: true},
		},
		{
			name:    "rsa with string secret",
			cfg:     Config{Secret: "s3cr3t", Algorithm: RS256, Verify: true},
			wantErr: ErrSecretType,
		},
		{
			name:    "rsa without key",
			cfg:     Config{Algorithm: RS256, Verify: true},
			wantErr: ErrSecretMissing,
		},
		{
			name:    "unknown algorithm",
			cfg:     Config{Secret: "s3cr3t", Algorithm: Algorithm("HS128"), Verify: true},
			wantErr: ErrUnknownAlgorithm,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			c, err := New(testCase.cfg)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNew_ECDSAAndEd25519Keys(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	_, err = New(Config{Secret: ecKey, Algorithm: ES256, Verify: true})
	assert.NoError(t, err)

	_, err = New(Config{Secret: &ecKey.PublicKey, Algorithm: ES256, Verify: true})
	assert.NoError(t, err)

	_, err = New(Config{Secret: edPriv, Algorithm: ED25519, Verify: true})
	assert.NoError(t, err)

	_, err = New(Config{Secret: edPub, Algorithm: ED25519, Verify: true})
	assert.NoError(t, err)

	_, err = New(Config{Secret: "s3cr3t", Algorithm: ES256, Verify: true})
	assert.ErrorIs(t, err, ErrSecretType)

	_, err = New(Config{Secret: "s3cr3t", Algorithm: ED25519, Verify: true})
	assert.ErrorIs(t, err, ErrSecretType)
}

func TestRoundTrip_HS256(t *testing.T) {
	c, err := New(Config{Secret: "s3cr3t", Algorithm: HS256, Verify: true})
	require.NoError(t, err)

	payload := map[string]any{"sub": "user-123", "role": "admin"}

	token, err := c.Encode(payload)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(token, ".")))

	decoded, err := c.Decode(context.Background(), token)
	require.NoError(t, err)

	if diff := cmp.Diff(payload, decoded.Claims); diff != "" {
		t.Fatalf("claims mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "HS256", decoded.Header["alg"])
	assert.Equal(t, "JWT", decoded.Header["typ"])
}

func TestRoundTrip_Ed25519(t *testing.T) {
	_, edPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	c, err := New(Config{Secret: edPriv, Algorithm: ED25519, Verify: true})
	require.NoError(t, err)

	token, err := c.Encode(map[string]any{"sub": "user-123"})
	require.NoError(t, err)

	decoded, err := c.Decode(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", decoded.Claims["sub"])
	assert.Equal(t, "EdDSA", decoded.Header["alg"])
}

func TestRoundTrip_None(t *testing.T) {
	c, err := New(Config{Algorithm: None})
	require.NoError(t, err)

	token, err := c.Encode(map[string]any{"sub": "anonymous"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(token, "."), "unsigned token should end with a bare period, got %q", token)

	decoded, err := c.Decode(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", decoded.Claims["sub"])
	assert.Equal(t, "none", decoded.Header["alg"])
}

func TestDecode_Classification(t *testing.T) {
	now := time.Now()

	sign := func(t *testing.T, secret string, alg Algorithm, claims map[string]any) string {
		t.Helper()
		signer, err := New(Config{Secret: secret, Algorithm: alg})
		require.NoError(t, err)
		token, err := signer.Encode(claims)
		require.NoError(t, err)
		return token
	}

	testCases := []struct {
		name     string
		opts     Options
		token    func(t *testing.T) string
		wantKind Kind
	}{
		{
			name: "signature mismatch",
			token: func(t *testing.T) string {
				return sign(t, "other-secret", HS256, map[string]any{"sub": "x"})
			},
			wantKind: KindSignature,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS256, map[string]any{"exp": now.Add(-time.Hour).Unix()})
			},
			wantKind: KindExpired,
		},
		{
			name: "wrong algorithm",
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS384, map[string]any{"sub": "x"})
			},
			wantKind: KindAlgorithm,
		},
		{
			name: "not yet valid",
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS256, map[string]any{"nbf": now.Add(time.Hour).Unix()})
			},
			wantKind: KindImmature,
		},
		{
			name: "wrong issuer",
			opts: Options{Issuer: "trusted-issuer"},
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS256, map[string]any{"iss": "someone-else"})
			},
			wantKind: KindIssuer,
		},
		{
			name: "issued in the future",
			opts: Options{ValidateIssuedAt: true},
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS256, map[string]any{"iat": now.Add(time.Hour).Unix()})
			},
			wantKind: KindIssuedAt,
		},
		{
			name: "wrong audience",
			opts: Options{Audience: "my-api"},
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS256, map[string]any{"aud": "other-api"})
			},
			wantKind: KindAudience,
		},
		{
			name: "wrong subject",
			opts: Options{Subject: "user-123"},
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS256, map[string]any{"sub": "user-456"})
			},
			wantKind: KindSubject,
		},
		{
			name: "wrong token id",
			opts: Options{TokenID: "jti-123"},
			token: func(t *testing.T) string {
				return sign(t, "s3cr3t", HS256, map[string]any{"jti": "jti-456"})
			},
			wantKind: KindTokenID,
		},
		{
			name: "garbage token",
			token: func(t *testing.T) string {
				return "not-a-token"
			},
			wantKind: KindDecode,
		},
		{
			name: "empty token",
			token: func(t *testing.T) string {
				return ""
			},
			wantKind: KindDecode,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			c, err := New(Config{Secret: "s3cr3t", Algorithm: HS256, Verify: true, Options: testCase.opts})
			require.NoError(t, err)

			decoded, err := c.Decode(context.Background(), testCase.token(t))
			require.Error(t, err)
			assert.Nil(t, decoded)

			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, testCase.wantKind, ce.Kind, "message: %s", ce.Message())
		})
	}
}

func TestDecode_VerifyDisabledSkipsSignatureCheck(t *testing.T) {
	signer, err := New(Config{Secret: "other-secret", Algorithm: HS256})
	require.NoError(t, err)
	token, err := signer.Encode(map[string]any{"sub": "user-123"})
	require.NoError(t, err)

	c, err := New(Config{Secret: "s3cr3t", Algorithm: HS256, Verify: false})
	require.NoError(t, err)

	decoded, err := c.Decode(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", decoded.Claims["sub"])
}

func TestDecode_Leeway(t *testing.T) {
	signer, err := New(Config{Secret: "s3cr3t", Algorithm: HS256})
	require.NoError(t, err)
	token, err := signer.Encode(map[string]any{"exp": time.Now().Add(-10 * time.Second).Unix()})
	require.NoError(t, err)

	c, err := New(Config{
		Secret:    "s3cr3t",
		Algorithm: HS256,
		Verify:    true,
		Options:   Options{Leeway: time.Minute},
	})
	require.NoError(t, err)

	_, err = c.Decode(context.Background(), token)
	assert.NoError(t, err)
}

func TestDecode_CancelledContext(t *testing.T) {
	c, err := New(Config{Secret: "s3cr3t", Algorithm: HS256, Verify: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Decode(ctx, "whatever")
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindDecode, ce.Kind)
}

func TestEncode_RequiresPrivateKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	c, err := New(Config{Secret: &rsaKey.PublicKey, Algorithm: RS256, Verify: true})
	require.NoError(t, err)

	_, err = c.Encode(map[string]any{"sub": "x"})
	assert.ErrorIs(t, err, ErrNoSigningKey)
}

func TestKeyFuncRejectsAlgorithmMismatch(t *testing.T) {
	c, err := New(Config{Secret: "s3cr3t", Algorithm: HS256, Verify: true})
	require.NoError(t, err)

	_, err = c.keyFunc(&jwt.Token{Method: jwt.SigningMethodHS384})
	assert.ErrorIs(t, err, errAlgorithmMismatch)
}
