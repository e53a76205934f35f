// SPDX-License-Identifier: ice License 1.0

package appleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "com.example.app"

type keySetServer struct {
	mx      sync.Mutex
	payload []byte
	fetches int
}

func (s *keySetServer) ServeHTTP(writer http.ResponseWriter, _ *http.Request) {
	s.mx.Lock()
	s.fetches++
	body := s.payload
	s.mx.Unlock()
	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write(body)
}

func (s *keySetServer) serve(tb testing.TB, keys ...*jwk) {
	tb.Helper()
	body, err := json.Marshal(&jwks{Keys: keys})
	require.NoError(tb, err)
	s.mx.Lock()
	s.payload = body
	s.mx.Unlock()
}

func (s *keySetServer) fetchCount() int {
	s.mx.Lock()
	defer s.mx.Unlock()

	return s.fetches
}

func newTestVerifier(tb testing.TB, jwksURL string) *auth {
	tb.Helper()
	cfg := new(config)
	cfg.AuthApple.ClientID = testClientID
	cfg.AuthApple.JWKSURL = jwksURL
	cfg.AuthApple.JWKSCacheTTL = stdlibtime.Minute

	return &auth{cfg: cfg, cache: gocache.New(cfg.AuthApple.JWKSCacheTTL, cfg.AuthApple.JWKSCacheTTL)}
}

func generateSigningKey(tb testing.TB, kid string) (*rsa.PrivateKey, *jwk) {
	tb.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(tb, err)

	return privateKey, &jwk{
		Kty: "RSA",
		Kid: kid,
		Use: "sig",
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(privateKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(privateKey.E)).Bytes()),
	}
}

func signAppleToken(tb testing.TB, privateKey *rsa.PrivateKey, kid string, claims *Token) string {
	tb.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(privateKey)
	require.NoError(tb, err)

	return signed
}

func appleClaims(issuer, audience, subject string, expiresAt stdlibtime.Time) *Token {
	return &Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(stdlibtime.Now().Add(-stdlibtime.Minute)),
		},
		Email:      "jdoe@example.com",
		GivenName:  "John",
		FamilyName: "Doe",
	}
}

func TestVerifyIDTokenSuccess(t *testing.T) {
	t.Parallel()
	privateKey, publicJWK := generateSigningKey(t, "kid-1")
	srv := new(keySetServer)
	srv.serve(t, publicJWK)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	idToken := signAppleToken(t, privateKey, "kid-1", appleClaims(JwtIssuer, testClientID, "apple-sub-1", stdlibtime.Now().Add(stdlibtime.Hour)))
	token, err := verifier.VerifyIDToken(context.Background(), idToken)
	require.NoError(t, err)
	assert.Equal(t, "apple-sub-1", token.UserID)
	assert.Equal(t, "jdoe@example.com", token.Email)
	assert.Equal(t, "John", token.GivenName)
	assert.Equal(t, "Doe", token.FamilyName)
	assert.Equal(t, JwtIssuer, token.Provider)
	assert.Equal(t, 1, srv.fetchCount())

	_, err = verifier.VerifyIDToken(context.Background(), idToken)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.fetchCount(), "second verification has to be served from the key cache")
}

func TestVerifyIDTokenRejectsBogusTokens(t *testing.T) {
	t.Parallel()
	privateKey, publicJWK := generateSigningKey(t, "kid-1")
	strangerKey, _ := generateSigningKey(t, "kid-1")
	srv := new(keySetServer)
	srv.serve(t, publicJWK)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	cases := map[string]string{
		"garbage":         "definitely.not.a-jwt",
		"wrong issuer":    signAppleToken(t, privateKey, "kid-1", appleClaims("https://evil.example.com", testClientID, "s", stdlibtime.Now().Add(stdlibtime.Hour))),
		"wrong audience":  signAppleToken(t, privateKey, "kid-1", appleClaims(JwtIssuer, "com.other.app", "s", stdlibtime.Now().Add(stdlibtime.Hour))),
		"wrong signature": signAppleToken(t, strangerKey, "kid-1", appleClaims(JwtIssuer, testClientID, "s", stdlibtime.Now().Add(stdlibtime.Hour))),
		"alg none":        "eyJhbGciOiJub25lIiwia2lkIjoia2lkLTEifQ.eyJpc3MiOiJodHRwczovL2FwcGxlaWQuYXBwbGUuY29tIn0.",
	}
	for name, idToken := range cases {
		_, err := verifier.VerifyIDToken(context.Background(), idToken)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestVerifyIDTokenRejectsEmptyClaimsPayload(t *testing.T) {
	t.Parallel()
	privateKey, publicJWK := generateSigningKey(t, "kid-1")
	srv := new(keySetServer)
	srv.serve(t, publicJWK)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	emptyToken := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{})
	emptyToken.Header["kid"] = "kid-1"
	idToken, err := emptyToken.SignedString(privateKey)
	require.NoError(t, err)

	_, err = verifier.VerifyIDToken(context.Background(), idToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyIDTokenExpired(t *testing.T) {
	t.Parallel()
	privateKey, publicJWK := generateSigningKey(t, "kid-1")
	srv := new(keySetServer)
	srv.serve(t, publicJWK)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	idToken := signAppleToken(t, privateKey, "kid-1", appleClaims(JwtIssuer, testClientID, "s", stdlibtime.Now().Add(-stdlibtime.Hour)))
	_, err := verifier.VerifyIDToken(context.Background(), idToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyIDTokenRefetchesOnceOnKeyRotation(t *testing.T) {
	t.Parallel()
	oldKey, oldJWK := generateSigningKey(t, "kid-old")
	newKey, newJWK := generateSigningKey(t, "kid-new")
	srv := new(keySetServer)
	srv.serve(t, oldJWK)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	// Warm the cache with the pre-rotation snapshot.
	_, err := verifier.VerifyIDToken(context.Background(), signAppleToken(t, oldKey, "kid-old", appleClaims(JwtIssuer, testClientID, "s", stdlibtime.Now().Add(stdlibtime.Hour))))
	require.NoError(t, err)
	require.Equal(t, 1, srv.fetchCount())

	srv.serve(t, newJWK)
	token, err := verifier.VerifyIDToken(context.Background(), signAppleToken(t, newKey, "kid-new", appleClaims(JwtIssuer, testClientID, "rotated-sub", stdlibtime.Now().Add(stdlibtime.Hour))))
	require.NoError(t, err)
	assert.Equal(t, "rotated-sub", token.UserID)
	assert.Equal(t, 2, srv.fetchCount())
}

func TestVerifyIDTokenUnknownKeyAfterRefetch(t *testing.T) {
	t.Parallel()
	_, publicJWK := generateSigningKey(t, "kid-1")
	strangerKey, _ := generateSigningKey(t, "kid-unknown")
	srv := new(keySetServer)
	srv.serve(t, publicJWK)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	_, err := verifier.VerifyIDToken(context.Background(), signAppleToken(t, strangerKey, "kid-unknown", appleClaims(JwtIssuer, testClientID, "s", stdlibtime.Now().Add(stdlibtime.Hour))))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 2, srv.fetchCount(), "the key set has to be refetched exactly once")
}

func TestFetchSigningKeysSkipsMalformedEntries(t *testing.T) {
	t.Parallel()
	_, goodJWK := generateSigningKey(t, "kid-good")
	srv := new(keySetServer)
	srv.serve(t,
		goodJWK,
		&jwk{Kty: "RSA", Kid: "kid-broken", N: "#### not base64url ####", E: "AQAB"},
		&jwk{Kty: "EC", Kid: "kid-ec", N: "AQAB", E: "AQAB"},
		&jwk{Kty: "RSA", Kid: ""})
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	keys, err := verifier.FetchSigningKeys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Contains(t, keys, "kid-good")
}

func TestFetchSigningKeysMalformedKeySet(t *testing.T) {
	t.Parallel()
	srv := new(keySetServer)
	srv.serve(t, &jwk{Kty: "RSA", Kid: "kid-broken", N: "#### not base64url ####", E: "AQAB"})
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	_, err := verifier.FetchSigningKeys(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedKeySet)
}

func TestFetchSigningKeysUpstreamFailure(t *testing.T) {
	t.Parallel()
	httpSrv := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer httpSrv.Close()
	verifier := newTestVerifier(t, httpSrv.URL)

	_, err := verifier.FetchSigningKeys(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}
