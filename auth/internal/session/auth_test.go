// SPDX-License-Identifier: ice License 1.0

package sessionauth

import (
	"testing"
	stdlibtime "time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/siwa/time"
)

func newTestIssuer(tb testing.TB, secret string) *auth {
	tb.Helper()
	cfg := new(config)
	cfg.AuthSession.JWTSecret = secret
	cfg.AuthSession.Issuer = "siwa-test"
	cfg.AuthSession.Audience = "siwa-test-clients"
	cfg.AuthSession.AccessExpirationTime = defaultAccessExpirationTime

	return &auth{cfg: cfg}
}

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	t.Parallel()
	issuer := newTestIssuer(t, "super-secret")
	now := time.Now()

	accessToken, expiresAt, err := issuer.GenerateAccessToken(now, "user-1", "jdoe", "jdoe@example.com", "John", "Doe")
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotNil(t, expiresAt)
	assert.Equal(t, now.Add(defaultAccessExpirationTime), *expiresAt.Time)

	token, err := issuer.VerifyToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", token.UserID)
	assert.Equal(t, "jdoe", token.Username)
	assert.Equal(t, "jdoe@example.com", token.Email)
	assert.Equal(t, "John", token.GivenName)
	assert.Equal(t, "Doe", token.FamilyName)
	assert.Equal(t, "siwa-test", token.Provider)
}

func TestVerifyTokenRejectsBogusTokens(t *testing.T) {
	t.Parallel()
	issuer := newTestIssuer(t, "super-secret")
	stranger := newTestIssuer(t, "some-other-secret")
	wrongIssuer := newTestIssuer(t, "super-secret")
	wrongIssuer.cfg.AuthSession.Issuer = "somebody-else"
	wrongAudience := newTestIssuer(t, "super-secret")
	wrongAudience.cfg.AuthSession.Audience = "somebody-elses-clients"
	now := time.Now()

	strangerToken, _, err := stranger.GenerateAccessToken(now, "user-1", "jdoe", "", "", "")
	require.NoError(t, err)
	wrongIssuerToken, _, err := wrongIssuer.GenerateAccessToken(now, "user-1", "jdoe", "", "", "")
	require.NoError(t, err)
	wrongAudienceToken, _, err := wrongAudience.GenerateAccessToken(now, "user-1", "jdoe", "", "", "")
	require.NoError(t, err)

	for name, accessToken := range map[string]string{
		"garbage":        "definitely.not.a-jwt",
		"wrong secret":   strangerToken,
		"wrong issuer":   wrongIssuerToken,
		"wrong audience": wrongAudienceToken,
	} {
		_, vErr := issuer.VerifyToken(accessToken)
		require.Error(t, vErr, name)
		assert.ErrorIs(t, vErr, ErrInvalidToken, name)
	}
}

func TestVerifyTokenRejectsEmptyClaimsPayload(t *testing.T) {
	t.Parallel()
	issuer := newTestIssuer(t, "super-secret")
	emptyToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, vErr := issuer.VerifyToken(emptyToken)
	require.Error(t, vErr)
	assert.ErrorIs(t, vErr, ErrInvalidToken)

	var claims Token
	vErr = issuer.ParseTokenFields(emptyToken, &claims, false)
	require.Error(t, vErr)
	assert.ErrorIs(t, vErr, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	t.Parallel()
	issuer := newTestIssuer(t, "super-secret")
	longAgo := time.New(stdlibtime.Now().Add(-24 * stdlibtime.Hour))

	accessToken, _, err := issuer.GenerateAccessToken(longAgo, "user-1", "jdoe", "", "", "")
	require.NoError(t, err)

	_, err = issuer.VerifyToken(accessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenFieldsSkipsLifetimeButNotSignature(t *testing.T) {
	t.Parallel()
	issuer := newTestIssuer(t, "super-secret")
	stranger := newTestIssuer(t, "some-other-secret")
	longAgo := time.New(stdlibtime.Now().Add(-24 * stdlibtime.Hour))

	expiredToken, _, err := issuer.GenerateAccessToken(longAgo, "user-1", "jdoe", "jdoe@example.com", "", "")
	require.NoError(t, err)
	forgedToken, _, err := stranger.GenerateAccessToken(longAgo, "user-1", "jdoe", "", "", "")
	require.NoError(t, err)

	var claims Token
	require.NoError(t, issuer.ParseTokenFields(expiredToken, &claims, false))
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "jdoe@example.com", claims.Email)

	var forgedClaims Token
	err = issuer.ParseTokenFields(forgedToken, &forgedClaims, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)

	var expiredClaims Token
	err = issuer.ParseTokenFields(expiredToken, &expiredClaims, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
