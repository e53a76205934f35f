// SPDX-License-Identifier: ice License 1.0

package appleauth

import (
	"context"
	"crypto/rsa"
	stdlibtime "time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/auth/internal"
)

// Public API.

const (
	JwtIssuer = "https://appleid.apple.com"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("expired token")
	ErrUnknownSigningKey = errors.New("unknown signing key")
	ErrMalformedKeySet   = errors.New("malformed key set")
)

type (
	// KeySet is an immutable snapshot of the provider's published signing keys, indexed by key id.
	KeySet map[string]*rsa.PublicKey

	Client interface {
		VerifyIDToken(ctx context.Context, idToken string) (*internal.Token, error)
		FetchSigningKeys(ctx context.Context) (KeySet, error)
	}

	Token struct {
		jwt.RegisteredClaims
		Email      string `json:"email,omitempty"`
		GivenName  string `json:"given_name,omitempty"`  //nolint:tagliatelle // It's Apple's naming.
		FamilyName string `json:"family_name,omitempty"` //nolint:tagliatelle // It's Apple's naming.
	}
)

// Private API.

const (
	requestDeadline = 5 * stdlibtime.Second

	signingKeysCacheKey = "signingKeys"
)

type (
	auth struct {
		cfg   *config
		cache *gocache.Cache
	}

	config struct {
		AuthApple struct {
			ClientID     string              `yaml:"clientId" mapstructure:"clientId"`
			JWKSURL      string              `yaml:"jwksURL" mapstructure:"jwksURL"`           //nolint:tagliatelle // Nope.
			JWKSCacheTTL stdlibtime.Duration `yaml:"jwksCacheTTL" mapstructure:"jwksCacheTTL"` //nolint:tagliatelle // Nope.
		} `yaml:"auth/apple" mapstructure:"auth/apple"` //nolint:tagliatelle // Nope.
	}

	jwk struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Use string `json:"use"`
		Alg string `json:"alg"`
		N   string `json:"n"`
		E   string `json:"e"`
	}
	jwks struct {
		Keys []*jwk `json:"keys"`
	}
)
