// SPDX-License-Identifier: ice License 1.0

package sessionauth

import (
	stdlibtime "time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/auth/internal"
	"github.com/ice-blockchain/siwa/time"
)

// Public API.

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

type (
	Client interface {
		GenerateAccessToken(now *time.Time, userID, username, email, givenName, familyName string) (accessToken string, expiresAt *time.Time, err error)
		VerifyToken(token string) (*internal.Token, error)
		ParseTokenFields(token string, res jwt.Claims, validateLifetime bool) error
	}

	Token struct {
		jwt.RegisteredClaims
		Username   string `json:"username,omitempty"`
		Email      string `json:"email,omitempty"`
		GivenName  string `json:"givenName,omitempty"`
		FamilyName string `json:"familyName,omitempty"`
	}
)

// Private API.

const (
	defaultAccessExpirationTime = 30 * stdlibtime.Minute
)

type (
	auth struct {
		cfg *config
	}

	config struct {
		AuthSession struct {
			JWTSecret            string              `yaml:"jwtSecret" mapstructure:"jwtSecret"` //nolint:tagliatelle // Nope.
			Issuer               string              `yaml:"issuer" mapstructure:"issuer"`
			Audience             string              `yaml:"audience" mapstructure:"audience"`
			AccessExpirationTime stdlibtime.Duration `yaml:"accessExpirationTime" mapstructure:"accessExpirationTime"`
		} `yaml:"auth/session" mapstructure:"auth/session"` //nolint:tagliatelle // Nope.
	}
)
