// SPDX-License-Identifier: ice License 1.0

package auth

import (
	"context"

	"github.com/ice-blockchain/siwa/auth/internal"
	appleauth "github.com/ice-blockchain/siwa/auth/internal/apple"
	sessionauth "github.com/ice-blockchain/siwa/auth/internal/session"
	"github.com/ice-blockchain/siwa/time"
)

// Public API.

const (
	AppleIssuer = appleauth.JwtIssuer
)

var (
	ErrInvalidToken      = sessionauth.ErrInvalidToken
	ErrExpiredToken      = sessionauth.ErrExpiredToken
	ErrInvalidAppleToken = appleauth.ErrInvalidToken
	ErrExpiredAppleToken = appleauth.ErrExpiredToken
)

type (
	// Token is the verified identity extracted from either a federated apple token or an access token we issued ourselves.
	Token = internal.Token

	IceToken = sessionauth.Token

	Client interface {
		VerifyAppleIDToken(ctx context.Context, idToken string) (*Token, error)
		VerifyToken(token string) (*Token, error)
		ParseToken(accessToken string, validateLifetime bool) (*IceToken, error)
		GenerateAccessToken(now *time.Time, userID, username, email, givenName, familyName string) (accessToken string, expiresAt *time.Time, err error)
	}
)

// Private API.

type (
	auth struct {
		apple   appleauth.Client
		session sessionauth.Client
	}
)
