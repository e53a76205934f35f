// SPDX-License-Identifier: ice License 1.0

package auth

import (
	"context"

	"github.com/pkg/errors"

	appleauth "github.com/ice-blockchain/siwa/auth/internal/apple"
	sessionauth "github.com/ice-blockchain/siwa/auth/internal/session"
	"github.com/ice-blockchain/siwa/time"
)

func New(ctx context.Context, applicationYAMLKey string) Client {
	return &auth{
		apple:   appleauth.New(ctx, applicationYAMLKey),
		session: sessionauth.New(applicationYAMLKey),
	}
}

func (a *auth) VerifyAppleIDToken(ctx context.Context, idToken string) (*Token, error) {
	token, err := a.apple.VerifyIDToken(ctx, idToken)

	return token, errors.Wrapf(err, "failed to verify apple id token")
}

func (a *auth) VerifyToken(token string) (*Token, error) {
	resp, err := a.session.VerifyToken(token)

	return resp, errors.Wrapf(err, "failed to verify access token")
}

func (a *auth) ParseToken(accessToken string, validateLifetime bool) (*IceToken, error) {
	res := new(IceToken)
	if err := a.session.ParseTokenFields(accessToken, res, validateLifetime); err != nil {
		return nil, errors.Wrapf(err, "failed to parse access token fields")
	}

	return res, nil
}

func (a *auth) GenerateAccessToken(now *time.Time, userID, username, email, givenName, familyName string) (string, *time.Time, error) {
	accessToken, expiresAt, err := a.session.GenerateAccessToken(now, userID, username, email, givenName, familyName)

	return accessToken, expiresAt, errors.Wrapf(err, "failed to generate access token for userID:%v", userID)
}
