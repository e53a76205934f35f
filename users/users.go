// SPDX-License-Identifier: ice License 1.0

package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/auth"
	appCfg "github.com/ice-blockchain/siwa/config"
	"github.com/ice-blockchain/siwa/connectors/storage"
	"github.com/ice-blockchain/siwa/time"
)

func StartProcessor(ctx context.Context, applicationYAMLKey string) Processor {
	var cfg config
	appCfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.RefreshExpirationTime == 0 {
		cfg.RefreshExpirationTime = defaultRefreshExpirationTime
	}

	return &processor{
		cfg:        &cfg,
		authClient: auth.New(ctx, applicationYAMLKey),
		users:      &dbUserStore{db: storage.MustConnect(ctx, ddl, applicationYAMLKey)},
	}
}

func (p *processor) Close() error {
	return errors.Wrap(p.users.Close(), "failed to close user store")
}

func (p *processor) CheckHealth(ctx context.Context) error {
	return errors.Wrap(p.users.checkHealth(ctx), "user store health check failed")
}

func (p *processor) SignInWithApple(ctx context.Context, appleIDToken string) (*Tokens, error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "unexpected deadline")
	}
	federatedToken, err := p.authClient.VerifyAppleIDToken(ctx, appleIDToken)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to verify apple id token")
	}
	if federatedToken.UserID == "" || federatedToken.Email == "" {
		return nil, errors.Wrapf(ErrMissingRequiredClaims, "apple id token carries no sub or email claim")
	}
	usr, err := p.findOrCreateUser(ctx, federatedToken)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find or create user for sub:%v", federatedToken.UserID)
	}

	return p.issueSession(ctx, usr)
}

func (p *processor) RegenerateTokens(ctx context.Context, expiredAccessToken, refreshToken string) (*Tokens, error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "unexpected deadline")
	}
	claims, err := p.authClient.ParseToken(expiredAccessToken, false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse the expired access token")
	}
	usr, err := p.users.getUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errors.Wrapf(ErrInvalidRefreshToken, "no user for userID:%v", claims.Subject)
		}

		return nil, errors.Wrapf(err, "failed to get user by userID:%v", claims.Subject)
	}
	// Only the newest session can be renewed; issuing a session invalidates the refresh token of any previous one.
	if refreshToken == "" || usr.RefreshToken != refreshToken ||
		usr.RefreshTokenExpiresAt == nil || usr.RefreshTokenExpiresAt.Before(*time.Now().Time) {
		return nil, errors.Wrapf(ErrInvalidRefreshToken, "mismatched or expired refresh token for userID:%v", usr.ID)
	}

	return p.issueSession(ctx, usr)
}

func (p *processor) findOrCreateUser(ctx context.Context, federatedToken *auth.Token) (*User, error) {
	usr, err := p.users.getUserByID(ctx, federatedToken.UserID)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrapf(err, "failed to get user by userID:%v", federatedToken.UserID)
	}
	now := time.Now()
	usr = &User{
		CreatedAt:  now,
		UpdatedAt:  now,
		ID:         federatedToken.UserID,
		Username:   federatedToken.Email,
		Email:      federatedToken.Email,
		GivenName:  federatedToken.GivenName,
		FamilyName: federatedToken.FamilyName,
	}
	if cErr := p.users.createUser(ctx, usr); cErr != nil {
		if storage.IsErr(cErr, ErrDuplicate, "pk") {
			// Lost the creation race, so the winner's row is authoritative.
			return p.users.getUserByID(ctx, federatedToken.UserID)
		}

		return nil, errors.Wrapf(cErr, "failed to create user for userID:%v", federatedToken.UserID)
	}

	return usr, nil
}

func (p *processor) issueSession(ctx context.Context, usr *User) (*Tokens, error) {
	now := time.Now()
	accessToken, _, err := p.authClient.GenerateAccessToken(now, usr.ID, usr.Username, usr.Email, usr.GivenName, usr.FamilyName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate access token for userID:%v", usr.ID)
	}
	refreshToken := uuid.NewString()
	refreshTokenExpiresAt := time.New(now.Add(p.cfg.RefreshExpirationTime))
	if err = p.users.storeRefreshToken(ctx, usr.ID, refreshToken, refreshTokenExpiresAt); err != nil {
		return nil, errors.Wrapf(err, "failed to store refresh token for userID:%v", usr.ID)
	}

	return &Tokens{AccessToken: accessToken, RefreshToken: refreshToken, Expires: refreshTokenExpiresAt}, nil
}
