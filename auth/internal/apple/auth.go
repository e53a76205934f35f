// SPDX-License-Identifier: ice License 1.0

package appleauth

import (
	"context"
	"fmt"
	"os"
	"strings"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/imroc/req/v3"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/auth/internal"
	appCfg "github.com/ice-blockchain/siwa/config"
	"github.com/ice-blockchain/siwa/log"
)

func init() { //nolint:gochecknoinits // It's the only way to tweak the client.
	req.DefaultClient().SetJsonMarshal(json.Marshal)
	req.DefaultClient().SetJsonUnmarshal(json.Unmarshal)
	req.DefaultClient().GetClient().Timeout = requestDeadline
}

func New(ctx context.Context, applicationYAMLKey string) Client {
	var cfg config
	appCfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	cfg.loadClientID(applicationYAMLKey)
	if cfg.AuthApple.JWKSURL == "" {
		cfg.AuthApple.JWKSURL = JwtIssuer + "/auth/keys"
	}
	if cfg.AuthApple.JWKSCacheTTL == 0 {
		cfg.AuthApple.JWKSCacheTTL = 10 * stdlibtime.Minute //nolint:gomnd // Default.
	}
	cl := &auth{cfg: &cfg, cache: gocache.New(cfg.AuthApple.JWKSCacheTTL, 2*cfg.AuthApple.JWKSCacheTTL)} //nolint:gomnd // .
	warmUpCtx, cancel := context.WithTimeout(ctx, requestDeadline)
	defer cancel()
	if _, err := cl.signingKeys(warmUpCtx, false); err != nil {
		log.Error(errors.Wrapf(err, "[%v] failed to warm up the apple signing key cache", applicationYAMLKey))
	}

	return cl
}

func (a *auth) VerifyIDToken(ctx context.Context, idToken string) (*internal.Token, error) {
	keys, err := a.signingKeys(ctx, false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch apple signing keys")
	}
	var appleToken Token
	if err = a.verifyTokenFields(idToken, keys, &appleToken); err != nil && errors.Is(err, ErrUnknownSigningKey) {
		// Unknown kid usually means the provider rotated its keys, so the snapshot is refetched exactly once.
		if keys, err = a.signingKeys(ctx, true); err != nil {
			return nil, errors.Wrapf(err, "failed to refetch apple signing keys")
		}
		err = a.verifyTokenFields(idToken, keys, &appleToken)
	}
	if err != nil {
		if errors.Is(err, ErrUnknownSigningKey) {
			return nil, errors.Wrapf(ErrInvalidToken, "no signing key found for token:%v", idToken)
		}

		return nil, errors.Wrapf(err, "invalid apple token:%v", idToken)
	}
	if err = a.verifyAudience(&appleToken); err != nil {
		return nil, errors.Wrapf(err, "invalid apple token:%v", idToken)
	}

	return &internal.Token{
		Claims: map[string]any{
			"email":      appleToken.Email,
			"givenName":  appleToken.GivenName,
			"familyName": appleToken.FamilyName,
		},
		UserID:     appleToken.Subject,
		Email:      appleToken.Email,
		GivenName:  appleToken.GivenName,
		FamilyName: appleToken.FamilyName,
		Provider:   JwtIssuer,
	}, nil
}

func (a *auth) verifyTokenFields(jwtToken string, keys KeySet, res jwt.Claims) error {
	if _, err := jwt.ParseWithClaims(jwtToken, res, a.verify(keys)); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return errors.Wrapf(ErrExpiredToken, "expired or not valid yet token:%v", jwtToken)
		}
		if errors.Is(err, ErrUnknownSigningKey) || errors.Is(err, ErrInvalidToken) {
			return err //nolint:wrapcheck // It's already one of ours.
		}

		return errors.Wrapf(ErrInvalidToken, "invalid token:%v, cause:%v", jwtToken, err)
	}

	return nil
}

func (a *auth) verify(keys KeySet) func(token *jwt.Token) (any, error) {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok || token.Method.Alg() != jwt.SigningMethodRS256.Name {
			return nil, errors.Wrapf(ErrInvalidToken, "unexpected signing method:%v", token.Header["alg"])
		}
		if iss, err := token.Claims.GetIssuer(); err != nil || iss != JwtIssuer {
			return nil, errors.Wrapf(ErrInvalidToken, "invalid issuer:%v", iss)
		}
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.Wrap(ErrInvalidToken, "missing kid header")
		}
		publicKey, found := keys[kid]
		if !found {
			return nil, errors.Wrapf(ErrUnknownSigningKey, "no signing key for kid:%v", kid)
		}

		return publicKey, nil
	}
}

func (a *auth) verifyAudience(appleToken *Token) error {
	audience, err := appleToken.GetAudience()
	if err != nil {
		return errors.Wrapf(ErrInvalidToken, "invalid audience, cause:%v", err)
	}
	for _, aud := range audience {
		if aud == a.cfg.AuthApple.ClientID {
			return nil
		}
	}

	return errors.Wrapf(ErrInvalidToken, "invalid audience:%v", audience)
}

func (a *auth) signingKeys(ctx context.Context, refetch bool) (KeySet, error) {
	if !refetch {
		if cached, found := a.cache.Get(signingKeysCacheKey); found {
			return cached.(KeySet), nil //nolint:forcetypeassert // We know for sure.
		}
	}
	keys, err := a.FetchSigningKeys(ctx)
	if err != nil {
		return nil, err
	}
	a.cache.SetDefault(signingKeysCacheKey, keys)

	return keys, nil
}

func (cfg *config) loadClientID(applicationYAMLKey string) {
	if cfg.AuthApple.ClientID == "" {
		module := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(applicationYAMLKey, "-", "_"), "/", "_"))
		cfg.AuthApple.ClientID = os.Getenv(fmt.Sprintf("%s_APPLE_CLIENT_ID", module))
		if cfg.AuthApple.ClientID == "" {
			cfg.AuthApple.ClientID = os.Getenv("APPLE_CLIENT_ID")
		}
	}
}
