// SPDX-License-Identifier: ice License 1.0

package sessionauth

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/auth/internal"
	appCfg "github.com/ice-blockchain/siwa/config"
	"github.com/ice-blockchain/siwa/log"
	"github.com/ice-blockchain/siwa/time"
)

func New(applicationYAMLKey string) Client {
	var cfg config
	appCfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	cfg.loadSecret(applicationYAMLKey)
	if cfg.AuthSession.AccessExpirationTime == 0 {
		cfg.AuthSession.AccessExpirationTime = defaultAccessExpirationTime
	}
	if cfg.AuthSession.JWTSecret == "" {
		log.Panic(errors.Errorf("[%v] no jwt secret provided", applicationYAMLKey))
	}

	return &auth{cfg: &cfg}
}

func (a *auth) GenerateAccessToken(now *time.Time, userID, username, email, givenName, familyName string) (string, *time.Time, error) {
	expiresAt := time.New(now.Add(a.cfg.AuthSession.AccessExpirationTime))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.cfg.AuthSession.Issuer,
			Audience:  jwt.ClaimStrings{a.cfg.AuthSession.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(*now.Time),
			NotBefore: jwt.NewNumericDate(*now.Time),
			ExpiresAt: jwt.NewNumericDate(*expiresAt.Time),
		},
		Username:   username,
		Email:      email,
		GivenName:  givenName,
		FamilyName: familyName,
	})
	accessToken, err := token.SignedString([]byte(a.cfg.AuthSession.JWTSecret))

	return accessToken, expiresAt, errors.Wrapf(err, "failed to sign access token for userID:%v", userID)
}

func (a *auth) VerifyToken(token string) (*internal.Token, error) {
	var claims Token
	if err := a.ParseTokenFields(token, &claims, true); err != nil {
		return nil, err
	}

	return &internal.Token{
		UserID:     claims.Subject,
		Username:   claims.Username,
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Provider:   a.cfg.AuthSession.Issuer,
	}, nil
}

// ParseTokenFields extracts the claims of an access token we issued ourselves.
// The signature and the issuer are always enforced; the lifetime check is optional
// because session renewal has to accept the expired access token it is replacing.
func (a *auth) ParseTokenFields(jwtToken string, res jwt.Claims, validateLifetime bool) error {
	var opts []jwt.ParserOption
	if !validateLifetime {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	if _, err := jwt.ParseWithClaims(jwtToken, res, a.verify(), opts...); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return errors.Wrapf(ErrExpiredToken, "expired or not valid yet token:%v", jwtToken)
		}
		if errors.Is(err, ErrInvalidToken) {
			return err //nolint:wrapcheck // It's already one of ours.
		}

		return errors.Wrapf(ErrInvalidToken, "invalid token:%v, cause:%v", jwtToken, err)
	}

	return nil
}

func (a *auth) verify() func(token *jwt.Token) (any, error) {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok || token.Method.Alg() != jwt.SigningMethodHS256.Name {
			return nil, errors.Wrapf(ErrInvalidToken, "unexpected signing method:%v", token.Header["alg"])
		}
		if iss, err := token.Claims.GetIssuer(); err != nil || iss != a.cfg.AuthSession.Issuer {
			return nil, errors.Wrapf(ErrInvalidToken, "invalid issuer:%v", iss)
		}
		audience, err := token.Claims.GetAudience()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidToken, "invalid audience, cause:%v", err)
		}
		audienceMatches := false
		for _, aud := range audience {
			if aud == a.cfg.AuthSession.Audience {
				audienceMatches = true

				break
			}
		}
		if !audienceMatches {
			return nil, errors.Wrapf(ErrInvalidToken, "invalid audience:%v", audience)
		}

		return []byte(a.cfg.AuthSession.JWTSecret), nil
	}
}

func (cfg *config) loadSecret(applicationYAMLKey string) {
	if cfg.AuthSession.JWTSecret == "" {
		module := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(applicationYAMLKey, "-", "_"), "/", "_"))
		cfg.AuthSession.JWTSecret = os.Getenv(fmt.Sprintf("%s_JWT_SECRET", module))
		if cfg.AuthSession.JWTSecret == "" {
			cfg.AuthSession.JWTSecret = os.Getenv("JWT_SECRET")
		}
	}
}
