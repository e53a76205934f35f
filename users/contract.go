// SPDX-License-Identifier: ice License 1.0

package users

import (
	"context"
	_ "embed"
	"io"
	stdlibtime "time"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/auth"
	"github.com/ice-blockchain/siwa/connectors/storage"
	"github.com/ice-blockchain/siwa/time"
)

// Public API.

var (
	ErrNotFound              = storage.ErrNotFound
	ErrDuplicate             = storage.ErrDuplicate
	ErrMissingRequiredClaims = errors.New("missing required claims")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
)

type (
	User struct {
		CreatedAt             *time.Time `json:"createdAt,omitempty" db:"created_at"`
		UpdatedAt             *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
		RefreshTokenExpiresAt *time.Time `json:"-" db:"refresh_token_expires_at"`
		ID                    string     `json:"id" db:"id"`
		Username              string     `json:"username" db:"username"`
		Email                 string     `json:"email" db:"email"`
		GivenName             string     `json:"givenName,omitempty" db:"given_name"`
		FamilyName            string     `json:"familyName,omitempty" db:"family_name"`
		RefreshToken          string     `json:"-" db:"refresh_token"`
	}

	Tokens struct {
		Expires      *time.Time `json:"Expires" swaggertype:"string"` //nolint:tagliatelle // It's the wire contract.
		AccessToken  string     `json:"AccessToken"`                  //nolint:tagliatelle // It's the wire contract.
		RefreshToken string     `json:"RefreshToken"`                 //nolint:tagliatelle // It's the wire contract.
	}

	Processor interface {
		io.Closer
		SignInWithApple(ctx context.Context, appleIDToken string) (*Tokens, error)
		RegenerateTokens(ctx context.Context, expiredAccessToken, refreshToken string) (*Tokens, error)
		CheckHealth(ctx context.Context) error
	}
)

// Private API.

const (
	defaultRefreshExpirationTime = 720 * stdlibtime.Hour
)

var (
	//go:embed DDL.sql
	ddl string
)

type (
	userStore interface {
		io.Closer
		getUserByID(ctx context.Context, userID string) (*User, error)
		createUser(ctx context.Context, usr *User) error
		storeRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt *time.Time) error
		checkHealth(ctx context.Context) error
	}

	processor struct {
		cfg        *config
		authClient auth.Client
		users      userStore
	}

	dbUserStore struct {
		db *storage.DB
	}

	config struct {
		RefreshExpirationTime stdlibtime.Duration `yaml:"refreshExpirationTime" mapstructure:"refreshExpirationTime"`
	}
)
