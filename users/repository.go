// SPDX-License-Identifier: ice License 1.0

package users

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/connectors/storage"
	"github.com/ice-blockchain/siwa/time"
)

func (s *dbUserStore) getUserByID(ctx context.Context, userID string) (*User, error) {
	sql := `SELECT * FROM users WHERE id = $1`
	usr, err := storage.Get[User](ctx, s.db, sql, userID)

	return usr, errors.Wrapf(err, "failed to select user by id:%v", userID)
}

func (s *dbUserStore) createUser(ctx context.Context, usr *User) error {
	sql := `INSERT INTO users (created_at, updated_at, id, username, email, given_name, family_name)
					VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := storage.Exec(ctx, s.db, sql, usr.CreatedAt, usr.UpdatedAt, usr.ID, usr.Username, usr.Email, usr.GivenName, usr.FamilyName)

	return errors.Wrapf(err, "failed to insert user %#v", usr)
}

func (s *dbUserStore) storeRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt *time.Time) error {
	sql := `UPDATE users
				SET updated_at = $1,
					refresh_token = $2,
					refresh_token_expires_at = $3
				WHERE id = $4`
	affectedRows, err := storage.Exec(ctx, s.db, sql, time.Now(), refreshToken, expiresAt, userID)
	if err != nil {
		return errors.Wrapf(err, "failed to store refresh token for userID:%v", userID)
	}
	if affectedRows == 0 {
		return errors.Wrapf(ErrNotFound, "no user to store refresh token for, userID:%v", userID)
	}

	return nil
}

func (s *dbUserStore) checkHealth(ctx context.Context) error {
	return errors.Wrap(s.db.Ping(ctx), "failed to ping the db")
}

func (s *dbUserStore) Close() error {
	return errors.Wrap(s.db.Close(), "failed to close the db")
}
