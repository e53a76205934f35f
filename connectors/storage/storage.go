// SPDX-License-Identifier: ice License 1.0

package storage

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	appCfg "github.com/ice-blockchain/siwa/config"
	"github.com/ice-blockchain/siwa/log"
)

func MustConnect(ctx context.Context, ddl, applicationYAMLKey string) *DB {
	var cfg config
	appCfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	var replicas []*pgxpool.Pool
	var master *pgxpool.Pool
	if cfg.Storage.PrimaryURL != "" {
		master = mustConnectPool(ctx, cfg.Storage.PrimaryURL)
	}
	for ix, url := range cfg.Storage.ReplicaURLs {
		if ix == 0 {
			replicas = make([]*pgxpool.Pool, len(cfg.Storage.ReplicaURLs)) //nolint:makezero // Not needed, we know the size.
		}
		replicas[ix] = mustConnectPool(ctx, url)
	}
	if master != nil && ddl != "" && cfg.Storage.RunDDL {
		for _, statement := range strings.Split(ddl, "----") {
			_, err := master.Exec(ctx, statement)
			log.Panic(errors.Wrapf(err, "failed to run statement: %v", statement))
		}
	}

	return &DB{master: master, lb: &lb{replicas: replicas}}
}

func mustConnectPool(ctx context.Context, url string) (db *pgxpool.Pool) {
	poolConfig, err := pgxpool.ParseConfig(url)
	log.Panic(errors.Wrapf(err, "failed to parse pool config: %v", url)) //nolint:revive // Intended.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		var res int
		if qErr := conn.QueryRow(ctx, `SELECT 1`).Scan(&res); qErr != nil {
			return errors.Wrapf(qErr, "dummy select failed")
		}
		if res != 1 {
			return errors.New("db validation failed")
		}

		return nil
	}
	db, err = pgxpool.NewWithConfig(ctx, poolConfig)
	log.Panic(errors.Wrapf(err, "failed to start pool for config: %v", url))

	return db
}

func (db *DB) Close() error {
	db.master.Close()
	for _, replica := range db.lb.replicas {
		replica.Close()
	}

	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return errors.Wrap(db.master.Ping(ctx), "primary ping failed")
}

func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.replica().Query(ctx, sql, args...) //nolint:wrapcheck // We have nothing relevant to wrap.
}

func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.primary().Exec(ctx, sql, args...) //nolint:wrapcheck // We have nothing relevant to wrap.
}

func (db *DB) primary() *pgxpool.Pool {
	return db.master
}

func (db *DB) replica() *pgxpool.Pool {
	if len(db.lb.replicas) == 0 {
		return db.master
	}

	return db.lb.replicas[atomic.AddUint64(&db.lb.currentIndex, 1)%uint64(len(db.lb.replicas))]
}
