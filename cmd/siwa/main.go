// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	_ "github.com/ice-blockchain/siwa/cmd/siwa/api" // swagger docs.
	appCfg "github.com/ice-blockchain/siwa/config"
	"github.com/ice-blockchain/siwa/server"
	"github.com/ice-blockchain/siwa/users"
)

// @title        Sign in with Apple Gateway API
// @version      latest
// @description  API that exchanges apple issued id tokens for first party sessions.
// @query.collection.format multi
// @schemes      https
// @contact.name ice.io
// @contact.url  https://ice.io
// @BasePath     /v1
func main() {
	appCfg.MustLoadFromKey(applicationYamlKey, &cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server.New(new(service), applicationYamlKey, swaggerRoot).ListenAndServe(ctx, cancel)
}

func (s *service) Init(ctx context.Context, _ context.CancelFunc) {
	s.usersProcessor = users.StartProcessor(ctx, applicationYamlKey)
}

func (s *service) Close(_ context.Context) error {
	return errors.Wrap(s.usersProcessor.Close(), "could not close users processor")
}

func (s *service) CheckHealth(ctx context.Context) error {
	return errors.Wrap(s.usersProcessor.CheckHealth(ctx), "users processor health check failed")
}

func (s *service) RegisterRoutes(router *server.Router) {
	s.setupAuthRoutes(router)
	s.setupSystemRoutes(router)
}
