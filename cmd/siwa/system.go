// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/server"
)

func (s *service) setupSystemRoutes(router *server.Router) {
	router.
		GET("about", server.RootHandler(s.GetAbout)).
		GET(".well-known/apple-app-site-association", server.RootHandler(s.GetAppleAppSiteAssociation))
}

// GetAbout godoc
//
//	@Schemes
//	@Description	Returns the build information of the running binary.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	About
//	@Router			/about [get]
func (s *service) GetAbout( //nolint:gocritic // False negative.
	_ context.Context,
	_ *server.Request[GetAboutArg, About],
) (*server.Response[About], *server.Response[server.ErrorResponse]) {
	resp := &About{Version: "latest"}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			resp.Version = buildInfo.Main.Version
		}
		resp.GoVersion = buildInfo.GoVersion
	}

	return server.OK(resp), nil
}

// GetAppleAppSiteAssociation godoc
//
//	@Schemes
//	@Description	Serves the apple-app-site-association document required for universal links.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		404	{object}	server.ErrorResponse	"if no document is configured"
//	@Router			/.well-known/apple-app-site-association [get]
func (s *service) GetAppleAppSiteAssociation( //nolint:gocritic // False negative.
	_ context.Context,
	_ *server.Request[GetAppleAppSiteAssociationArg, map[string]any],
) (*server.Response[map[string]any], *server.Response[server.ErrorResponse]) {
	content, err := os.ReadFile(cfg.AppleAppSiteAssociationPath)
	if err != nil {
		return nil, server.NotFound(errors.Wrapf(err, "failed to read `%v`", cfg.AppleAppSiteAssociationPath), "not found")
	}
	var payload map[string]any
	if err = json.Unmarshal(content, &payload); err != nil {
		return nil, server.Unexpected(errors.Wrapf(err, "malformed document at `%v`", cfg.AppleAppSiteAssociationPath))
	}

	return server.OK(&payload), nil
}
