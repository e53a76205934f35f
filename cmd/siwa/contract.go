// SPDX-License-Identifier: ice License 1.0

package main

import (
	"github.com/ice-blockchain/siwa/users"
)

// Public API.

type (
	// SignInWithAppleArg carries everything needed to exchange an apple issued id token for a first party session.
	SignInWithAppleArg struct {
		// The apple issued id token, like `Bearer <idToken>`.
		Authorization string `header:"Authorization" swaggerignore:"true" allowUnauthorized:"true"`
	}
	// RefreshTokensArg carries everything needed to renew an existing session.
	RefreshTokensArg struct {
		Authorization string `header:"Authorization" swaggerignore:"true" allowUnauthorized:"true"`
		RefreshToken  string `json:"refreshToken" required:"true" example:"70d1bef8-ffa3-47bb-a0b7-68082a4be7b5"`
	}
	GetAboutArg struct {
		_ struct{} `allowUnauthorized:"true" allowAnonymous:"true"` //nolint:revive // It's processed by the router.
	}
	About struct {
		Version   string `json:"version" example:"v0.1.0"`
		GoVersion string `json:"goVersion" example:"go1.25"`
	}
	GetAppleAppSiteAssociationArg struct {
		_ struct{} `allowUnauthorized:"true" allowAnonymous:"true"` //nolint:revive // It's processed by the router.
	}
)

// Private API.

const (
	applicationYamlKey = "cmd/siwa"
	swaggerRoot        = "/auth"

	invalidAuthorizationHeaderMessage = "Missing or invalid Authorization header"
	missingRequiredClaimsMessage      = "missing required claims"
	invalidAppleJWTMessage            = "Invalid Apple JWT"
	unableToCreateUserMessage         = "Unable to create user"
	invalidSessionMessage             = "Invalid or expired session"
)

var (
	//nolint:gochecknoglobals // Because its loaded once, at runtime.
	cfg config
)

type (
	// | service implements server.State and is responsible for managing the lifecycle and dependencies of this module.
	service struct {
		usersProcessor users.Processor
	}
	config struct {
		AppleAppSiteAssociationPath string `yaml:"appleAppSiteAssociationPath" mapstructure:"appleAppSiteAssociationPath"` //nolint:tagliatelle // Nope.
	}
)
