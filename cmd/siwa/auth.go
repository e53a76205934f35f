// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/auth"
	"github.com/ice-blockchain/siwa/server"
	"github.com/ice-blockchain/siwa/users"
)

func (s *service) setupAuthRoutes(router *server.Router) {
	router.
		Group("v1").
		POST("auth/signInWithApple", server.RootHandler(s.SignInWithApple)).
		POST("auth/refreshTokens", server.RootHandler(s.RefreshTokens))
}

// SignInWithApple godoc
//
//	@Schemes
//	@Description	Verifies the apple issued id token, finds or creates the matching user and responds with a first party session.
//	@Tags			Auth
//	@Produce		json
//	@Param			Authorization	header	string	true	"the apple issued id token, `Bearer <idToken>`"
//	@Param			X-API-Key		header	string	true	"the api key"
//	@Success		200	{object}	users.Tokens
//	@Failure		400	{object}	server.ErrorResponse	"if the user can't be created or something unexpected happened"
//	@Failure		401	{object}	server.ErrorResponse	"if the authorization header or the id token is invalid"
//	@Failure		503	{object}	server.ErrorResponse	"if the service is shutting down"
//	@Failure		504	{object}	server.ErrorResponse	"if the request times out"
//	@Router			/auth/signInWithApple [post]
func (s *service) SignInWithApple( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[SignInWithAppleArg, users.Tokens],
) (*server.Response[users.Tokens], *server.Response[server.ErrorResponse]) {
	idToken, err := bearerToken(req.Data.Authorization)
	if err != nil {
		return nil, server.Unauthorized(err, invalidAuthorizationHeaderMessage)
	}
	tokens, err := s.usersProcessor.SignInWithApple(ctx, idToken)
	if err != nil {
		err = errors.Wrapf(err, "sign in with apple failed for clientIP:%v", req.ClientIP)
		switch {
		case errors.Is(err, users.ErrMissingRequiredClaims):
			return nil, server.Unauthorized(err, missingRequiredClaimsMessage)
		case errors.Is(err, auth.ErrInvalidAppleToken), errors.Is(err, auth.ErrExpiredAppleToken):
			return nil, server.Unauthorized(err, invalidAppleJWTMessage)
		case errors.Is(err, users.ErrDuplicate):
			return nil, server.BadRequest(err, unableToCreateUserMessage, err.Error())
		default:
			return nil, server.Unexpected(err)
		}
	}

	return server.OK(tokens), nil
}

// RefreshTokens godoc
//
//	@Schemes
//	@Description	Renews the session identified by the provided, possibly expired, access token, rotating its refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header	string				true	"the first party access token, `Bearer <accessToken>`"
//	@Param			X-API-Key		header	string				true	"the api key"
//	@Param			request			body	RefreshTokensArg	true	"Request params"
//	@Success		200	{object}	users.Tokens
//	@Failure		400	{object}	server.ErrorResponse	"if validations fail or something unexpected happened"
//	@Failure		401	{object}	server.ErrorResponse	"if the session can't be renewed"
//	@Failure		503	{object}	server.ErrorResponse	"if the service is shutting down"
//	@Failure		504	{object}	server.ErrorResponse	"if the request times out"
//	@Router			/auth/refreshTokens [post]
func (s *service) RefreshTokens( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[RefreshTokensArg, users.Tokens],
) (*server.Response[users.Tokens], *server.Response[server.ErrorResponse]) {
	accessToken, err := bearerToken(req.Data.Authorization)
	if err != nil {
		return nil, server.Unauthorized(err, invalidAuthorizationHeaderMessage)
	}
	tokens, err := s.usersProcessor.RegenerateTokens(ctx, accessToken, req.Data.RefreshToken)
	if err != nil {
		err = errors.Wrapf(err, "refresh tokens failed for clientIP:%v", req.ClientIP)
		switch {
		case errors.Is(err, users.ErrInvalidRefreshToken),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrExpiredToken):
			return nil, server.Unauthorized(err, invalidSessionMessage)
		default:
			return nil, server.Unexpected(err)
		}
	}

	return server.OK(tokens), nil
}

func bearerToken(authorization string) (string, error) {
	token := strings.TrimPrefix(authorization, "Bearer ")
	if token == authorization || strings.TrimSpace(token) == "" {
		return "", errors.Errorf("invalid authorization header `%v`", authorization)
	}

	return token, nil
}
