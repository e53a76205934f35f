// SPDX-License-Identifier: ice License 1.0

package appleauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/log"
)

func (a *auth) FetchSigningKeys(ctx context.Context) (KeySet, error) {
	resp, err := req.
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(a.cfg.AuthApple.JWKSURL)
	if err != nil || resp.IsErrorState() {
		if err == nil {
			err = errors.Errorf("unexpected status %v", resp.GetStatusCode())
		}

		return nil, errors.Wrapf(err, "failed to fetch signing keys from `%v`", a.cfg.AuthApple.JWKSURL)
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read signing keys response from `%v`", a.cfg.AuthApple.JWKSURL)
	}
	var doc jwks
	if err = json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrapf(ErrMalformedKeySet, "failed to unmarshal key set from `%v`, cause:%v", a.cfg.AuthApple.JWKSURL, err)
	}
	keys := make(KeySet, len(doc.Keys))
	for _, key := range doc.Keys {
		publicKey, kErr := key.publicKey()
		if kErr != nil {
			log.Warn(fmt.Sprintf("skipping malformed signing key `%v`", key.Kid), "error", kErr.Error())

			continue
		}
		keys[key.Kid] = publicKey
	}
	if len(keys) == 0 {
		return nil, errors.Wrapf(ErrMalformedKeySet, "no usable signing keys in key set from `%v`", a.cfg.AuthApple.JWKSURL)
	}

	return keys, nil
}

func (k *jwk) publicKey() (*rsa.PublicKey, error) {
	if k.Kid == "" || k.N == "" || k.E == "" {
		return nil, errors.New("incomplete key entry")
	}
	if k.Kty != "RSA" {
		return nil, errors.Errorf("unsupported key type:%v", k.Kty)
	}
	modulus, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(k.N, "="))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid modulus for kid:%v", k.Kid)
	}
	exponent, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(k.E, "="))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid exponent for kid:%v", k.Kid)
	}

	return &rsa.PublicKey{N: new(big.Int).SetBytes(modulus), E: int(new(big.Int).SetBytes(exponent).Int64())}, nil
}
