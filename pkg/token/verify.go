package token

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// VerifyOptions controls how a token signature is checked. The key
// material must match the algorithm family the token declares: Secret for
// HMAC, KeyPEM (public or private) for the asymmetric families.
type VerifyOptions struct {
	Secret      string
	KeyPEM      []byte
	ValidateExp bool
}

// VerifyToken checks the token's signature. The declared algorithm is
// pinned as the only valid method, so alg-substitution inside the token
// cannot redirect which key type is consulted. Claims (exp) validation is
// opt-in; an invalid signature is always an error.
func VerifyToken(tokenString string, opts VerifyOptions) (*jwt.Token, error) {
	decomposed, err := Decompose(tokenString)
	if err != nil {
		return nil, err
	}

	parseOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{decomposed.Alg})}
	if !opts.ValidateExp {
		parseOpts = append(parseOpts, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		switch t.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if opts.Secret == "" {
				return nil, fmt.Errorf("algorithm %s requires --secret", decomposed.Alg)
			}
			return []byte(opts.Secret), nil
		case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
			pub, err := publicKeyFromPEM(opts.KeyPEM, decomposed.Alg)
			if err != nil {
				return nil, err
			}
			if rsaPub, ok := pub.(*rsa.PublicKey); ok {
				return rsaPub, nil
			}
			return nil, fmt.Errorf("key is not an RSA key")
		case *jwt.SigningMethodECDSA:
			pub, err := publicKeyFromPEM(opts.KeyPEM, decomposed.Alg)
			if err != nil {
				return nil, err
			}
			if ecPub, ok := pub.(*ecdsa.PublicKey); ok {
				return ecPub, nil
			}
			return nil, fmt.Errorf("key is not an ECDSA key")
		case *jwt.SigningMethodEd25519:
			pub, err := publicKeyFromPEM(opts.KeyPEM, decomposed.Alg)
			if err != nil {
				return nil, err
			}
			if edPub, ok := pub.(ed25519.PublicKey); ok {
				return edPub, nil
			}
			return nil, fmt.Errorf("key is not an Ed25519 key")
		default:
			return nil, fmt.Errorf("verification of algorithm %q is not supported", decomposed.Alg)
		}
	}, parseOpts...)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

// publicKeyFromPEM accepts either a public key PEM or a private key PEM
// (deriving the public half) so users can verify with whichever they have.
func publicKeyFromPEM(pemBytes []byte, alg string) (crypto.PublicKey, error) {
	if len(pemBytes) == 0 {
		return nil, fmt.Errorf("algorithm %s requires --private-key", alg)
	}
	if pub, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes); err == nil {
		return pub, nil
	}
	if priv, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes); err == nil {
		return &priv.PublicKey, nil
	}
	if pub, err := jwt.ParseECPublicKeyFromPEM(pemBytes); err == nil {
		return pub, nil
	}
	if priv, err := jwt.ParseECPrivateKeyFromPEM(pemBytes); err == nil {
		return &priv.PublicKey, nil
	}
	if pub, err := jwt.ParseEdPublicKeyFromPEM(pemBytes); err == nil {
		return pub, nil
	}
	if priv, err := jwt.ParseEdPrivateKeyFromPEM(pemBytes); err == nil {
		if ed, ok := priv.(ed25519.PrivateKey); ok {
			return ed.Public(), nil
		}
	}
	return nil, fmt.Errorf("could not parse key PEM as RSA, ECDSA or Ed25519")
}
