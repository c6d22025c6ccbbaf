package token

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// EncodeOptions controls how a claims document is signed into a token.
// Exactly one of Secret / PrivateKeyPEM / NoSignature is expected, matching
// the algorithm family.
type EncodeOptions struct {
	Algorithm     string
	Secret        string
	PrivateKeyPEM []byte
	NoSignature   bool
	// Header holds extra header parameters (e.g. kid, jku) added verbatim.
	Header map[string]string
}

// Encode signs a JSON claims document into a compact JWT string.
func Encode(claimsJSON []byte, opts EncodeOptions) (string, error) {
	var claims jwt.MapClaims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return "", fmt.Errorf("claims are not valid JSON: %w", err)
	}

	alg := opts.Algorithm
	if alg == "" {
		alg = "HS256"
	}
	if opts.NoSignature {
		alg = "none"
	}

	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return "", fmt.Errorf("unknown signing algorithm %q", alg)
	}

	tok := jwt.NewWithClaims(method, claims)
	for k, v := range opts.Header {
		tok.Header[k] = v
	}

	key, err := signingKey(alg, opts)
	if err != nil {
		return "", err
	}

	signed, err := tok.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing failed: %w", err)
	}
	return signed, nil
}

func signingKey(alg string, opts EncodeOptions) (any, error) {
	switch {
	case strings.EqualFold(alg, "none"):
		return jwt.UnsafeAllowNoneSignatureType, nil
	case strings.HasPrefix(alg, "HS"):
		if opts.Secret == "" {
			return nil, fmt.Errorf("algorithm %s requires --secret", alg)
		}
		return []byte(opts.Secret), nil
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		if len(opts.PrivateKeyPEM) == 0 {
			return nil, fmt.Errorf("algorithm %s requires --private-key", alg)
		}
		key, err := jwt.ParseRSAPrivateKeyFromPEM(opts.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("invalid RSA private key: %w", err)
		}
		return key, nil
	case strings.HasPrefix(alg, "ES"):
		if len(opts.PrivateKeyPEM) == 0 {
			return nil, fmt.Errorf("algorithm %s requires --private-key", alg)
		}
		key, err := jwt.ParseECPrivateKeyFromPEM(opts.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("invalid ECDSA private key: %w", err)
		}
		return key, nil
	case strings.EqualFold(alg, "EdDSA"):
		if len(opts.PrivateKeyPEM) == 0 {
			return nil, fmt.Errorf("algorithm %s requires --private-key", alg)
		}
		key, err := jwt.ParseEdPrivateKeyFromPEM(opts.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("invalid EdDSA private key: %w", err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("unknown signing algorithm %q", alg)
	}
}
