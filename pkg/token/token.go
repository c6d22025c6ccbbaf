// Package token decomposes, encodes and verifies JSON Web Tokens.
package token

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// ErrTokenFormat is returned when a token string is not a structurally
// valid JWT (wrong segment count, bad base64url, non-JSON header, or a
// header without an alg field).
var ErrTokenFormat = errors.New("malformed token")

// Algorithm is an HMAC signing algorithm supported for secret recovery.
type Algorithm string

const (
	AlgHS256 Algorithm = "HS256"
	AlgHS384 Algorithm = "HS384"
	AlgHS512 Algorithm = "HS512"
)

// Hash returns the hash constructor for the algorithm, or nil when the
// algorithm is not one of the supported HMAC variants.
func (a Algorithm) Hash() func() hash.Hash {
	switch a {
	case AlgHS256:
		return sha256.New
	case AlgHS384:
		return sha512.New384
	case AlgHS512:
		return sha512.New
	default:
		return nil
	}
}

// Token is the decomposed form of a JWT string. SigningInput holds the
// exact bytes the signature was computed over (first two segments joined
// by a dot, as they appeared on the wire), never a re-serialization.
type Token struct {
	Raw          string
	SigningInput []byte
	Header       map[string]any
	HeaderJSON   []byte
	Payload      []byte
	Signature    []byte

	// Raw base64url segments, in wire form.
	RawHeader    string
	RawPayload   string
	RawSignature string

	// Alg is the declared "alg" header value, verbatim.
	Alg string
}

// HMACAlgorithm maps the declared alg onto a supported HMAC variant. The
// second return is false for every other algorithm, including "none" and
// all asymmetric ones.
func (t *Token) HMACAlgorithm() (Algorithm, bool) {
	switch strings.ToUpper(t.Alg) {
	case string(AlgHS256):
		return AlgHS256, true
	case string(AlgHS384):
		return AlgHS384, true
	case string(AlgHS512):
		return AlgHS512, true
	default:
		return "", false
	}
}

// Decompose splits a JWT string into its three segments, decodes each, and
// extracts the declared algorithm from the header.
func Decompose(tokenString string) (*Token, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 dot-separated segments, got %d", ErrTokenFormat, len(parts))
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header segment is not valid base64url: %v", ErrTokenFormat, err)
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload segment is not valid base64url: %v", ErrTokenFormat, err)
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature segment is not valid base64url: %v", ErrTokenFormat, err)
	}

	var header map[string]any
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("%w: header is not valid JSON: %v", ErrTokenFormat, err)
	}
	alg, ok := header["alg"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: header has no alg field", ErrTokenFormat)
	}

	return &Token{
		Raw:          tokenString,
		SigningInput: []byte(parts[0] + "." + parts[1]),
		Header:       header,
		HeaderJSON:   headerJSON,
		Payload:      payload,
		Signature:    signature,
		RawHeader:    parts[0],
		RawPayload:   parts[1],
		RawSignature: parts[2],
		Alg:          alg,
	}, nil
}
