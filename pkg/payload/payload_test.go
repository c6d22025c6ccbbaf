package payload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

func fixtureToken(t *testing.T) *token.Token {
	t.Helper()
	claims := jwt.MapClaims{"sub": "1234567890", "admin": false}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("fixture"))
	if err != nil {
		t.Fatalf("failed to sign fixture token: %v", err)
	}
	tok, err := token.Decompose(signed)
	if err != nil {
		t.Fatalf("failed to decompose fixture token: %v", err)
	}
	return tok
}

func TestParseTargets(t *testing.T) {
	all, err := ParseTargets("all")
	if err != nil {
		t.Fatalf("ParseTargets(all) failed: %v", err)
	}
	if len(all) != len(AllKinds) {
		t.Fatalf("expected %d kinds, got %d", len(AllKinds), len(all))
	}

	some, err := ParseTargets("none, kid_sql")
	if err != nil {
		t.Fatalf("ParseTargets failed: %v", err)
	}
	if len(some) != 2 || some[0] != KindNone || some[1] != KindKidSQL {
		t.Fatalf("unexpected kinds: %v", some)
	}

	if _, err := ParseTargets("bogus"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestNoneVariants(t *testing.T) {
	tok := fixtureToken(t)
	payloads, err := Generate(tok, []Kind{KindNone}, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(payloads) != 4 {
		t.Fatalf("expected 4 none variants, got %d", len(payloads))
	}
	seen := map[string]bool{}
	for _, p := range payloads {
		parts := strings.Split(p.Token, ".")
		if len(parts) != 3 || parts[2] != "" {
			t.Fatalf("%s: none token must have an empty signature segment: %s", p.Name, p.Token)
		}
		if parts[1] != tok.RawPayload {
			t.Fatalf("%s: payload segment was altered", p.Name)
		}
		headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
		if err != nil {
			t.Fatalf("%s: bad header segment: %v", p.Name, err)
		}
		var header map[string]any
		if err := json.Unmarshal(headerJSON, &header); err != nil {
			t.Fatalf("%s: header is not JSON: %v", p.Name, err)
		}
		alg := header["alg"].(string)
		if !strings.EqualFold(alg, "none") {
			t.Fatalf("%s: expected a none-case variant, got alg=%s", p.Name, alg)
		}
		seen[alg] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct case variants, got %v", seen)
	}
}

func TestJKUVariants(t *testing.T) {
	tok := fixtureToken(t)
	payloads, err := Generate(tok, []Kind{KindJKU}, Options{
		TrustDomain:  "trusted.example.com",
		AttackDomain: "evil.example.org",
		Protocol:     "https",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(payloads) < 5 {
		t.Fatalf("expected at least 5 jku variants with a trust domain, got %d", len(payloads))
	}

	var resignedFound bool
	for _, p := range payloads {
		if p.Kind != KindJKU {
			t.Fatalf("unexpected kind %s in jku generation", p.Kind)
		}
		if p.Name == "jku-resigned" {
			resignedFound = true
			if len(p.Extra) == 0 {
				t.Fatal("re-signed jku payload must carry a JWKS document")
			}
			var jwks struct {
				Keys []map[string]any `json:"keys"`
			}
			if err := json.Unmarshal(p.Extra, &jwks); err != nil {
				t.Fatalf("JWKS is not valid JSON: %v", err)
			}
			if len(jwks.Keys) != 1 {
				t.Fatalf("expected 1 key in JWKS, got %d", len(jwks.Keys))
			}
			if jwks.Keys[0]["kty"] != "RSA" {
				t.Fatalf("expected an RSA JWK, got %v", jwks.Keys[0]["kty"])
			}
		}
		if !strings.Contains(p.Token, ".") {
			t.Fatalf("%s: not a token: %s", p.Name, p.Token)
		}
	}
	if !resignedFound {
		t.Fatal("jku generation must include a re-signed variant")
	}
}

func TestAlgConfusionWithPublicKey(t *testing.T) {
	tok := fixtureToken(t)
	pem := []byte("-----BEGIN PUBLIC KEY-----\nMFkw...\n-----END PUBLIC KEY-----\n")
	payloads, err := Generate(tok, []Kind{KindAlgConfusion}, Options{PublicKeyPEM: pem})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 confusion payload, got %d", len(payloads))
	}

	parts := strings.Split(payloads[0].Token, ".")
	if len(parts) != 3 {
		t.Fatalf("malformed confusion token: %s", payloads[0].Token)
	}
	mac := hmac.New(sha256.New, pem)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if parts[2] != want {
		t.Fatal("confusion token is not HMAC-signed with the PEM bytes")
	}
}

func TestKidAndCtyPreserveSignature(t *testing.T) {
	tok := fixtureToken(t)
	payloads, err := Generate(tok, []Kind{KindKidSQL, KindCTY}, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, p := range payloads {
		parts := strings.Split(p.Token, ".")
		if parts[1] != tok.RawPayload || parts[2] != tok.RawSignature {
			t.Fatalf("%s: payload or signature segment was altered", p.Name)
		}
	}
}

func TestX5CResignedTokenVerifies(t *testing.T) {
	tok := fixtureToken(t)
	payloads, err := Generate(tok, []Kind{KindX5C}, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 x5c payload, got %d", len(payloads))
	}

	mutatedTok, err := token.Decompose(payloads[0].Token)
	if err != nil {
		t.Fatalf("x5c token does not decompose: %v", err)
	}
	if mutatedTok.Alg != "RS256" {
		t.Fatalf("expected RS256 x5c token, got %s", mutatedTok.Alg)
	}
	chain, ok := mutatedTok.Header["x5c"].([]any)
	if !ok || len(chain) != 1 {
		t.Fatalf("expected a single-entry x5c chain, header: %v", mutatedTok.Header)
	}
	if mutatedTok.RawPayload != tok.RawPayload {
		t.Fatal("x5c token must preserve the original payload segment")
	}
}
