package crack

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"testing"

	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

func digest(newHash func() hash.Hash, key, input []byte) []byte {
	mac := hmac.New(newHash, key)
	mac.Write(input)
	return mac.Sum(nil)
}

func TestVerifyMatrix(t *testing.T) {
	input := []byte("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0")
	key := []byte("hunter2")

	cases := []struct {
		alg     token.Algorithm
		newHash func() hash.Hash
	}{
		{token.AlgHS256, sha256.New},
		{token.AlgHS384, sha512.New384},
		{token.AlgHS512, sha512.New},
	}
	for _, tc := range cases {
		want := digest(tc.newHash, key, input)
		if !Verify(key, input, tc.alg, want) {
			t.Fatalf("%s: correct key rejected", tc.alg)
		}
		if Verify([]byte("hunter3"), input, tc.alg, want) {
			t.Fatalf("%s: wrong key accepted", tc.alg)
		}
	}
}

func TestVerifyRejectsUnsupportedAlgorithm(t *testing.T) {
	input := []byte("x.y")
	want := digest(sha256.New, []byte("k"), input)
	if Verify([]byte("k"), input, token.Algorithm("RS256"), want) {
		t.Fatal("non-HMAC algorithm must never verify")
	}
}

func TestVerifyDigestLengthMismatch(t *testing.T) {
	input := []byte("x.y")
	// A correct HS256 digest is never a correct HS512 digest.
	want := digest(sha256.New, []byte("k"), input)
	if Verify([]byte("k"), input, token.AlgHS512, want) {
		t.Fatal("digest of the wrong variant accepted")
	}
}
