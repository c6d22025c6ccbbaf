package crack

import (
	"crypto/hmac"

	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

// Verify reports whether candidate reproduces want when used as the HMAC
// key over signingInput. The digest comparison goes through hmac.Equal,
// which is fixed-time, so no partial-match timing leaks even if this
// primitive is reused outside offline cracking. Any algorithm without an
// HMAC hash constructor yields false.
func Verify(candidate, signingInput []byte, alg token.Algorithm, want []byte) bool {
	newHash := alg.Hash()
	if newHash == nil {
		return false
	}
	mac := hmac.New(newHash, candidate)
	mac.Write(signingInput)
	return hmac.Equal(mac.Sum(nil), want)
}
