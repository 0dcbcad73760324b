package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// ValidSignature checks that the presented signature is the base64-encoded
// HMAC-SHA256 of the raw request body under the shared channel secret. The
// comparison is constant-time.
func ValidSignature(body []byte, signature string, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	presented, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), presented)
}
