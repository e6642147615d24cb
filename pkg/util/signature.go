package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// SignPayload returns the hex encoded HMAC-SHA256 of payload under secret.
// It is the signature scheme used on both the DocuSeal webhook ingress and
// the outbound notification webhook.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature header against payload. The
// header value may carry an optional "sha256=" prefix. Comparison is
// constant-time.
func VerifySignature(payload []byte, signature, secret string) bool {
	cleaned := strings.TrimPrefix(signature, "sha256=")
	provided, err := hex.DecodeString(cleaned)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(provided, mac.Sum(nil))
}

// IsValidBase64 reports whether s is well-formed standard base64.
func IsValidBase64(s string) bool {
	if s == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
