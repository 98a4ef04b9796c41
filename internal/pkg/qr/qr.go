// Package qr builds and verifies the signed profile payloads encoded into
// participant QR codes: "dakshh-profile:<userID>:<hmac-sha256-hex>".
package qr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const payloadPrefix = "dakshh-profile"

// Signer signs and verifies profile QR payloads with a shared secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) signature(userID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(userID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Build returns the QR payload for a user.
func (s *Signer) Build(userID string) string {
	return payloadPrefix + ":" + userID + ":" + s.signature(userID)
}

// Verify parses a payload and returns the embedded user ID, or "" and false
// when the payload is malformed or its signature does not match.
func (s *Signer) Verify(payload string) (string, bool) {
	parts := strings.Split(payload, ":")
	if len(parts) != 3 || parts[0] != payloadPrefix || parts[1] == "" || parts[2] == "" {
		return "", false
	}
	expected := s.signature(parts[1])
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return "", false
	}
	return parts[1], true
}
