package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const sessionTokenBytes = 32

// NewSessionToken returns 32 random bytes, base64url encoded.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)

	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// TokenDigester turns a raw session token into the key that is stored.
// Deterministic HMAC so lookups stay O(1); the raw token never reaches storage.
type TokenDigester struct {
	secret []byte
}

func NewTokenDigester(secret string) *TokenDigester {
	return &TokenDigester{secret: []byte(secret)}
}

func (d *TokenDigester) Digest(raw string) string {
	h := hmac.New(sha256.New, d.secret)
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
