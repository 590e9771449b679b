package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// Header carries the Meta webhook signature of the raw request body.
const Header = "X-Hub-Signature-256"

const prefix = "sha256="

var (
	ErrMissingSecret      = errors.New("signing secret not configured")
	ErrMissingSignature   = errors.New("missing signature")
	ErrMalformedSignature = errors.New("signature must have format sha256=<hex>")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// Sign returns the header value for body signed with secret.
func Sign(secret string, body []byte) string {
	return prefix + hex.EncodeToString(compute(secret, body))
}

// Verify checks a "sha256=<hex>" header value against body. An empty secret
// never verifies.
func Verify(secret string, body []byte, header string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if header == "" {
		return ErrMissingSignature
	}
	if !strings.HasPrefix(header, prefix) {
		return ErrMalformedSignature
	}
	got, err := hex.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return ErrMalformedSignature
	}
	if subtle.ConstantTimeCompare(compute(secret, body), got) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

func compute(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
