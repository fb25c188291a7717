// Package signature authenticates inbound webhook payloads with a shared
// HMAC-SHA256 secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Mode states whether webhook signatures are checked. It is resolved once at
// startup from configuration so the insecure mode is visible in the type of
// the running server rather than behind scattered env lookups.
type Mode int

const (
	// ModeUnverified accepts every payload without checking signatures.
	// Development only; startup must log this loudly.
	ModeUnverified Mode = iota

	// ModeVerified requires a valid HMAC-SHA256 signature on every payload.
	ModeVerified
)

func (m Mode) String() string {
	if m == ModeVerified {
		return "verified"
	}
	return "unverified"
}

// Verifier decides whether a raw webhook body is authentic.
type Verifier struct {
	mode   Mode
	secret []byte
}

// New creates a Verifier from the shared secret. An empty secret selects
// ModeUnverified.
func New(secret string) *Verifier {
	if secret == "" {
		return &Verifier{mode: ModeUnverified}
	}
	return &Verifier{mode: ModeVerified, secret: []byte(secret)}
}

// Mode reports the resolved verification mode.
func (v *Verifier) Mode() Mode {
	return v.mode
}

// Verify reports whether token is a valid hex-encoded HMAC-SHA256 of body
// under the shared secret. The body must be the exact bytes received on the
// wire; any re-encoding invalidates the signature.
//
// In ModeUnverified every payload is authentic, including an absent token.
// In ModeVerified a missing token always fails. The comparison is constant
// time in the token content; the length pre-check is required because
// subtle.ConstantTimeCompare reports equal-length mismatches only, and it
// leaks nothing beyond the digest length, which is public.
func (v *Verifier) Verify(body []byte, token string) bool {
	if v.mode == ModeUnverified {
		return true
	}
	if token == "" {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(expected) != len(token) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}
