package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes sized so tokens work as unguessable bearer credentials.
const tokenBytes = 32

// New returns a fixed-length opaque share token from a cryptographically
// strong random source.
func New() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
