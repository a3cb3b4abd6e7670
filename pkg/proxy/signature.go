package proxy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// SignatureMode selects which upstream signing scheme the verifier matches.
// The two schemes are mutually incompatible, so the mode is fixed per
// deployment and never inferred from the request.
type SignatureMode string

const (
	// ModeAppProxy verifies the app-proxy scheme: sorted key=value pairs
	// concatenated with no separator, signature carried in `signature`.
	ModeAppProxy SignatureMode = "app_proxy"
	// ModeOAuthHMAC verifies the OAuth-style scheme: sorted key=value pairs
	// joined with `&`, signature carried in `hmac`.
	ModeOAuthHMAC SignatureMode = "oauth_hmac"
)

const (
	signatureParam = "signature"
	hmacParam      = "hmac"
)

// Verifier authenticates signed proxy requests against the shared secret.
type Verifier struct {
	secret string
	mode   SignatureMode
}

func NewVerifier(secret string, mode SignatureMode) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("proxy secret is required")
	}
	switch mode {
	case ModeAppProxy, ModeOAuthHMAC:
	default:
		return nil, fmt.Errorf("unsupported signature mode %q", mode)
	}
	return &Verifier{secret: secret, mode: mode}, nil
}

// Verify authenticates the request URL's query string. It is a pure
// function of its inputs and reports false for any failure: missing
// signature, malformed URL, or digest mismatch.
func (v *Verifier) Verify(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	params, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return false
	}

	supplied := params.Get(v.signatureParam())
	if supplied == "" {
		return false
	}
	params.Del(signatureParam)
	params.Del(hmacParam)

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(canonicalize(params, v.mode)))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(supplied))
}

func (v *Verifier) signatureParam() string {
	if v.mode == ModeOAuthHMAC {
		return hmacParam
	}
	return signatureParam
}

// canonicalize re-serializes the parameter set deterministically: values
// for a repeated key are comma-joined without re-encoding, keys are
// sorted, and pairs are rendered as key=value. Any deviation from the
// signer's byte sequence fails verification universally.
func canonicalize(params url.Values, mode SignatureMode) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+strings.Join(params[key], ","))
	}

	separator := ""
	if mode == ModeOAuthHMAC {
		separator = "&"
	}
	return strings.Join(pairs, separator)
}
