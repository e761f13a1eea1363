package social

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredentials signals a configuration error: one of the four
// required credentials is empty. Signed calls fail fast on it instead
// of sending a request the service would reject.
var ErrMissingCredentials = errors.New("social: missing credentials")

// Credentials holds the four secrets of the 1-legged signing scheme.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Validate reports a configuration error when any credential is empty.
func (c Credentials) Validate() error {
	if c.ConsumerKey == "" || c.ConsumerSecret == "" || c.AccessToken == "" || c.AccessSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Signer computes OAuth 1.0a HMAC-SHA1 authorization headers. It is
// stateless apart from the credentials; nonce and clock are injectable
// so signatures are deterministic under test.
type Signer struct {
	creds Credentials
	nonce func() (string, error)
	now   func() time.Time
}

// SignerOption customizes a Signer.
type SignerOption func(*Signer)

// WithNonceFunc overrides nonce generation.
func WithNonceFunc(f func() (string, error)) SignerOption {
	return func(s *Signer) { s.nonce = f }
}

// WithClock overrides the timestamp source.
func WithClock(f func() time.Time) SignerOption {
	return func(s *Signer) { s.now = f }
}

// NewSigner validates the credentials and builds a signer.
func NewSigner(creds Credentials, opts ...SignerOption) (*Signer, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	s := &Signer{
		creds: creds,
		nonce: randomNonce,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AuthorizationHeader signs one request. params must contain every
// call-specific query/body parameter that participates in signing;
// leaving one out produces a signature the service rejects outright.
func (s *Signer) AuthorizationHeader(method, rawURL string, params map[string]string) (string, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", fmt.Errorf("social: generate nonce: %w", err)
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.creds.ConsumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_token":            s.creds.AccessToken,
		"oauth_version":          "1.0",
	}

	all := make(map[string]string, len(oauthParams)+len(params))
	for k, v := range params {
		all[k] = v
	}
	for k, v := range oauthParams {
		all[k] = v
	}

	base := signatureBase(method, rawURL, all)
	key := percentEncode(s.creds.ConsumerSecret) + "&" + percentEncode(s.creds.AccessSecret)

	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	oauthParams["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	keys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("OAuth ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(percentEncode(k))
		b.WriteString(`="`)
		b.WriteString(percentEncode(oauthParams[k]))
		b.WriteString(`"`)
	}
	return b.String(), nil
}

// signatureBase builds UPPER(method)&enc(url)&enc(paramString) with all
// parameters encoded then sorted by key, then value.
func signatureBase(method, rawURL string, params map[string]string) string {
	type pair struct{ k, v string }
	pairs := make([]pair, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, pair{percentEncode(k), percentEncode(v)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k != pairs[j].k {
			return pairs[i].k < pairs[j].k
		}
		return pairs[i].v < pairs[j].v
	})

	var ps strings.Builder
	for i, p := range pairs {
		if i > 0 {
			ps.WriteByte('&')
		}
		ps.WriteString(p.k)
		ps.WriteByte('=')
		ps.WriteString(p.v)
	}

	return strings.ToUpper(method) + "&" + percentEncode(rawURL) + "&" + percentEncode(ps.String())
}

// percentEncode implements the RFC 3986 unreserved-set encoding the
// protocol requires: letters, digits, '-', '.', '_', '~' pass through,
// everything else (including '/') becomes %XX.
func percentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '.' || c == '_' || c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// randomNonce returns a fresh random 128-bit hex token.
func randomNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
