package social

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testCreds = Credentials{
	ConsumerKey:    "xvz1evFS4wEEPTGEFPHBog",
	ConsumerSecret: "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
	AccessToken:    "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
	AccessSecret:   "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
}

func fixedSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testCreds,
		WithNonceFunc(func() (string, error) { return "kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg", nil }),
		WithClock(func() time.Time { return time.Unix(1318622958, 0) }),
	)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	return s
}

func TestAuthorizationHeaderKnownVector(t *testing.T) {
	s := fixedSigner(t)

	header, err := s.AuthorizationHeader("post", "https://api.twitter.com/1.1/statuses/update.json", map[string]string{
		"status":           "Hello Ladies + Gentlemen, a signed OAuth request!",
		"include_entities": "true",
	})
	if err != nil {
		t.Fatalf("AuthorizationHeader() error = %v", err)
	}

	want := `OAuth oauth_consumer_key="xvz1evFS4wEEPTGEFPHBog", ` +
		`oauth_nonce="kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg", ` +
		`oauth_signature="hCtSmYh%2BiHYCEqBWrE7C7hYmtUk%3D", ` +
		`oauth_signature_method="HMAC-SHA1", ` +
		`oauth_timestamp="1318622958", ` +
		`oauth_token="370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb", ` +
		`oauth_version="1.0"`
	if header != want {
		t.Errorf("header mismatch:\n got %s\nwant %s", header, want)
	}
}

func TestSignatureDeterministicAndParameterSensitive(t *testing.T) {
	url := "https://api.twitter.com/1.1/statuses/update.json"
	params := map[string]string{"status": "hello"}

	first, err := fixedSigner(t).AuthorizationHeader("POST", url, params)
	if err != nil {
		t.Fatalf("AuthorizationHeader() error = %v", err)
	}
	second, err := fixedSigner(t).AuthorizationHeader("POST", url, params)
	if err != nil {
		t.Fatalf("AuthorizationHeader() error = %v", err)
	}
	if first != second {
		t.Error("identical inputs produced different headers")
	}

	// Changing any call-specific parameter must change the signature.
	changed, err := fixedSigner(t).AuthorizationHeader("POST", url, map[string]string{
		"status":    "hello",
		"trim_user": "true",
	})
	if err != nil {
		t.Fatalf("AuthorizationHeader() error = %v", err)
	}
	if first == changed {
		t.Error("adding a parameter did not change the signature")
	}
}

func TestNewSignerRejectsMissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty", Credentials{}},
		{"no consumer secret", Credentials{ConsumerKey: "k", AccessToken: "t", AccessSecret: "s"}},
		{"no token", Credentials{ConsumerKey: "k", ConsumerSecret: "s", AccessSecret: "s"}},
		{"no token secret", Credentials{ConsumerKey: "k", ConsumerSecret: "s", AccessToken: "t"}},
	}
	for _, tt := range tests {
		if _, err := NewSigner(tt.creds); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("%s: NewSigner() error = %v, want ErrMissingCredentials", tt.name, err)
		}
	}
}

func TestPercentEncodeReservedSet(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcXYZ019-._~", "abcXYZ019-._~"},
		{"Ladies + Gentlemen", "Ladies%20%2B%20Gentlemen"},
		{"http://a/b?c=d", "http%3A%2F%2Fa%2Fb%3Fc%3Dd"},
		{"☃", "%E2%98%83"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := percentEncode(tt.in); got != tt.want {
			t.Errorf("percentEncode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRandomNonceUniqueHex(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		n, err := randomNonce()
		if err != nil {
			t.Fatalf("randomNonce() error = %v", err)
		}
		if len(n) != 32 || strings.ToLower(n) != n {
			t.Fatalf("nonce %q not 128-bit lowercase hex", n)
		}
		if seen[n] {
			t.Fatalf("nonce %q repeated", n)
		}
		seen[n] = true
	}
}
