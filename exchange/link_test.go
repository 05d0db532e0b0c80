package exchange

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestLinkRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0xAB}, 32)
	encoded, err := EncodeLink("https://exchange.bind-standard.org/x/abc", key, 1756339200000, "P", "Q3 renewal")
	if err != nil {
		t.Fatalf("EncodeLink failed: %v", err)
	}
	if !strings.HasPrefix(encoded, Scheme) {
		t.Fatalf("link missing scheme: %q", encoded)
	}

	link, err := ParseLink(encoded)
	if err != nil {
		t.Fatalf("ParseLink failed: %v", err)
	}
	if link.URL != "https://exchange.bind-standard.org/x/abc" {
		t.Errorf("url = %q", link.URL)
	}
	if link.Exp != 1756339200000 || link.Flag != "P" || link.Label != "Q3 renewal" {
		t.Errorf("metadata mismatch: %+v", link)
	}
	got, err := link.KeyBytes()
	if err != nil {
		t.Fatalf("KeyBytes failed: %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Error("key did not survive the round trip")
	}
}

func TestLinkOmitsEmptyLabel(t *testing.T) {
	encoded, err := EncodeLink("https://x/1", []byte{1, 2, 3}, 0, "U", "")
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(encoded, Scheme))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "label") {
		t.Errorf("empty label serialized: %s", raw)
	}
}

func TestParseLinkRejections(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"wrong scheme", "https://example.com/x"},
		{"bad base64", Scheme + "!!!not-base64!!!"},
		{"not json", Scheme + base64.RawURLEncoding.EncodeToString([]byte("plain text"))},
		{"missing url", Scheme + base64.RawURLEncoding.EncodeToString([]byte(`{"key":"abc"}`))},
		{"missing key", Scheme + base64.RawURLEncoding.EncodeToString([]byte(`{"url":"https://x"}`))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseLink(tc.in); err == nil {
				t.Fatal("ParseLink accepted malformed input")
			} else if !IsKind(err, KindLink) {
				t.Errorf("error kind: %v", err)
			}
		})
	}
}

func TestKeyBytesBadEncoding(t *testing.T) {
	link := Link{URL: "https://x", Key: "not base64 at all!!"}
	if _, err := link.KeyBytes(); err == nil {
		t.Fatal("KeyBytes accepted malformed key")
	}
}
