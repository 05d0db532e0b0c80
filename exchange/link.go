package exchange

import (
	"encoding/base64"
	"strings"

	json "github.com/goccy/go-json"
)

// Scheme is the shareable link's URI scheme prefix.
const Scheme = "bindx://"

// Link is everything a recipient needs (plus an optional passcode) to
// retrieve and decrypt an exchanged Bundle.
type Link struct {
	URL   string `json:"url"`
	Key   string `json:"key"`
	Exp   int64  `json:"exp"`
	Flag  string `json:"flag"`
	Label string `json:"label,omitempty"`
}

// KeyBytes decodes the embedded symmetric key.
func (l Link) KeyBytes() ([]byte, error) {
	key, err := base64.RawURLEncoding.DecodeString(l.Key)
	if err != nil {
		return nil, wrapError(KindLink, "decoding link key", err)
	}
	return key, nil
}

// EncodeLink builds the compact shareable link: the scheme prefix followed
// by the base64url-encoded JSON of {url, key, exp, flag, label?}.
func EncodeLink(url string, key []byte, exp int64, flag, label string) (string, error) {
	link := Link{
		URL:  url,
		Key:  base64.RawURLEncoding.EncodeToString(key),
		Exp:  exp,
		Flag: flag,
	}
	if label != "" {
		link.Label = label
	}
	raw, err := json.Marshal(link)
	if err != nil {
		return "", wrapError(KindLink, "encoding link payload", err)
	}
	return Scheme + base64.RawURLEncoding.EncodeToString(raw), nil
}

// ParseLink decodes a bindx:// link.
func ParseLink(s string) (Link, error) {
	if !strings.HasPrefix(s, Scheme) {
		return Link{}, newError(KindLink, "not a "+Scheme+" link")
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(s, Scheme))
	if err != nil {
		return Link{}, wrapError(KindLink, "decoding link", err)
	}
	var link Link
	if err := json.Unmarshal(raw, &link); err != nil {
		return Link{}, wrapError(KindLink, "parsing link payload", err)
	}
	if link.URL == "" || link.Key == "" {
		return Link{}, newError(KindLink, "link is missing url or key")
	}
	return link, nil
}
