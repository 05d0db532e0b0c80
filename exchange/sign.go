// Package exchange implements the one-time-exchange pipeline: sign the
// Bundle as a compact JWS, encrypt it as a compact JWE under a fresh
// symmetric key, bind the signer to the ciphertext with a proof token,
// submit to the exchange endpoint, and encode the shareable bindx:// link.
package exchange

import (
	"time"

	"github.com/go-jose/go-jose/v4"
	json "github.com/goccy/go-json"
)

// Signer is the identity the pipeline signs with: a private JWK, its kid,
// and the issuer string that goes into every token.
type Signer struct {
	Key    jose.JSONWebKey
	KID    string
	Issuer string

	// now is stubbed in tests.
	now func() time.Time
}

// NewSigner builds a Signer from a private JWK.
func NewSigner(key jose.JSONWebKey, kid, issuer string) Signer {
	return Signer{Key: key, KID: kid, Issuer: issuer}
}

// Sign produces a compact ES256 JWS whose header declares the algorithm
// and kid, and whose claims are the payload's own fields plus iss and iat.
func (s Signer) Sign(payload map[string]any) (string, error) {
	claims := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		claims[k] = v
	}
	claims["iss"] = s.Issuer
	now := s.now
	if now == nil {
		now = time.Now
	}
	claims["iat"] = now().Unix()

	raw, err := json.Marshal(claims)
	if err != nil {
		return "", wrapError(KindSign, "encoding claims", err)
	}

	key := s.Key
	key.KeyID = s.KID
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.ES256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", wrapError(KindSign, "constructing signer", err)
	}
	obj, err := signer.Sign(raw)
	if err != nil {
		return "", wrapError(KindSign, "signing payload", err)
	}
	compact, err := obj.CompactSerialize()
	if err != nil {
		return "", wrapError(KindSign, "serializing signed token", err)
	}
	return compact, nil
}
