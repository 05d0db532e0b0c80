package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v4"
	json "github.com/goccy/go-json"
)

// Pair is the signing identity record. PublicKey never carries a private
// component; KID is the RFC 7638 thumbprint of the public half and is
// embedded in both halves. Generated and imported pairs are
// indistinguishable downstream.
type Pair struct {
	PrivateKey jose.JSONWebKey `json:"privateKey"`
	PublicKey  jose.JSONWebKey `json:"publicKey"`
	KID        string          `json:"kid"`
}

// Generate creates a fresh P-256 signing key pair.
func Generate() (*Pair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("keys: generating key pair: %w", err)
	}
	return pairFromECDSA(priv)
}

// Import accepts a caller-supplied private key in JWK JSON form. Keys
// missing a key type or a private component are rejected; everything else
// goes through the same thumbprint path as Generate.
func Import(raw []byte) (*Pair, error) {
	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("keys: not a JSON object: %w", err)
	}
	if kty, _ := probe["kty"].(string); kty == "" {
		return nil, errors.New("keys: JWK is missing the key type (kty)")
	}
	if d, _ := probe["d"].(string); d == "" {
		return nil, errors.New("keys: JWK is missing the private component (d)")
	}

	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("keys: parsing JWK: %w", err)
	}
	priv, ok := jwk.Key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("keys: only EC private keys are supported")
	}
	if priv.Curve != elliptic.P256() {
		return nil, errors.New("keys: key must be on the P-256 curve")
	}
	return pairFromECDSA(priv)
}

func pairFromECDSA(priv *ecdsa.PrivateKey) (*Pair, error) {
	public := jose.JSONWebKey{Key: priv.Public(), Algorithm: string(jose.ES256), Use: "sig"}
	kid, err := Thumbprint(public)
	if err != nil {
		return nil, err
	}
	public.KeyID = kid

	private := jose.JSONWebKey{Key: priv, KeyID: kid, Algorithm: string(jose.ES256), Use: "sig"}
	return &Pair{PrivateKey: private, PublicKey: public, KID: kid}, nil
}

// Thumbprint computes the deterministic key id: the base64url-encoded
// SHA-256 JWK thumbprint (RFC 7638) of the key's public components. The
// same public key always yields the same id, whether the input carries its
// private part or not.
func Thumbprint(jwk jose.JSONWebKey) (string, error) {
	sum, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("keys: computing thumbprint: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sum), nil
}
