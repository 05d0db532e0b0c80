package exchange

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/go-jose/go-jose/v4"
)

// ContentType marks a JWE's plaintext as a BIND signed bundle.
const ContentType = "application/bind+json"

// symKeySize is the content-encryption key size: 256 bits for A256GCM.
const symKeySize = 32

// Encrypt wraps a signed token in a compact JWE under a freshly generated
// random symmetric key (direct key agreement + AES-256-GCM). The key is
// returned to the caller and never leaves the client except inside the
// shareable link.
func Encrypt(jws string) (string, []byte, error) {
	key := make([]byte, symKeySize)
	if _, err := rand.Read(key); err != nil {
		return "", nil, wrapError(KindEncrypt, "generating content key", err)
	}

	encrypter, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: key},
		(&jose.EncrypterOptions{}).WithContentType(jose.ContentType(ContentType)),
	)
	if err != nil {
		return "", nil, wrapError(KindEncrypt, "constructing encrypter", err)
	}
	obj, err := encrypter.Encrypt([]byte(jws))
	if err != nil {
		return "", nil, wrapError(KindEncrypt, "encrypting signed token", err)
	}
	compact, err := obj.CompactSerialize()
	if err != nil {
		return "", nil, wrapError(KindEncrypt, "serializing encrypted token", err)
	}
	return compact, key, nil
}

// Decrypt reverses Encrypt given the symmetric key, typically recovered
// from a shareable link. Only dir + A256GCM tokens are accepted.
func Decrypt(jwe string, key []byte) ([]byte, error) {
	obj, err := jose.ParseEncrypted(jwe, []jose.KeyAlgorithm{jose.DIRECT}, []jose.ContentEncryption{jose.A256GCM})
	if err != nil {
		return nil, wrapError(KindEncrypt, "parsing encrypted token", err)
	}
	plaintext, err := obj.Decrypt(key)
	if err != nil {
		return nil, wrapError(KindEncrypt, "decrypting token", err)
	}
	return plaintext, nil
}

// Proof signs a minimal claim set binding the signer to this exact
// ciphertext: sub is the base64url SHA-256 of the compact JWE, signed by
// the same key and issuer as the content.
func (s Signer) Proof(jwe string) (string, error) {
	sum := sha256.Sum256([]byte(jwe))
	token, err := s.Sign(map[string]any{
		"sub": base64.RawURLEncoding.EncodeToString(sum[:]),
	})
	if err != nil {
		return "", wrapError(KindProof, "signing proof", err)
	}
	return token, nil
}
