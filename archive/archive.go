// Package archive retains the artifacts of every exchange attempt:
// produced tokens stored content-addressed, plus an append-only log of
// send records. The archive is local-only; ciphertext leaves the machine
// only through the exchange endpoint.
package archive

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	ErrNotFound = errors.New("archive: not found")
	ErrMismatch = errors.New("archive: content does not match cid")
	ErrInvalid  = errors.New("archive: invalid cid")
)

// Sum returns the CIDv1 (raw codec, sha2-256 multihash) for data. Same
// profile for every artifact, so equal tokens always share an address.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Store is a filesystem content-addressed store for exchange artifacts.
// Objects are immutable and keyed strictly by CID.
type Store struct {
	root string
}

// Open constructs an archive rooted at root, creating it if needed.
func Open(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("archive: root directory is required")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Put stores data and returns its CID. Storing the same bytes twice is
// idempotent; a readable file that no longer matches its CID reports
// ErrMismatch.
func (s *Store) Put(data []byte) (cid.Cid, error) {
	id, err := Sum(data)
	if err != nil {
		return cid.Undef, err
	}

	path := s.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return cid.Undef, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o400)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := s.Get(id)
			if rerr != nil || string(existing) != string(data) {
				return cid.Undef, ErrMismatch
			}
			return id, nil
		}
		return cid.Undef, err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return cid.Undef, err
	}
	return id, nil
}

// Get returns the bytes stored under id, verifying them against the CID.
func (s *Store) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalid
	}
	b, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	got, err := Sum(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, ErrMismatch
	}
	return b, nil
}

// Has reports whether id is present.
func (s *Store) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(s.pathFor(id))
	return err == nil
}

func (s *Store) pathFor(id cid.Cid) string {
	str := id.String()
	if len(str) < 2 {
		return filepath.Join(s.root, "blocks", str)
	}
	return filepath.Join(s.root, "blocks", str[:2], str)
}
