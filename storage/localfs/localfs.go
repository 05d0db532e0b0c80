// Package localfs is the filesystem-backed slot store.
package localfs

import (
	"errors"
	"os"
	"path/filepath"

	"bindx.dev/bindx/storage"
)

// Store persists slots as JSON files under root.
//
// Writes go to a temp file first and are renamed into place, so a crash
// mid-write never leaves a half-written slot behind. Files are 0600: the
// keys slot holds private key material.
type Store struct {
	root string
}

// New constructs a slot store rooted at root. The directory is created if
// needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Load(name string) ([]byte, error) {
	if err := storage.CheckSlotName(name); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Store) Save(name string, data []byte) error {
	if err := storage.CheckSlotName(name); err != nil {
		return err
	}
	path := s.pathFor(name)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Store) Delete(name string) error {
	if err := storage.CheckSlotName(name); err != nil {
		return err
	}
	err := os.Remove(s.pathFor(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.root, name+".json")
}
