package storage

import "errors"

var (
	ErrNotFound = errors.New("storage: not found")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
