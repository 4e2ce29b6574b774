package storage

import (
	"errors"
)

var (
	// Note: there is another not found error: badger.ErrKeyNotFound. The
	// difference between badger.ErrKeyNotFound and storage.ErrNotFound is:
	// badger.ErrKeyNotFound is returned by the badger API, while modules in
	// storage/badger and storage/badger/operation return storage.ErrNotFound.
	ErrNotFound = errors.New("key not found")

	ErrAlreadyExists = errors.New("key already exists")
)
