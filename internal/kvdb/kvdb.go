// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package kvdb

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// ErrNotFound is returned when a key is not present in the store.
var ErrNotFound error = errors.NotFound.With("not found")

// A Store is a transactional key-value store.
type Store interface {
	// Begin begins a transaction. A read-only transaction must be
	// discarded; a writable transaction must be committed or discarded.
	Begin(writable bool) Txn

	// Close closes the store.
	Close() error
}

// A Txn is a key-value transaction. Writes are not visible to other
// transactions until Commit.
type Txn interface {
	// Get returns the value of the key, or ErrNotFound.
	Get(key *Key) ([]byte, error)

	// Put stores the value of the key.
	Put(key *Key, value []byte) error

	// Delete removes the key.
	Delete(key *Key) error

	// ForEach calls fn for every key-value pair whose key starts with the
	// prefix, including uncommitted writes of this transaction.
	ForEach(prefix *Key, fn func(key, value []byte) error) error

	// Commit commits pending writes to the store.
	Commit() error

	// Discard discards pending writes.
	Discard()
}
