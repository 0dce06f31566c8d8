// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory

import (
	"sync"

	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// An Entry is a pending write.
type Entry struct {
	Key    *kvdb.Key
	Value  []byte
	Delete bool
}

type (
	GetFunc     func(key *kvdb.Key) ([]byte, error)
	ForEachFunc func(prefix *kvdb.Key, fn func(key, value []byte) error) error
	CommitFunc  func(entries map[string]Entry) error
	DiscardFunc func()
)

// A ChangeSet caches writes in a map until Commit. It backs both the
// in-memory store and the Badger store, which supplies its own get, scan,
// and commit functions. Get always sees this transaction's own writes.
type ChangeSet struct {
	mu       sync.Mutex
	writable bool
	done     bool
	pending  map[string]Entry
	get      GetFunc
	forEach  ForEachFunc
	commit   CommitFunc
	discard  DiscardFunc
}

var _ kvdb.Txn = (*ChangeSet)(nil)

// NewChangeSet constructs a change set over the given backend functions.
// commit may be nil for a read-only transaction.
func NewChangeSet(get GetFunc, forEach ForEachFunc, commit CommitFunc, discard DiscardFunc) *ChangeSet {
	c := new(ChangeSet)
	c.writable = commit != nil
	c.get = get
	c.forEach = forEach
	c.commit = commit
	c.discard = discard
	return c
}

func (c *ChangeSet) Get(key *kvdb.Key) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return nil, errors.InternalError.With("attempted to use a committed or discarded transaction")
	}

	if e, ok := c.pending[string(key.Bytes())]; ok {
		if e.Delete {
			return nil, errors.NotFound.WithFormat("%v not found", key)
		}
		return e.Value, nil
	}

	return c.get(key)
}

func (c *ChangeSet) Put(key *kvdb.Key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.done:
		return errors.InternalError.With("attempted to use a committed or discarded transaction")
	case !c.writable:
		return errors.InternalError.With("attempted to write to a read-only transaction")
	}

	if c.pending == nil {
		c.pending = map[string]Entry{}
	}
	c.pending[string(key.Bytes())] = Entry{Key: key, Value: value}
	return nil
}

func (c *ChangeSet) Delete(key *kvdb.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.done:
		return errors.InternalError.With("attempted to use a committed or discarded transaction")
	case !c.writable:
		return errors.InternalError.With("attempted to write to a read-only transaction")
	}

	if c.pending == nil {
		c.pending = map[string]Entry{}
	}
	c.pending[string(key.Bytes())] = Entry{Key: key, Delete: true}
	return nil
}

func (c *ChangeSet) ForEach(prefix *kvdb.Key, fn func(key, value []byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return errors.InternalError.With("attempted to use a committed or discarded transaction")
	}

	// Pending writes shadow the backend
	p := string(prefix.Bytes())
	for k, e := range c.pending {
		if e.Delete || len(k) < len(p) || k[:len(p)] != p {
			continue
		}
		err := fn([]byte(k), e.Value)
		if err != nil {
			return err
		}
	}

	return c.forEach(prefix, func(key, value []byte) error {
		if _, ok := c.pending[string(key)]; ok {
			return nil
		}
		return fn(key, value)
	})
}

// Commit commits pending writes. Attempting to use the change set after
// calling Commit or Discard will fail.
func (c *ChangeSet) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.done:
		return errors.InternalError.With("attempted to use a committed or discarded transaction")
	case !c.writable:
		return errors.InternalError.With("attempted to commit a read-only transaction")
	}

	c.done = true
	defer c.runDiscard()
	return c.commit(c.pending)
}

// Discard discards pending writes.
func (c *ChangeSet) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	c.done = true
	c.runDiscard()
}

func (c *ChangeSet) runDiscard() {
	c.pending = nil
	if c.discard != nil {
		c.discard()
	}
}
