// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/internal/logging"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// A TypedValue is a record that can be stored in a batch.
type TypedValue interface {
	MarshalBinary() ([]byte, error)
	CopyAsInterface() interface{}
}

type cachedValue struct {
	key     *kvdb.Key
	value   TypedValue
	dirty   bool
	deleted bool
}

// Batch batches table reads and writes. All mutations of one ledger action
// share a batch: committing the batch applies them all, discarding it
// applies none.
type Batch struct {
	done        bool
	writable    bool
	dirty       bool
	id          int
	nextChildId int
	parent      *Batch
	logger      logging.OptionalLogger
	store       kvdb.Txn
	values      map[string]cachedValue
}

// Begin starts a nested batch. Committing the child propagates its writes
// to the parent; the store is only written when the root batch commits.
func (b *Batch) Begin(writable bool) *Batch {
	if writable && !b.writable {
		b.logger.Info("Attempted to create a writable batch from a read-only batch")
	}

	b.nextChildId++

	c := new(Batch)
	c.id = b.nextChildId
	c.writable = b.writable && writable
	c.parent = b
	c.logger = b.logger
	c.store = b.store
	c.values = map[string]cachedValue{}
	return c
}

// View runs the function with a read-only child batch.
func (b *Batch) View(fn func(batch *Batch) error) error {
	batch := b.Begin(false)
	defer batch.Discard()
	return fn(batch)
}

// Update runs the function with a writable child batch and commits if the
// function succeeds.
func (b *Batch) Update(fn func(batch *Batch) error) error {
	batch := b.Begin(true)
	defer batch.Discard()
	err := fn(batch)
	if err != nil {
		return err
	}
	return batch.Commit()
}

func (b *Batch) cacheValue(cv cachedValue) {
	if cv.dirty {
		b.dirty = true
	}
	k := string(cv.key.Bytes())
	if prev, ok := b.values[k]; ok && prev.dirty {
		cv.dirty = true
	}
	b.values[k] = cv
}

func (b *Batch) getValue(key *kvdb.Key, unmarshal func([]byte) (TypedValue, error)) (TypedValue, error) {
	if b.done {
		panic("attempted to use a committed or discarded batch")
	}

	// Check for a cached value
	if cv, ok := b.values[string(key.Bytes())]; ok {
		if cv.deleted {
			return nil, errors.NotFound.WithFormat("%v not found", key)
		}
		return cv.value, nil
	}

	// See if the parent has the value
	if b.parent != nil {
		v, err := b.parent.getValue(key, unmarshal)
		if err != nil {
			return nil, err
		}

		// Make a copy, otherwise values may leak between batches
		v = v.CopyAsInterface().(TypedValue)
		b.cacheValue(cachedValue{key: key, value: v})
		return v, nil
	}

	data, err := b.store.Get(key)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	v, err := unmarshal(data)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("unmarshal %v: %w", key, err)
	}

	b.cacheValue(cachedValue{key: key, value: v})
	return v, nil
}

func (b *Batch) putValue(key *kvdb.Key, value TypedValue) error {
	if b.done {
		panic("attempted to use a committed or discarded batch")
	}
	if !b.writable {
		return errors.InternalError.With("attempted to write to a read-only batch")
	}

	b.cacheValue(cachedValue{key: key, value: value, dirty: true})
	return nil
}

func (b *Batch) deleteValue(key *kvdb.Key) error {
	if b.done {
		panic("attempted to use a committed or discarded batch")
	}
	if !b.writable {
		return errors.InternalError.With("attempted to write to a read-only batch")
	}

	b.cacheValue(cachedValue{key: key, dirty: true, deleted: true})
	return nil
}

// Commit commits pending writes to the key-value store or the parent
// batch. Attempting to use the batch after calling Commit or Discard will
// result in a panic.
func (b *Batch) Commit() error {
	if b.done {
		panic("attempted to use a committed or discarded batch")
	}

	b.done = true

	if b.parent != nil {
		for _, cv := range b.values {
			if !cv.dirty {
				continue
			}
			b.parent.cacheValue(cv)
		}
		return nil
	}

	for _, cv := range b.values {
		if !cv.dirty {
			continue
		}

		if cv.deleted {
			err := b.store.Delete(cv.key)
			if err != nil {
				return errors.UnknownError.WithFormat("delete %v: %w", cv.key, err)
			}
			continue
		}

		data, err := cv.value.MarshalBinary()
		if err != nil {
			return errors.EncodingError.WithFormat("marshal %v: %w", cv.key, err)
		}
		err = b.store.Put(cv.key, data)
		if err != nil {
			return errors.UnknownError.WithFormat("store %v: %w", cv.key, err)
		}
	}
	return b.store.Commit()
}

// Discard discards pending writes. Attempting to use the batch after
// calling Discard will result in a panic.
func (b *Batch) Discard() {
	if !b.done && b.writable && b.dirty {
		b.logger.Debug("Discarding a dirty batch", "id", b.id)
	}
	b.done = true
	if b.parent == nil {
		b.store.Discard()
	}
}

// Dirty returns true if anything has been changed.
func (b *Batch) Dirty() bool {
	return b.dirty
}
