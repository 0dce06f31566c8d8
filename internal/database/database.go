// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package database persists the ledger's currency stats and account
// balance tables over a transactional key-value store.
package database

import (
	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/internal/kvdb/memory"
	"gitlab.com/cofferchain/coffer/internal/logging"
)

// Database is the ledger state store.
type Database struct {
	store       kvdb.Store
	logger      logging.OptionalLogger
	nextBatchId int
}

// New creates a database over the given store.
func New(store kvdb.Store, logger logging.Logger) *Database {
	d := new(Database)
	d.store = store
	d.logger.Set(logger, "module", "database")
	return d
}

// OpenInMemory creates a database over an in-memory store.
func OpenInMemory(logger logging.Logger) *Database {
	return New(memory.New(), logger)
}

// Close closes the underlying store.
func (d *Database) Close() error {
	return d.store.Close()
}

// Begin starts a new batch.
func (d *Database) Begin(writable bool) *Batch {
	d.nextBatchId++

	b := new(Batch)
	b.id = d.nextBatchId
	b.writable = writable
	b.logger = d.logger
	b.store = d.store.Begin(writable)
	b.values = map[string]cachedValue{}
	return b
}

// View runs the function with a read-only batch.
func (d *Database) View(fn func(batch *Batch) error) error {
	batch := d.Begin(false)
	defer batch.Discard()
	return fn(batch)
}

// Update runs the function with a writable batch and commits if the
// function succeeds.
func (d *Database) Update(fn func(batch *Batch) error) error {
	batch := d.Begin(true)
	defer batch.Discard()
	err := fn(batch)
	if err != nil {
		return err
	}
	return batch.Commit()
}
