// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger"
	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/internal/kvdb/memory"
	"gitlab.com/cofferchain/coffer/internal/logging"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// TruncateBadger controls whether Badger is configured to truncate
// corrupted data. Especially on Windows, if the process is terminated
// abruptly, setting this may be necessary to recover the state of the
// system.
var TruncateBadger = false

// Database is a Badger-backed key-value store.
type Database struct {
	badger *badger.DB
	logger logging.OptionalLogger
	ready  bool
	mu     sync.RWMutex
}

var _ kvdb.Store = (*Database)(nil)

// New opens a Badger database at the given path, creating it if necessary.
func New(filepath string, logger logging.Logger) (*Database, error) {
	// Make sure all directories exist
	err := os.MkdirAll(filepath, 0700)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open badger: create %q: %w", filepath, err)
	}

	d := new(Database)
	d.logger.Set(logger, "module", "badger")

	opts := badger.DefaultOptions(filepath)
	opts = opts.WithLogger(badgerLogger{d.logger})
	if TruncateBadger {
		opts = opts.WithTruncate(true)
	}

	d.badger, err = badger.Open(opts)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open badger: %w", err)
	}
	d.ready = true
	mDbOpen.Inc()

	// Run GC every hour
	go d.gc()

	return d, nil
}

// Begin begins a transaction. Reads go through a Badger read transaction;
// writes are cached in a change set and flushed with a write batch on
// commit, to work around Badger's transaction size limits.
func (d *Database) Begin(writable bool) kvdb.Txn {
	rd := d.badger.NewTransaction(false)
	mTxnOpen.Inc()

	get := func(key *kvdb.Key) ([]byte, error) {
		item, err := rd.Get(key.Bytes())
		switch {
		case err == nil:
			// Ok
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, errors.NotFound.WithFormat("%v not found", key)
		default:
			return nil, err
		}

		v, err := item.ValueCopy(nil)
		if err != nil {
			return nil, errors.UnknownError.WithFormat("get %v: %w", key, err)
		}
		return v, nil
	}

	forEach := func(prefix *kvdb.Key, fn func(key, value []byte) error) error {
		it := rd.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := prefix.Bytes()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return errors.UnknownError.Wrap(err)
			}
			err = fn(item.KeyCopy(nil), v)
			if err != nil {
				return err
			}
		}
		return nil
	}

	var commit memory.CommitFunc
	if writable {
		commit = func(entries map[string]memory.Entry) error {
			l, err := d.lock(false)
			if err != nil {
				return err
			}
			defer l.Unlock()

			wr := d.badger.NewWriteBatch()
			defer wr.Cancel()

			for _, e := range entries {
				if e.Delete {
					err = wr.Delete(e.Key.Bytes())
				} else {
					err = wr.Set(e.Key.Bytes(), e.Value)
				}
				if err != nil {
					return err
				}
			}

			return wr.Flush()
		}
	}

	discard := func() {
		rd.Discard()
		mTxnOpen.Dec()
	}

	return memory.NewChangeSet(get, forEach, commit, discard)
}

// Close closes the underlying database.
func (d *Database) Close() error {
	if l, err := d.lock(true); err != nil {
		return err
	} else {
		defer l.Unlock()
	}

	d.ready = false
	mDbOpen.Dec()
	return d.badger.Close()
}

func (d *Database) gc() {
	for {
		// GC every hour
		time.Sleep(time.Hour)

		// Still open?
		l, err := d.lock(false)
		if err != nil {
			return
		}

		// Run GC if 50% space could be reclaimed
		start := time.Now()
		mGcRun.Inc()
		err = d.badger.RunValueLogGC(0.5)
		mGcDuration.Set(time.Since(start).Seconds())
		if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
			d.logger.Error("Badger GC failed", "error", err)
		}

		l.Unlock()
	}
}

// lock acquires a lock on the ready mutex and checks for readiness. This
// prevents race conditions between Get/Put and Close, which can cause
// panics.
func (d *Database) lock(closing bool) (sync.Locker, error) {
	var l sync.Locker = &d.mu
	if !closing {
		l = d.mu.RLocker()
	}

	l.Lock()
	if !d.ready {
		l.Unlock()
		return nil, errors.InternalError.With("database not open")
	}

	return l, nil
}
