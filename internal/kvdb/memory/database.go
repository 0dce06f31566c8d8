// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory

import (
	"sort"
	"strings"
	"sync"

	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// Database is an in-memory key-value store, used for tests and as the
// default backend.
type Database struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ kvdb.Store = (*Database)(nil)

func New() *Database {
	return &Database{entries: map[string][]byte{}}
}

// Begin begins a transaction.
func (d *Database) Begin(writable bool) kvdb.Txn {
	var commit CommitFunc
	if writable {
		commit = d.put
	}
	return NewChangeSet(d.get, d.forEach, commit, nil)
}

func (d *Database) Close() error { return nil }

func (d *Database) get(key *kvdb.Key) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.entries[string(key.Bytes())]
	if !ok {
		return nil, errors.NotFound.WithFormat("%v not found", key)
	}
	// Make a copy, otherwise values may leak
	u := make([]byte, len(v))
	copy(u, v)
	return u, nil
}

func (d *Database) forEach(prefix *kvdb.Key, fn func(key, value []byte) error) error {
	d.mu.RLock()
	keys := make([]string, 0, len(d.entries))
	p := string(prefix.Bytes())
	for k := range d.entries {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	d.mu.RUnlock()
	sort.Strings(keys)

	for _, k := range keys {
		d.mu.RLock()
		v, ok := d.entries[k]
		d.mu.RUnlock()
		if !ok {
			continue
		}
		err := fn([]byte(k), v)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) put(entries map[string]Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, e := range entries {
		if e.Delete {
			delete(d.entries, k)
		} else {
			d.entries[k] = e.Value
		}
	}
	return nil
}
