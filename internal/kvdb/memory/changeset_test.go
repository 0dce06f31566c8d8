// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/internal/kvdb/memory"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

func TestCommitVisibility(t *testing.T) {
	db := memory.New()
	key := kvdb.NewKey("stat", uint64(42))

	txn := db.Begin(true)
	require.NoError(t, txn.Put(key, []byte("x")))

	// Not visible to other transactions before commit
	other := db.Begin(false)
	_, err := other.Get(key)
	require.True(t, errors.Is(err, errors.NotFound))
	other.Discard()

	// Visible to this transaction
	v, err := txn.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("x"), v)

	require.NoError(t, txn.Commit())

	after := db.Begin(false)
	defer after.Discard()
	v, err = after.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("x"), v)
}

func TestDiscard(t *testing.T) {
	db := memory.New()
	key := kvdb.NewKey("stat", uint64(1))

	txn := db.Begin(true)
	require.NoError(t, txn.Put(key, []byte("x")))
	txn.Discard()

	after := db.Begin(false)
	defer after.Discard()
	_, err := after.Get(key)
	require.True(t, errors.Is(err, errors.NotFound))
}

func TestDelete(t *testing.T) {
	db := memory.New()
	key := kvdb.NewKey("acct", "alice", uint64(1))

	txn := db.Begin(true)
	require.NoError(t, txn.Put(key, []byte("x")))
	require.NoError(t, txn.Commit())

	txn = db.Begin(true)
	require.NoError(t, txn.Delete(key))

	// The delete shadows the committed value within the transaction
	_, err := txn.Get(key)
	require.True(t, errors.Is(err, errors.NotFound))
	require.NoError(t, txn.Commit())

	after := db.Begin(false)
	defer after.Discard()
	_, err = after.Get(key)
	require.True(t, errors.Is(err, errors.NotFound))
}

func TestForEachPrefix(t *testing.T) {
	db := memory.New()

	txn := db.Begin(true)
	require.NoError(t, txn.Put(kvdb.NewKey("acct", "alice", uint64(1)), []byte("a")))
	require.NoError(t, txn.Put(kvdb.NewKey("acct", "alice", uint64(2)), []byte("b")))
	require.NoError(t, txn.Put(kvdb.NewKey("acct", "bob", uint64(1)), []byte("c")))
	require.NoError(t, txn.Put(kvdb.NewKey("stat", uint64(1)), []byte("d")))
	require.NoError(t, txn.Commit())

	var got []string
	txn = db.Begin(false)
	defer txn.Discard()
	err := txn.ForEach(kvdb.NewKey("acct", "alice"), func(key, value []byte) error {
		got = append(got, string(value))
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestForEachSeesPendingWrites(t *testing.T) {
	db := memory.New()

	txn := db.Begin(true)
	require.NoError(t, txn.Put(kvdb.NewKey("stat", uint64(1)), []byte("a")))
	require.NoError(t, txn.Commit())

	txn = db.Begin(true)
	defer txn.Discard()
	require.NoError(t, txn.Put(kvdb.NewKey("stat", uint64(1)), []byte("b")))
	require.NoError(t, txn.Put(kvdb.NewKey("stat", uint64(2)), []byte("c")))

	var got []string
	err := txn.ForEach(kvdb.NewKey("stat"), func(key, value []byte) error {
		got = append(got, string(value))
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c"}, got)
}

func TestUseAfterCommit(t *testing.T) {
	db := memory.New()
	txn := db.Begin(true)
	require.NoError(t, txn.Commit())
	require.Error(t, txn.Put(kvdb.NewKey("stat", uint64(1)), nil))
}
