// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// Table layout:
//
//	("stat", code)        -> protocol.CurrencyStats
//	("acct", owner, code) -> protocol.AccountBalance
//
// Balance rows are scoped per owner so a prefix scan of ("acct", owner)
// enumerates one account's holdings.

func statKey(code protocol.SymbolCode) *kvdb.Key {
	return kvdb.NewKey("stat", code.Raw())
}

func balanceKey(owner protocol.AccountID, code protocol.SymbolCode) *kvdb.Key {
	return kvdb.NewKey("acct", string(owner), code.Raw())
}

// A TokenRecord accesses the currency stats row of one currency code.
type TokenRecord struct {
	batch *Batch
	code  protocol.SymbolCode
	key   *kvdb.Key
}

// Token returns the currency stats record for the code.
func (b *Batch) Token(code protocol.SymbolCode) *TokenRecord {
	return &TokenRecord{batch: b, code: code, key: statKey(code)}
}

// Get loads the record. Returns a NotFound error if the currency has not
// been created.
func (r *TokenRecord) Get() (*protocol.CurrencyStats, error) {
	v, err := r.batch.getValue(r.key, func(data []byte) (TypedValue, error) {
		s := new(protocol.CurrencyStats)
		err := s.UnmarshalBinary(data)
		return s, err
	})
	if errors.Is(err, errors.NotFound) {
		return nil, errors.NotFound.WithFormat("token %v does not exist", r.code)
	}
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	return v.(*protocol.CurrencyStats), nil
}

// Exists reports whether the currency has been created.
func (r *TokenRecord) Exists() (bool, error) {
	_, err := r.Get()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errors.NotFound):
		return false, nil
	default:
		return false, errors.UnknownError.Wrap(err)
	}
}

// Put stores the record.
func (r *TokenRecord) Put(s *protocol.CurrencyStats) error {
	return r.batch.putValue(r.key, s)
}

// ForEachToken calls fn for each currency stats record. Like Audit, this
// reads the store directly and must not be mixed with uncommitted record
// writes.
func (b *Batch) ForEachToken(fn func(s *protocol.CurrencyStats) error) error {
	if b.done {
		panic("attempted to use a committed or discarded batch")
	}
	return b.store.ForEach(kvdb.NewKey("stat"), func(key, value []byte) error {
		s := new(protocol.CurrencyStats)
		err := s.UnmarshalBinary(value)
		if err != nil {
			return errors.EncodingError.Wrap(err)
		}
		return fn(s)
	})
}

// ForEachBalance calls fn for each of the owner's balance rows.
func (b *Batch) ForEachBalance(owner protocol.AccountID, fn func(row *protocol.AccountBalance) error) error {
	if b.done {
		panic("attempted to use a committed or discarded batch")
	}
	return b.store.ForEach(kvdb.NewKey("acct", string(owner)), func(key, value []byte) error {
		row := new(protocol.AccountBalance)
		err := row.UnmarshalBinary(value)
		if err != nil {
			return errors.EncodingError.Wrap(err)
		}
		return fn(row)
	})
}

// A BalanceRecord accesses one (owner, currency code) balance row.
type BalanceRecord struct {
	batch *Batch
	owner protocol.AccountID
	code  protocol.SymbolCode
	key   *kvdb.Key
}

// Balance returns the balance record for the owner and code.
func (b *Batch) Balance(owner protocol.AccountID, code protocol.SymbolCode) *BalanceRecord {
	return &BalanceRecord{batch: b, owner: owner, code: code, key: balanceKey(owner, code)}
}

// Get loads the row. Returns a NotFound error if the row has never been
// provisioned.
func (r *BalanceRecord) Get() (*protocol.AccountBalance, error) {
	v, err := r.batch.getValue(r.key, func(data []byte) (TypedValue, error) {
		b := new(protocol.AccountBalance)
		err := b.UnmarshalBinary(data)
		return b, err
	})
	if errors.Is(err, errors.NotFound) {
		return nil, errors.NotFound.WithFormat("balance row %v/%v does not exist", r.owner, r.code)
	}
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	return v.(*protocol.AccountBalance), nil
}

// Put stores the row.
func (r *BalanceRecord) Put(b *protocol.AccountBalance) error {
	return r.batch.putValue(r.key, b)
}

// Delete erases the row.
func (r *BalanceRecord) Delete() error {
	return r.batch.deleteValue(r.key)
}
