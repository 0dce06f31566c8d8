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

// Audit verifies the ledger's conservation invariants against the
// key-value store: for every currency, the sum of all balance rows equals
// the recorded supply, the supply does not exceed the cap, and nothing is
// negative. Audit reads the store directly, so it must be called on a
// batch without uncommitted record writes.
func (b *Batch) Audit() error {
	if b.done {
		panic("attempted to use a committed or discarded batch")
	}

	stats := map[protocol.SymbolCode]*protocol.CurrencyStats{}
	err := b.store.ForEach(kvdb.NewKey("stat"), func(key, value []byte) error {
		s := new(protocol.CurrencyStats)
		err := s.UnmarshalBinary(value)
		if err != nil {
			return errors.EncodingError.Wrap(err)
		}

		switch {
		case !s.Supply.Symbol.Equal(s.MaxSupply.Symbol):
			return errors.InternalError.WithFormat("token %v: supply and cap symbols differ", s.Supply.Symbol)
		case s.Supply.Amount < 0:
			return errors.InternalError.WithFormat("token %v: supply is negative", s.Supply.Symbol.Code)
		case s.MaxSupply.Amount < 0:
			return errors.InternalError.WithFormat("token %v: cap is negative", s.Supply.Symbol.Code)
		case s.Supply.Amount > s.MaxSupply.Amount:
			return errors.InternalError.WithFormat("token %v: supply %v exceeds cap %v", s.Supply.Symbol.Code, s.Supply, s.MaxSupply)
		}

		stats[s.Supply.Symbol.Code] = s
		return nil
	})
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	sums := map[protocol.SymbolCode]int64{}
	err = b.store.ForEach(kvdb.NewKey("acct"), func(key, value []byte) error {
		row := new(protocol.AccountBalance)
		err := row.UnmarshalBinary(value)
		if err != nil {
			return errors.EncodingError.Wrap(err)
		}

		code := row.Balance.Symbol.Code
		if row.Balance.Amount < 0 {
			return errors.InternalError.WithFormat("balance row %v/%v is negative", row.Owner, code)
		}
		if _, ok := stats[code]; !ok {
			return errors.InternalError.WithFormat("balance row %v/%v references a token that does not exist", row.Owner, code)
		}
		sums[code] += row.Balance.Amount
		return nil
	})
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	for code, s := range stats {
		if sums[code] != s.Supply.Amount {
			return errors.InternalError.WithFormat("token %v: balances sum to %d but supply is %d", code, sums[code], s.Supply.Amount)
		}
	}
	return nil
}
