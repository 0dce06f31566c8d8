package protocol

import (
	"bytes"
	"io"

	"gitlab.com/cofferchain/coffer/internal/encoding"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// AccountBalance is one account's holdings in one currency. Balance never
// goes negative. Payer is the identity billed for the row's storage when
// it was created; later credits and debits leave it unchanged.
type AccountBalance struct {
	Owner   AccountID
	Balance Asset
	Payer   AccountID
}

// Credit adds the value to the balance. Returns false on symbol mismatch
// or overflow.
func (b *AccountBalance) Credit(value Asset) bool {
	sum, err := b.Balance.Add(value)
	if err != nil {
		return false
	}
	b.Balance = sum
	return true
}

// CanDebit reports whether the balance covers the value.
func (b *AccountBalance) CanDebit(value Asset) bool {
	return b.Balance.Symbol.Equal(value.Symbol) && b.Balance.Amount >= value.Amount
}

// Debit removes the value from the balance. Returns false if the balance
// does not cover it.
func (b *AccountBalance) Debit(value Asset) bool {
	if !b.CanDebit(value) {
		return false
	}
	diff, err := b.Balance.Sub(value)
	if err != nil {
		return false
	}
	b.Balance = diff
	return true
}

// Copy returns a deep copy of the record.
func (b *AccountBalance) Copy() *AccountBalance {
	c := *b
	return &c
}

func (b *AccountBalance) CopyAsInterface() interface{} { return b.Copy() }

func (b *AccountBalance) Equal(c *AccountBalance) bool {
	return b.Owner == c.Owner && b.Balance.Equal(c.Balance) && b.Payer == c.Payer
}

var accountBalanceFields = []string{"", "version", "owner", "balance", "payer"}

func (b *AccountBalance) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteUint(1, recordVersion)
	w.WriteString(2, string(b.Owner))
	w.WriteValue(3, b.Balance.MarshalBinary)
	w.WriteString(4, string(b.Payer))
	_, _, err := w.Reset(accountBalanceFields)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	return buf.Bytes(), nil
}

func (b *AccountBalance) UnmarshalBinary(data []byte) error {
	return b.UnmarshalBinaryFrom(bytes.NewReader(data))
}

func (b *AccountBalance) UnmarshalBinaryFrom(rd io.Reader) error {
	r := encoding.NewReader(rd)
	v, ok := r.ReadUint(1)
	if !ok || v != recordVersion {
		return errors.EncodingError.WithFormat("unsupported account balance record version %d", v)
	}
	if v, ok := r.ReadString(2); ok {
		b.Owner = AccountID(v)
	}
	r.ReadValueFrom(3, b.Balance.UnmarshalBinaryFrom)
	if v, ok := r.ReadString(4); ok {
		b.Payer = AccountID(v)
	}
	_, err := r.Reset(accountBalanceFields)
	return errors.EncodingError.Wrap(err)
}
