package protocol

import (
	"bytes"
	"io"

	"gitlab.com/cofferchain/coffer/internal/encoding"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// CurrencyStats is the per-currency supply record. Supply and MaxSupply
// always share a symbol, and 0 <= Supply <= MaxSupply. MaxSupply is set
// strictly positive at creation and only ever decreases afterwards, via
// burns: burning retires issuance headroom permanently, not just
// circulating supply.
type CurrencyStats struct {
	Supply    Asset
	MaxSupply Asset
	Issuer    AccountID
}

// Headroom returns the amount that can still be issued.
func (s *CurrencyStats) Headroom() int64 {
	return s.MaxSupply.Amount - s.Supply.Amount
}

// Issue adds the quantity to the supply. Returns false if the quantity
// exceeds the remaining headroom.
func (s *CurrencyStats) Issue(quantity Asset) bool {
	if quantity.Amount > s.Headroom() {
		return false
	}
	sum, err := s.Supply.Add(quantity)
	if err != nil {
		return false
	}
	s.Supply = sum
	return true
}

// Retire removes the quantity from the supply. Returns false if the supply
// would go negative.
func (s *CurrencyStats) Retire(quantity Asset) bool {
	if quantity.Amount > s.Supply.Amount {
		return false
	}
	diff, err := s.Supply.Sub(quantity)
	if err != nil {
		return false
	}
	s.Supply = diff
	return true
}

// Burn removes the quantity from the supply and from the cap. Returns
// false if either would go negative.
func (s *CurrencyStats) Burn(quantity Asset) bool {
	if quantity.Amount > s.Supply.Amount || quantity.Amount > s.MaxSupply.Amount {
		return false
	}
	supply, err := s.Supply.Sub(quantity)
	if err != nil {
		return false
	}
	max, err := s.MaxSupply.Sub(quantity)
	if err != nil {
		return false
	}
	s.Supply, s.MaxSupply = supply, max
	return true
}

// Copy returns a deep copy of the record.
func (s *CurrencyStats) Copy() *CurrencyStats {
	t := *s
	return &t
}

func (s *CurrencyStats) CopyAsInterface() interface{} { return s.Copy() }

func (s *CurrencyStats) Equal(t *CurrencyStats) bool {
	return s.Supply.Equal(t.Supply) && s.MaxSupply.Equal(t.MaxSupply) && s.Issuer == t.Issuer
}

var currencyStatsFields = []string{"", "version", "supply", "maxSupply", "issuer"}

func (s *CurrencyStats) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteUint(1, recordVersion)
	w.WriteValue(2, s.Supply.MarshalBinary)
	w.WriteValue(3, s.MaxSupply.MarshalBinary)
	w.WriteString(4, string(s.Issuer))
	_, _, err := w.Reset(currencyStatsFields)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	return buf.Bytes(), nil
}

func (s *CurrencyStats) UnmarshalBinary(data []byte) error {
	return s.UnmarshalBinaryFrom(bytes.NewReader(data))
}

func (s *CurrencyStats) UnmarshalBinaryFrom(rd io.Reader) error {
	r := encoding.NewReader(rd)
	v, ok := r.ReadUint(1)
	if !ok || v != recordVersion {
		return errors.EncodingError.WithFormat("unsupported currency stats record version %d", v)
	}
	r.ReadValueFrom(2, s.Supply.UnmarshalBinaryFrom)
	r.ReadValueFrom(3, s.MaxSupply.UnmarshalBinaryFrom)
	if v, ok := r.ReadString(4); ok {
		s.Issuer = AccountID(v)
	}
	_, err := r.Reset(currencyStatsFields)
	return errors.EncodingError.Wrap(err)
}
