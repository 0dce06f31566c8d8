package protocol

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"gitlab.com/cofferchain/coffer/internal/encoding"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// An Asset is an integer amount of some currency. The amount is denominated
// in the smallest unit of the symbol's precision, so 1.0000 of a
// precision-4 symbol is Amount == 10000.
type Asset struct {
	Amount int64
	Symbol Symbol
}

// NewAsset constructs an asset.
func NewAsset(amount int64, symbol Symbol) Asset {
	return Asset{Amount: amount, Symbol: symbol}
}

// Zero returns the zero asset of the symbol.
func Zero(symbol Symbol) Asset {
	return Asset{Symbol: symbol}
}

// Valid reports whether the amount is within range and the symbol is
// well-formed.
func (a Asset) Valid() bool {
	return a.Amount >= -MaxAmount && a.Amount <= MaxAmount && a.Symbol.Valid()
}

// IsZero reports whether the amount is zero.
func (a Asset) IsZero() bool { return a.Amount == 0 }

// Add returns a + b. Adding assets of different symbols or overflowing the
// amount range is an error.
func (a Asset) Add(b Asset) (Asset, error) {
	if !a.Symbol.Equal(b.Symbol) {
		return Asset{}, errors.BadRequest.WithFormat("attempt to add assets with different symbols (%v vs %v)", a.Symbol, b.Symbol)
	}
	c := Asset{Amount: a.Amount + b.Amount, Symbol: a.Symbol}
	if c.Amount < -MaxAmount || c.Amount > MaxAmount {
		return Asset{}, errors.BadRequest.With("addition overflow")
	}
	return c, nil
}

// Sub returns a - b. Subtracting assets of different symbols or
// overflowing the amount range is an error.
func (a Asset) Sub(b Asset) (Asset, error) {
	if !a.Symbol.Equal(b.Symbol) {
		return Asset{}, errors.BadRequest.WithFormat("attempt to subtract assets with different symbols (%v vs %v)", a.Symbol, b.Symbol)
	}
	c := Asset{Amount: a.Amount - b.Amount, Symbol: a.Symbol}
	if c.Amount < -MaxAmount || c.Amount > MaxAmount {
		return Asset{}, errors.BadRequest.With("subtraction underflow")
	}
	return c, nil
}

// Equal reports whether the assets have the same amount and symbol.
func (a Asset) Equal(b Asset) bool {
	return a.Amount == b.Amount && a.Symbol.Equal(b.Symbol)
}

// String formats the asset as "100.0000 TOK".
func (a Asset) String() string {
	v := a.Amount
	var sb strings.Builder
	if v < 0 {
		sb.WriteByte('-')
		v = -v
	}

	s := strconv.FormatInt(v, 10)
	p := int(a.Symbol.Precision)
	if len(s) <= p {
		s = strings.Repeat("0", p-len(s)+1) + s
	}
	sb.WriteString(s[:len(s)-p])
	if p > 0 {
		sb.WriteByte('.')
		sb.WriteString(s[len(s)-p:])
	}
	sb.WriteByte(' ')
	sb.WriteString(a.Symbol.Code.String())
	return sb.String()
}

// ParseAsset parses "100.0000 TOK". The precision is the number of decimal
// places written.
func ParseAsset(s string) (Asset, error) {
	num, code, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return Asset{}, errors.BadRequest.WithFormat("invalid asset %q: missing symbol", s)
	}

	var precision uint32
	whole, frac, hasFrac := strings.Cut(num, ".")
	if hasFrac {
		precision = uint32(len(frac))
	}

	amount, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return Asset{}, errors.BadRequest.WithFormat("invalid asset %q: %w", s, err)
	}

	sym, err := NewSymbol(code, precision)
	if err != nil {
		return Asset{}, errors.UnknownError.Wrap(err)
	}

	a := Asset{Amount: amount, Symbol: sym}
	if !a.Valid() {
		return Asset{}, errors.BadRequest.WithFormat("invalid asset %q: amount out of range", s)
	}
	return a, nil
}

var assetFields = []string{"", "amount", "code", "precision"}

func (a *Asset) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteInt(1, a.Amount)
	w.WriteUint(2, a.Symbol.Code.Raw())
	w.WriteUint(3, uint64(a.Symbol.Precision))
	_, _, err := w.Reset(assetFields)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	return buf.Bytes(), nil
}

func (a *Asset) UnmarshalBinary(data []byte) error {
	return a.UnmarshalBinaryFrom(bytes.NewReader(data))
}

func (a *Asset) UnmarshalBinaryFrom(rd io.Reader) error {
	r := encoding.NewReader(rd)
	if v, ok := r.ReadInt(1); ok {
		a.Amount = v
	}
	if v, ok := r.ReadUint(2); ok {
		a.Symbol.Code = SymbolCode(v)
	}
	if v, ok := r.ReadUint(3); ok {
		a.Symbol.Precision = uint32(v)
	}
	_, err := r.Reset(assetFields)
	return errors.EncodingError.Wrap(err)
}
