package protocol

import (
	"strconv"
	"strings"

	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// SymbolCode is a currency code of 1 to 7 characters A-Z, packed one byte
// per character from the low end of a uint64. The raw integer is used as
// the table key for both stats and balance rows.
type SymbolCode uint64

// ParseSymbolCode parses a currency code such as "CFF".
func ParseSymbolCode(s string) (SymbolCode, error) {
	if len(s) < 1 || len(s) > 7 {
		return 0, errors.BadRequest.WithFormat("invalid symbol name %q", s)
	}
	var c SymbolCode
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] < 'A' || s[i] > 'Z' {
			return 0, errors.BadRequest.WithFormat("invalid symbol name %q", s)
		}
		c = c<<8 | SymbolCode(s[i])
	}
	return c, nil
}

// Raw returns the packed integer value of the code.
func (c SymbolCode) Raw() uint64 { return uint64(c) }

// Valid reports whether the code is 1 to 7 characters A-Z with no gaps.
func (c SymbolCode) Valid() bool {
	if c == 0 {
		return false
	}
	v := uint64(c)
	var seenEnd bool
	for i := 0; i < 8; i++ {
		b := byte(v)
		v >>= 8
		switch {
		case b == 0:
			seenEnd = true
		case seenEnd || b < 'A' || b > 'Z' || i == 7:
			return false
		}
	}
	return true
}

func (c SymbolCode) String() string {
	var sb strings.Builder
	v := uint64(c)
	for v != 0 {
		sb.WriteByte(byte(v))
		v >>= 8
	}
	return sb.String()
}

// A Symbol is a currency code plus its decimal precision. Two symbols are
// equal only if both match.
type Symbol struct {
	Code      SymbolCode
	Precision uint32
}

// NewSymbol constructs a symbol from a code string and precision.
func NewSymbol(code string, precision uint32) (Symbol, error) {
	c, err := ParseSymbolCode(code)
	if err != nil {
		return Symbol{}, errors.UnknownError.Wrap(err)
	}
	s := Symbol{Code: c, Precision: precision}
	if !s.Valid() {
		return Symbol{}, errors.BadRequest.WithFormat("invalid symbol %v", s)
	}
	return s, nil
}

// MustNewSymbol constructs a symbol or panics. For use in tests and
// initialization of well-known constants.
func MustNewSymbol(code string, precision uint32) Symbol {
	s, err := NewSymbol(code, precision)
	if err != nil {
		panic(err)
	}
	return s
}

// Valid reports whether the code is well-formed and the precision is within
// range.
func (s Symbol) Valid() bool {
	return s.Code.Valid() && s.Precision <= MaxPrecision
}

func (s Symbol) Equal(t Symbol) bool {
	return s.Code == t.Code && s.Precision == t.Precision
}

func (s Symbol) String() string {
	return strconv.FormatUint(uint64(s.Precision), 10) + "," + s.Code.String()
}
