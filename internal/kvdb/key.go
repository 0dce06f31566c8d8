// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package kvdb

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// A Key is a composite table key. Keys are encoded part by part, each part
// length-prefixed, so the encoding of a key is a byte-prefix of the
// encoding of any key it is a prefix of. That property is what makes
// ForEach prefix scans work.
type Key struct {
	parts []interface{}
}

// NewKey constructs a key from the given parts. Parts must be strings,
// byte slices, or unsigned integers.
func NewKey(parts ...interface{}) *Key {
	k := &Key{parts: make([]interface{}, 0, len(parts))}
	return k.Append(parts...)
}

// Append returns a new key with the parts appended.
func (k *Key) Append(parts ...interface{}) *Key {
	l := &Key{parts: make([]interface{}, 0, len(k.parts)+len(parts))}
	l.parts = append(l.parts, k.parts...)
	for _, p := range parts {
		switch p := p.(type) {
		case string, []byte, uint64:
			l.parts = append(l.parts, p)
		case uint:
			l.parts = append(l.parts, uint64(p))
		case uint32:
			l.parts = append(l.parts, uint64(p))
		case fmt.Stringer:
			l.parts = append(l.parts, p.String())
		default:
			panic(fmt.Sprintf("unsupported key part type %T", p))
		}
	}
	return l
}

// Bytes returns the encoded key.
func (k *Key) Bytes() []byte {
	var b []byte
	var buf [binary.MaxVarintLen64]byte
	for _, p := range k.parts {
		switch p := p.(type) {
		case string:
			n := binary.PutUvarint(buf[:], uint64(len(p)))
			b = append(b, buf[:n]...)
			b = append(b, p...)
		case []byte:
			n := binary.PutUvarint(buf[:], uint64(len(p)))
			b = append(b, buf[:n]...)
			b = append(b, p...)
		case uint64:
			binary.BigEndian.PutUint64(buf[:8], p)
			b = append(b, 0xFF) // Marks a fixed-width part
			b = append(b, buf[:8]...)
		}
	}
	return b
}

// String returns a human-readable form of the key.
func (k *Key) String() string {
	s := make([]string, len(k.parts))
	for i, p := range k.parts {
		switch p := p.(type) {
		case []byte:
			s[i] = fmt.Sprintf("%x", p)
		default:
			s[i] = fmt.Sprint(p)
		}
	}
	return strings.Join(s, ".")
}
