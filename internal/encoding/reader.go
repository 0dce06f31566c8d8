// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// A Reader reads a record written by a Writer. Fields must be requested in
// the order they were written. Requesting a field that was not written (or
// was omitted) returns ok == false and does not consume anything.
type Reader struct {
	r       *bufio.Reader
	current uint
	err     error
	last    uint
}

// NewReader creates a new Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Reset returns the last field read and any error recorded while reading.
// Field names are used to format errors.
func (r *Reader) Reset(fieldNames []string) (uint, error) {
	last, err := r.last, r.err
	r.last, r.err = 0, nil

	if err == nil || len(fieldNames) == 0 || int(last) >= len(fieldNames) {
		return last, err
	}

	return last, fmt.Errorf("field %s: %w", fieldNames[last], err)
}

// ReadAll reads any bytes remaining after the last recognized field.
func (r *Reader) ReadAll() ([]byte, error) {
	if r.err != nil && !errors.Is(r.err, io.EOF) {
		return nil, r.err
	}
	return io.ReadAll(r.r)
}

// peekField reads the next field number, if it has not been read already.
func (r *Reader) peekField() (uint, bool) {
	if r.err != nil {
		return 0, false
	}
	if r.current != 0 {
		return r.current, true
	}

	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		// EOF at a field boundary just means there are no more fields
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		return 0, false
	}
	if v < 1 || v > MaxFieldNumber {
		r.err = ErrInvalidFieldNumber
		return 0, false
	}

	r.current = uint(v)
	return r.current, true
}

func (r *Reader) didRead(field uint, err error) bool {
	r.current = 0
	if err == nil {
		r.last = field
		return true
	}
	if r.err == nil {
		r.err = err
	}
	return false
}

// ReadUint reads an unsigned varint field.
func (r *Reader) ReadUint(field uint) (uint64, bool) {
	if f, ok := r.peekField(); !ok || f != field {
		return 0, false
	}
	v, err := binary.ReadUvarint(r.r)
	return v, r.didRead(field, err)
}

// ReadInt reads a signed (zigzag) varint field.
func (r *Reader) ReadInt(field uint) (int64, bool) {
	if f, ok := r.peekField(); !ok || f != field {
		return 0, false
	}
	v, err := binary.ReadVarint(r.r)
	return v, r.didRead(field, err)
}

// ReadBool reads a boolean field.
func (r *Reader) ReadBool(field uint) (bool, bool) {
	v, ok := r.ReadUint(field)
	return v != 0, ok
}

// ReadBytes reads a length-prefixed byte string field.
func (r *Reader) ReadBytes(field uint) ([]byte, bool) {
	if f, ok := r.peekField(); !ok || f != field {
		return nil, false
	}
	n, err := binary.ReadUvarint(r.r)
	if err != nil {
		return nil, r.didRead(field, err)
	}
	b := make([]byte, n)
	_, err = io.ReadFull(r.r, b)
	if !r.didRead(field, err) {
		return nil, false
	}
	return b, true
}

// ReadString reads a length-prefixed string field.
func (r *Reader) ReadString(field uint) (string, bool) {
	b, ok := r.ReadBytes(field)
	return string(b), ok
}

// ReadValue reads a length-prefixed field and unmarshals it.
func (r *Reader) ReadValue(field uint, unmarshal func([]byte) error) bool {
	b, ok := r.ReadBytes(field)
	if !ok {
		return false
	}
	err := unmarshal(b)
	if err != nil {
		return r.didRead(field, err)
	}
	return true
}

// ReadValueFrom reads a length-prefixed field and unmarshals it from a
// reader.
func (r *Reader) ReadValueFrom(field uint, unmarshal func(io.Reader) error) bool {
	return r.ReadValue(field, func(b []byte) error {
		return unmarshal(bytes.NewReader(b))
	})
}
