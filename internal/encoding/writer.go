// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ErrInvalidFieldNumber is returned when an invalid field number is used.
var ErrInvalidFieldNumber = fmt.Errorf("field number is invalid")

// MaxFieldNumber is the largest field number that can be written.
const MaxFieldNumber = 32

// A Writer writes a record as a sequence of field-numbered values. Field
// numbers must be written in ascending order. Values are encoded as the
// field number (unsigned varint) followed by the value itself.
type Writer struct {
	w       io.Writer
	err     error
	written int
	last    uint
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Reset returns the total bytes written, the last field written, and any
// error recorded while writing. Field names are used to format errors.
func (w *Writer) Reset(fieldNames []string) (int, uint, error) {
	written, last, err := w.written, w.last, w.err
	w.written, w.last, w.err = 0, 0, nil

	if err == nil || len(fieldNames) == 0 || int(last) >= len(fieldNames) {
		return written, last, err
	}

	return written, last, fmt.Errorf("field %s: %w", fieldNames[last], err)
}

func (w *Writer) didWrite(field uint, n int, err error) {
	w.written += n
	if err == nil {
		w.last = field
		return
	}
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) writeRaw(field uint, b []byte) {
	if w.err != nil {
		return
	}
	if field < 1 || field > MaxFieldNumber || field < w.last {
		w.didWrite(field, 0, ErrInvalidFieldNumber)
		return
	}

	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(field))
	m, err := w.w.Write(buf[:n])
	w.didWrite(field, m, err)
	if err != nil {
		return
	}

	m, err = w.w.Write(b)
	w.didWrite(field, m, err)
}

// WriteUint writes an unsigned varint field.
func (w *Writer) WriteUint(field uint, v uint64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	w.writeRaw(field, buf[:n])
}

// WriteInt writes a signed (zigzag) varint field.
func (w *Writer) WriteInt(field uint, v int64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	w.writeRaw(field, buf[:n])
}

// WriteBool writes a boolean field.
func (w *Writer) WriteBool(field uint, v bool) {
	var u uint64
	if v {
		u = 1
	}
	w.WriteUint(field, u)
}

// WriteBytes writes a length-prefixed byte string field.
func (w *Writer) WriteBytes(field uint, v []byte) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(v)))
	w.writeRaw(field, append(buf[:n:n], v...))
}

// WriteString writes a length-prefixed string field.
func (w *Writer) WriteString(field uint, v string) {
	w.WriteBytes(field, []byte(v))
}

// WriteValue marshals the value and writes it as a length-prefixed field.
func (w *Writer) WriteValue(field uint, marshal func() ([]byte, error)) {
	if w.err != nil {
		return
	}
	b, err := marshal()
	if err != nil {
		w.didWrite(field, 0, err)
		return
	}
	w.WriteBytes(field, b)
}
