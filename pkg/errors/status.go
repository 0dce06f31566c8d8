// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

// Status is an action status code. Codes in [400, 500) are client errors,
// codes in [500, 600) are server errors.
type Status uint64

const (
	// OK means the action completed.
	OK Status = 200

	// BadRequest means the action was malformed: an invalid symbol or
	// amount, an over-long memo, a precision mismatch, or a self-transfer.
	BadRequest Status = 400

	// Unauthorized means a required signer is missing.
	Unauthorized Status = 401

	// NotFound means a referenced currency, balance row, or account does
	// not exist.
	NotFound Status = 404

	// Conflict means the currency has already been created.
	Conflict Status = 409

	// WrongState means the record exists but is not in a state that
	// permits the action, such as closing a nonzero balance.
	WrongState Status = 412

	// InsufficientBalance means a debit exceeds the current balance or an
	// issuance exceeds the remaining supply headroom.
	InsufficientBalance Status = 413

	// SupplyExhausted means a cap reduction would drive the currency's
	// maximum supply negative.
	SupplyExhausted Status = 414

	// InternalError means something has gone wrong inside the ledger.
	InternalError Status = 500

	// UnknownError means an unknown error occurred.
	UnknownError Status = 501

	// EncodingError means a record could not be marshalled or
	// unmarshalled.
	EncodingError Status = 502
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case BadRequest:
		return "bad request"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case WrongState:
		return "wrong state"
	case InsufficientBalance:
		return "insufficient balance"
	case SupplyExhausted:
		return "supply exhausted"
	case InternalError:
		return "internal error"
	case UnknownError:
		return "unknown error"
	case EncodingError:
		return "encoding error"
	default:
		return "unknown"
	}
}
