// Package protocol defines the value types, persisted records, and action
// bodies of the ledger.
package protocol

const (
	// MaxMemoBytes is the longest memo an action may carry.
	MaxMemoBytes = 256

	// MaxPrecision is the largest number of decimal places a symbol may
	// declare.
	MaxPrecision = 18

	// MaxAmount is the largest asset amount. Amounts must fit in
	// [-MaxAmount, MaxAmount] so that intermediate sums cannot overflow
	// int64.
	MaxAmount = int64(1)<<62 - 1
)

// recordVersion is the schema version written as the first field of every
// persisted record.
const recordVersion = 1
