package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// An AuthorizationGate answers whether the current action's signer set
// satisfies an identity. The host constructs one gate per delivered
// action; the ledger never reaches into process-global state to check
// authorization.
type AuthorizationGate interface {
	// Require fails if the signer set does not satisfy the identity.
	Require(id protocol.AccountID) error

	// Has is the non-failing form of Require, used for storage payer
	// selection.
	Has(id protocol.AccountID) bool
}

// An ExistenceOracle answers whether an account exists. Account creation
// is the host identity subsystem's concern.
type ExistenceOracle interface {
	Exists(id protocol.AccountID) bool
}

// A NotificationBus is informed of the parties an action concerns. It is
// best-effort fan-out: failures are not a data-integrity concern and the
// bus cannot veto an action.
type NotificationBus interface {
	Notify(id protocol.AccountID, body protocol.ActionBody)
}

// SignerSet is an AuthorizationGate over a fixed set of signers.
type SignerSet map[protocol.AccountID]bool

// SignedBy constructs a SignerSet.
func SignedBy(ids ...protocol.AccountID) SignerSet {
	s := make(SignerSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func (s SignerSet) Require(id protocol.AccountID) error {
	if !s[id] {
		return errors.Unauthorized.WithFormat("missing authorization from %v", id)
	}
	return nil
}

func (s SignerSet) Has(id protocol.AccountID) bool { return s[id] }

// ExistsFunc adapts a function to an ExistenceOracle.
type ExistsFunc func(id protocol.AccountID) bool

func (f ExistsFunc) Exists(id protocol.AccountID) bool { return f(id) }

// NotifyFunc adapts a function to a NotificationBus.
type NotifyFunc func(id protocol.AccountID, body protocol.ActionBody)

func (f NotifyFunc) Notify(id protocol.AccountID, body protocol.ActionBody) { f(id, body) }
