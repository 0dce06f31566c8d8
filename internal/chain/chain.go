// Package chain executes ledger actions. Each action type has its own
// executor; the Executor dispatches a delivered action to it inside a
// writable batch, committing on success and discarding on any error.
package chain

import (
	"gitlab.com/cofferchain/coffer/internal/database"
	"gitlab.com/cofferchain/coffer/internal/logging"
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// A Delivery is one action plus the authorization gate for its signer set.
type Delivery struct {
	Body protocol.ActionBody
	Auth AuthorizationGate
}

// An ActionExecutor executes a specific type of action.
type ActionExecutor interface {
	// Type is the action type the executor can execute.
	Type() protocol.ActionType

	// Execute validates and executes the action.
	Execute(st *StateManager, delivery *Delivery) error
}

// A FeePolicy names the designated base currency and the fixed fee burned
// from it by every transfer.
type FeePolicy struct {
	Symbol protocol.Symbol
	Amount int64
}

// DefaultFeePolicy burns 1.0000 CFF per transfer.
var DefaultFeePolicy = FeePolicy{
	Symbol: protocol.MustNewSymbol("CFF", 4),
	Amount: 10000,
}

// Asset returns the fee as an asset of the base currency.
func (p FeePolicy) Asset() protocol.Asset {
	return protocol.NewAsset(p.Amount, p.Symbol)
}

// ExecutorOptions configure an Executor.
type ExecutorOptions struct {
	Logger   logging.Logger
	Database *database.Database

	// Operator is the ledger's own identity. Only the operator may create
	// currencies.
	Operator protocol.AccountID

	// Fee is the base-currency fee burned by every transfer.
	Fee FeePolicy

	// Oracle answers whether an account exists.
	Oracle ExistenceOracle

	// Bus receives a notification for each party an action concerns,
	// after the action commits. May be nil.
	Bus NotificationBus
}

// Executor executes delivered actions against the ledger.
type Executor struct {
	opts      ExecutorOptions
	logger    logging.OptionalLogger
	executors map[protocol.ActionType]ActionExecutor
}

// NewExecutor creates an executor with all seven action types registered.
func NewExecutor(opts ExecutorOptions) (*Executor, error) {
	switch {
	case opts.Database == nil:
		return nil, errors.BadRequest.With("missing database")
	case opts.Oracle == nil:
		return nil, errors.BadRequest.With("missing existence oracle")
	case !opts.Operator.Valid():
		return nil, errors.BadRequest.WithFormat("invalid operator identity %q", opts.Operator)
	case !opts.Fee.Symbol.Valid() || opts.Fee.Amount <= 0:
		return nil, errors.BadRequest.WithFormat("invalid fee policy %v", opts.Fee.Asset())
	}

	x := new(Executor)
	x.opts = opts
	x.logger.Set(opts.Logger, "module", "executor")
	x.executors = map[protocol.ActionType]ActionExecutor{}

	for _, exec := range []ActionExecutor{
		CreateToken{},
		IssueTokens{},
		RetireTokens{},
		TransferTokens{},
		BurnTokens{},
		OpenBalance{},
		CloseBalance{},
	} {
		if _, ok := x.executors[exec.Type()]; ok {
			return nil, errors.InternalError.WithFormat("duplicate executor for action type %v", exec.Type())
		}
		x.executors[exec.Type()] = exec
	}

	return x, nil
}

// Deliver executes one action as a single atomic unit. Either every table
// mutation of the action is committed, or none is. Notifications are
// delivered only after the action commits.
func (x *Executor) Deliver(delivery *Delivery) error {
	if delivery == nil || delivery.Body == nil {
		return errors.BadRequest.With("missing action body")
	}
	if delivery.Auth == nil {
		return errors.BadRequest.With("missing authorization gate")
	}

	exec, ok := x.executors[delivery.Body.Type()]
	if !ok {
		return errors.BadRequest.WithFormat("unsupported action type %v", delivery.Body.Type())
	}

	batch := x.opts.Database.Begin(true)
	defer batch.Discard()

	st := newStateManager(batch, &x.opts, delivery.Auth)
	err := exec.Execute(st, delivery)
	if err != nil {
		x.logger.Info("Action failed", "type", delivery.Body.Type(), "error", err)
		return err
	}

	err = batch.Commit()
	if err != nil {
		x.logger.Error("Commit failed", "type", delivery.Body.Type(), "error", err)
		return errors.InternalError.Wrap(err)
	}

	if x.opts.Bus != nil {
		for _, id := range st.notices {
			x.opts.Bus.Notify(id, delivery.Body)
		}
	}

	x.logger.Debug("Action executed", "type", delivery.Body.Type())
	return nil
}
