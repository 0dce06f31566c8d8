package chain

import (
	"gitlab.com/cofferchain/coffer/internal/database"
	"gitlab.com/cofferchain/coffer/internal/logging"
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// StateManager is the execution context of one action: the batch its
// mutations go to, the authorization gate of its signer set, and the
// parties to notify if it commits.
type StateManager struct {
	batch    *database.Batch
	logger   logging.OptionalLogger
	operator protocol.AccountID
	fee      FeePolicy
	auth     AuthorizationGate
	oracle   ExistenceOracle
	notices  []protocol.AccountID
}

func newStateManager(batch *database.Batch, opts *ExecutorOptions, auth AuthorizationGate) *StateManager {
	st := new(StateManager)
	st.batch = batch
	st.logger.Set(opts.Logger, "module", "executor")
	st.operator = opts.Operator
	st.fee = opts.Fee
	st.auth = auth
	st.oracle = opts.Oracle
	return st
}

func (st *StateManager) requireAuth(id protocol.AccountID) error {
	return errors.Unauthorized.Wrap(st.auth.Require(id))
}

func (st *StateManager) hasAuth(id protocol.AccountID) bool {
	return st.auth.Has(id)
}

// notify records a party the action concerns. The notification is
// delivered only if the action commits.
func (st *StateManager) notify(id protocol.AccountID) {
	for _, n := range st.notices {
		if n == id {
			return
		}
	}
	st.notices = append(st.notices, id)
}

func (st *StateManager) loadToken(code protocol.SymbolCode) (*protocol.CurrencyStats, error) {
	return st.batch.Token(code).Get()
}

func (st *StateManager) putToken(s *protocol.CurrencyStats) error {
	return st.batch.Token(s.Supply.Symbol.Code).Put(s)
}

// subBalance debits the value from the owner's balance row. The row must
// already exist and cover the debit. The row's payer is unchanged.
func (st *StateManager) subBalance(owner protocol.AccountID, value protocol.Asset) error {
	record := st.batch.Balance(owner, value.Symbol.Code)
	row, err := record.Get()
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.WithFormat("no balance row for %v on %v", owner, value.Symbol.Code)
	}
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	if !row.Debit(value) {
		return errors.InsufficientBalance.WithFormat("overdrawn balance: %v holds %v, debit is %v", owner, row.Balance, value)
	}
	return record.Put(row)
}

// addBalance credits the value to the owner's balance row, creating the
// row billed to the payer if it does not exist.
func (st *StateManager) addBalance(owner protocol.AccountID, value protocol.Asset, payer protocol.AccountID) error {
	record := st.batch.Balance(owner, value.Symbol.Code)
	row, err := record.Get()
	switch {
	case errors.Is(err, errors.NotFound):
		row = &protocol.AccountBalance{Owner: owner, Balance: value, Payer: payer}
	case err != nil:
		return errors.UnknownError.Wrap(err)
	default:
		if !row.Credit(value) {
			return errors.BadRequest.WithFormat("crediting %v to %v overflows", value, owner)
		}
	}
	return record.Put(row)
}
