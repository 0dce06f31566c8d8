package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// OpenBalance provisions a zero balance row for an account, billing the
// storage to the payer. Opening a row that already exists has no effect.
type OpenBalance struct{}

func (OpenBalance) Type() protocol.ActionType { return protocol.ActionTypeOpenBalance }

func (OpenBalance) Execute(st *StateManager, delivery *Delivery) error {
	body, ok := delivery.Body.(*protocol.OpenBalance)
	if !ok {
		return errors.InternalError.WithFormat("invalid action body: want %v, got %v", protocol.ActionTypeOpenBalance, delivery.Body.Type())
	}

	err := st.requireAuth(body.Payer)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	if !st.oracle.Exists(body.Owner) {
		return errors.NotFound.WithFormat("owner account %v does not exist", body.Owner)
	}

	stats, err := st.loadToken(body.Symbol.Code)
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.WithFormat("symbol %v does not exist", body.Symbol.Code)
	}
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	if !body.Symbol.Equal(stats.Supply.Symbol) {
		return errors.BadRequest.With("symbol precision mismatch")
	}

	record := st.batch.Balance(body.Owner, body.Symbol.Code)
	_, err = record.Get()
	switch {
	case err == nil:
		// Already open
		return nil
	case errors.Is(err, errors.NotFound):
		return record.Put(&protocol.AccountBalance{
			Owner:   body.Owner,
			Balance: protocol.Zero(body.Symbol),
			Payer:   body.Payer,
		})
	default:
		return errors.UnknownError.Wrap(err)
	}
}
