package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// CloseBalance deletes a zero balance row and releases its storage. The
// row is looked up by currency code alone.
type CloseBalance struct{}

func (CloseBalance) Type() protocol.ActionType { return protocol.ActionTypeCloseBalance }

func (CloseBalance) Execute(st *StateManager, delivery *Delivery) error {
	body, ok := delivery.Body.(*protocol.CloseBalance)
	if !ok {
		return errors.InternalError.WithFormat("invalid action body: want %v, got %v", protocol.ActionTypeCloseBalance, delivery.Body.Type())
	}

	err := st.requireAuth(body.Owner)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	record := st.batch.Balance(body.Owner, body.Symbol.Code)
	row, err := record.Get()
	if errors.Is(err, errors.NotFound) {
		return errors.WrongState.With("balance row already deleted or never existed")
	}
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	if !row.Balance.IsZero() {
		return errors.WrongState.With("cannot close because the balance is not zero")
	}

	return record.Delete()
}
