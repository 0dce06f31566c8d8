package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// CreateToken registers a new currency. Only the ledger operator may
// create currencies.
type CreateToken struct{}

func (CreateToken) Type() protocol.ActionType { return protocol.ActionTypeCreateToken }

func (CreateToken) Execute(st *StateManager, delivery *Delivery) error {
	body, ok := delivery.Body.(*protocol.CreateToken)
	if !ok {
		return errors.InternalError.WithFormat("invalid action body: want %v, got %v", protocol.ActionTypeCreateToken, delivery.Body.Type())
	}

	err := st.requireAuth(st.operator)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	switch {
	case !body.Issuer.Valid():
		return errors.BadRequest.WithFormat("invalid issuer identity %q", body.Issuer)
	case !body.MaxSupply.Symbol.Valid():
		return errors.BadRequest.With("invalid symbol name")
	case !body.MaxSupply.Valid():
		return errors.BadRequest.With("invalid supply")
	case body.MaxSupply.Amount <= 0:
		return errors.BadRequest.With("max-supply must be positive")
	}

	code := body.MaxSupply.Symbol.Code
	exists, err := st.batch.Token(code).Exists()
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	if exists {
		return errors.Conflict.WithFormat("token with symbol %v already exists", code)
	}

	return st.putToken(&protocol.CurrencyStats{
		Supply:    protocol.Zero(body.MaxSupply.Symbol),
		MaxSupply: body.MaxSupply,
		Issuer:    body.Issuer,
	})
}
