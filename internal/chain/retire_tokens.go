package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// RetireTokens removes tokens from circulation. The quantity is debited
// from the issuer's balance and subtracted from the supply; the cap is
// unchanged, so retired tokens can be issued again.
type RetireTokens struct{}

func (RetireTokens) Type() protocol.ActionType { return protocol.ActionTypeRetireTokens }

func (RetireTokens) Execute(st *StateManager, delivery *Delivery) error {
	body, ok := delivery.Body.(*protocol.RetireTokens)
	if !ok {
		return errors.InternalError.WithFormat("invalid action body: want %v, got %v", protocol.ActionTypeRetireTokens, delivery.Body.Type())
	}

	switch {
	case !body.Quantity.Symbol.Valid():
		return errors.BadRequest.With("invalid symbol name")
	case len(body.Memo) > protocol.MaxMemoBytes:
		return errors.BadRequest.WithFormat("memo has more than %d bytes", protocol.MaxMemoBytes)
	}

	stats, err := st.loadToken(body.Quantity.Symbol.Code)
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.WithFormat("token with symbol %v does not exist", body.Quantity.Symbol.Code)
	}
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	err = st.requireAuth(stats.Issuer)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	switch {
	case !body.Quantity.Valid():
		return errors.BadRequest.With("invalid quantity")
	case body.Quantity.Amount <= 0:
		return errors.BadRequest.With("must retire positive quantity")
	case !body.Quantity.Symbol.Equal(stats.Supply.Symbol):
		return errors.BadRequest.With("symbol precision mismatch")
	}

	if !stats.Retire(body.Quantity) {
		return errors.InsufficientBalance.WithFormat("quantity %v exceeds circulating supply %v", body.Quantity, stats.Supply)
	}
	err = st.putToken(stats)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	return st.subBalance(stats.Issuer, body.Quantity)
}
