package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// BurnTokens permanently destroys base-currency tokens: the quantity
// comes off the supply and the cap, and is debited from the balance of
// the account named as Issuer. Only the base currency can be burned, and
// any holder can burn their own tokens by naming themselves.
type BurnTokens struct{}

func (BurnTokens) Type() protocol.ActionType { return protocol.ActionTypeBurnTokens }

func (BurnTokens) Execute(st *StateManager, delivery *Delivery) error {
	body, ok := delivery.Body.(*protocol.BurnTokens)
	if !ok {
		return errors.InternalError.WithFormat("invalid action body: want %v, got %v", protocol.ActionTypeBurnTokens, delivery.Body.Type())
	}

	switch {
	case !body.Quantity.Symbol.Valid():
		return errors.BadRequest.With("invalid symbol name")
	case !body.Quantity.Symbol.Equal(st.fee.Symbol):
		return errors.BadRequest.WithFormat("only %v can be burned", st.fee.Symbol.Code)
	case len(body.Memo) > protocol.MaxMemoBytes:
		return errors.BadRequest.WithFormat("memo has more than %d bytes", protocol.MaxMemoBytes)
	}

	err := st.requireAuth(body.Issuer)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	stats, err := st.loadToken(body.Quantity.Symbol.Code)
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.WithFormat("token with symbol %v does not exist", body.Quantity.Symbol.Code)
	}
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	st.notify(body.Issuer)
	st.notify(body.From)

	switch {
	case !body.Quantity.Valid():
		return errors.BadRequest.With("invalid quantity")
	case body.Quantity.Amount <= 0:
		return errors.BadRequest.With("must burn positive quantity")
	case body.Quantity.Amount > stats.Supply.Amount:
		return errors.InsufficientBalance.WithFormat("quantity %v exceeds circulating supply %v", body.Quantity, stats.Supply)
	case body.Quantity.Amount > stats.MaxSupply.Amount:
		return errors.SupplyExhausted.WithFormat("all %v tokens burned", body.Quantity.Symbol.Code)
	}

	if !stats.Burn(body.Quantity) {
		return errors.InternalError.WithFormat("burn of %v failed", body.Quantity)
	}
	err = st.putToken(stats)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	// The debit lands on the account named as Issuer, regardless of From.
	// From is recorded and notified only.
	return st.subBalance(body.Issuer, body.Quantity)
}
