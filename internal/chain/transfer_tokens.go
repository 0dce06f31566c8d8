package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// TransferTokens moves tokens between two accounts. Every transfer burns
// a fixed base-currency fee from the sender before the main debit: the
// fee comes off the base currency's supply and cap, so the total that
// will ever circulate shrinks with use.
type TransferTokens struct{}

func (TransferTokens) Type() protocol.ActionType { return protocol.ActionTypeTransferTokens }

func (TransferTokens) Execute(st *StateManager, delivery *Delivery) error {
	body, ok := delivery.Body.(*protocol.TransferTokens)
	if !ok {
		return errors.InternalError.WithFormat("invalid action body: want %v, got %v", protocol.ActionTypeTransferTokens, delivery.Body.Type())
	}

	if body.From == body.To {
		return errors.BadRequest.With("cannot transfer to self")
	}

	err := st.requireAuth(body.From)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	if !st.oracle.Exists(body.To) {
		return errors.NotFound.WithFormat("to account %v does not exist", body.To)
	}

	stats, err := st.loadToken(body.Quantity.Symbol.Code)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	st.notify(body.From)
	st.notify(body.To)

	switch {
	case !body.Quantity.Valid():
		return errors.BadRequest.With("invalid quantity")
	case body.Quantity.Amount <= 0:
		return errors.BadRequest.With("must transfer positive quantity")
	case !body.Quantity.Symbol.Equal(stats.Supply.Symbol):
		return errors.BadRequest.With("symbol precision mismatch")
	case len(body.Memo) > protocol.MaxMemoBytes:
		return errors.BadRequest.WithFormat("memo has more than %d bytes", protocol.MaxMemoBytes)
	}

	payer := body.From
	if st.hasAuth(body.To) {
		payer = body.To
	}

	// The fee is burned before the main debit. If the transferred currency
	// is the base currency itself, the batch returns the same record, so
	// the burn and the supply are consistent within the action.
	fee := st.fee.Asset()
	feeStats, err := st.loadToken(fee.Symbol.Code)
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.WithFormat("base currency %v has not been created", fee.Symbol.Code)
	}
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	if fee.Amount > feeStats.MaxSupply.Amount {
		return errors.SupplyExhausted.WithFormat("all %v tokens burned", fee.Symbol.Code)
	}
	if !feeStats.Burn(fee) {
		return errors.InsufficientBalance.WithFormat("fee %v exceeds circulating supply %v", fee, feeStats.Supply)
	}
	err = st.putToken(feeStats)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	err = st.subBalance(body.From, fee)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	err = st.subBalance(body.From, body.Quantity)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	return st.addBalance(body.To, body.Quantity, payer)
}
