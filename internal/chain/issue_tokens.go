package chain

import (
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

// IssueTokens mints tokens into the issuer's balance. Tokens can only be
// issued to the issuer account itself.
type IssueTokens struct{}

func (IssueTokens) Type() protocol.ActionType { return protocol.ActionTypeIssueTokens }

func (IssueTokens) Execute(st *StateManager, delivery *Delivery) error {
	body, ok := delivery.Body.(*protocol.IssueTokens)
	if !ok {
		return errors.InternalError.WithFormat("invalid action body: want %v, got %v", protocol.ActionTypeIssueTokens, delivery.Body.Type())
	}

	switch {
	case !body.Quantity.Symbol.Valid():
		return errors.BadRequest.With("invalid symbol name")
	case len(body.Memo) > protocol.MaxMemoBytes:
		return errors.BadRequest.WithFormat("memo has more than %d bytes", protocol.MaxMemoBytes)
	}

	stats, err := st.loadToken(body.Quantity.Symbol.Code)
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.WithFormat("token with symbol %v does not exist, create token before issue", body.Quantity.Symbol.Code)
	}
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	if body.To != stats.Issuer {
		return errors.BadRequest.With("tokens can only be issued to issuer account")
	}

	err = st.requireAuth(stats.Issuer)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	switch {
	case !body.Quantity.Valid():
		return errors.BadRequest.With("invalid quantity")
	case body.Quantity.Amount <= 0:
		return errors.BadRequest.With("must issue positive quantity")
	case !body.Quantity.Symbol.Equal(stats.Supply.Symbol):
		return errors.BadRequest.With("symbol precision mismatch")
	}

	if !stats.Issue(body.Quantity) {
		return errors.InsufficientBalance.With("quantity exceeds available supply")
	}
	err = st.putToken(stats)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	return st.addBalance(stats.Issuer, body.Quantity, stats.Issuer)
}
