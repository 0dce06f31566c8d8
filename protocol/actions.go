package protocol

import (
	"bytes"

	"gitlab.com/cofferchain/coffer/internal/encoding"
	"gitlab.com/cofferchain/coffer/pkg/errors"
)

// ActionType identifies one of the ledger's audited operations.
type ActionType uint64

const (
	ActionTypeUnknown ActionType = iota
	ActionTypeCreateToken
	ActionTypeIssueTokens
	ActionTypeRetireTokens
	ActionTypeTransferTokens
	ActionTypeBurnTokens
	ActionTypeOpenBalance
	ActionTypeCloseBalance
)

func (t ActionType) String() string {
	switch t {
	case ActionTypeCreateToken:
		return "create"
	case ActionTypeIssueTokens:
		return "issue"
	case ActionTypeRetireTokens:
		return "retire"
	case ActionTypeTransferTokens:
		return "transfer"
	case ActionTypeBurnTokens:
		return "burn"
	case ActionTypeOpenBalance:
		return "open"
	case ActionTypeCloseBalance:
		return "close"
	default:
		return "unknown"
	}
}

// An ActionBody is the payload of one ledger action.
type ActionBody interface {
	Type() ActionType
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// CreateToken registers a new currency with a strictly positive maximum
// supply. Authorized by the ledger's own operator identity, not the
// issuer.
type CreateToken struct {
	Issuer    AccountID
	MaxSupply Asset
}

// IssueTokens mints a quantity of an existing currency to the issuer's own
// balance. Tokens may only be issued to the issuer account itself.
type IssueTokens struct {
	To       AccountID
	Quantity Asset
	Memo     string
}

// RetireTokens removes a quantity from the supply and from the issuer's
// balance. The cap is unchanged.
type RetireTokens struct {
	Quantity Asset
	Memo     string
}

// TransferTokens moves a quantity between two accounts, charging the
// sender a fixed base-currency fee that is burned from the base currency's
// supply and cap.
type TransferTokens struct {
	From     AccountID
	To       AccountID
	Quantity Asset
	Memo     string
}

// BurnTokens permanently destroys a quantity of the base currency,
// reducing supply and cap. The debit is applied to the balance of the
// account named as Issuer; From is notified only.
type BurnTokens struct {
	Issuer   AccountID
	From     AccountID
	Quantity Asset
	Memo     string
}

// OpenBalance provisions a zero balance row, billing storage to the payer.
// Idempotent if the row already exists.
type OpenBalance struct {
	Owner  AccountID
	Symbol Symbol
	Payer  AccountID
}

// CloseBalance deletes a zero balance row.
type CloseBalance struct {
	Owner  AccountID
	Symbol Symbol
}

func (*CreateToken) Type() ActionType    { return ActionTypeCreateToken }
func (*IssueTokens) Type() ActionType    { return ActionTypeIssueTokens }
func (*RetireTokens) Type() ActionType   { return ActionTypeRetireTokens }
func (*TransferTokens) Type() ActionType { return ActionTypeTransferTokens }
func (*BurnTokens) Type() ActionType     { return ActionTypeBurnTokens }
func (*OpenBalance) Type() ActionType    { return ActionTypeOpenBalance }
func (*CloseBalance) Type() ActionType   { return ActionTypeCloseBalance }

// NewActionBody returns a new, empty body of the given type.
func NewActionBody(t ActionType) (ActionBody, error) {
	switch t {
	case ActionTypeCreateToken:
		return new(CreateToken), nil
	case ActionTypeIssueTokens:
		return new(IssueTokens), nil
	case ActionTypeRetireTokens:
		return new(RetireTokens), nil
	case ActionTypeTransferTokens:
		return new(TransferTokens), nil
	case ActionTypeBurnTokens:
		return new(BurnTokens), nil
	case ActionTypeOpenBalance:
		return new(OpenBalance), nil
	case ActionTypeCloseBalance:
		return new(CloseBalance), nil
	default:
		return nil, errors.BadRequest.WithFormat("unknown action type %d", t)
	}
}

// MarshalAction marshals an action body with its type tag.
func MarshalAction(body ActionBody) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteUint(1, uint64(body.Type()))
	w.WriteValue(2, body.MarshalBinary)
	_, _, err := w.Reset(nil)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	return buf.Bytes(), nil
}

// UnmarshalAction unmarshals a type-tagged action body.
func UnmarshalAction(data []byte) (ActionBody, error) {
	r := encoding.NewReader(bytes.NewReader(data))
	t, ok := r.ReadUint(1)
	if !ok {
		return nil, errors.EncodingError.With("missing action type")
	}
	body, err := NewActionBody(ActionType(t))
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	r.ReadValue(2, body.UnmarshalBinary)
	_, err = r.Reset(nil)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	return body, nil
}

func (a *CreateToken) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(a.Issuer))
	w.WriteValue(2, a.MaxSupply.MarshalBinary)
	_, _, err := w.Reset(nil)
	return buf.Bytes(), errors.EncodingError.Wrap(err)
}

func (a *CreateToken) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		a.Issuer = AccountID(v)
	}
	r.ReadValueFrom(2, a.MaxSupply.UnmarshalBinaryFrom)
	_, err := r.Reset(nil)
	return errors.EncodingError.Wrap(err)
}

func (a *IssueTokens) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(a.To))
	w.WriteValue(2, a.Quantity.MarshalBinary)
	w.WriteString(3, a.Memo)
	_, _, err := w.Reset(nil)
	return buf.Bytes(), errors.EncodingError.Wrap(err)
}

func (a *IssueTokens) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		a.To = AccountID(v)
	}
	r.ReadValueFrom(2, a.Quantity.UnmarshalBinaryFrom)
	if v, ok := r.ReadString(3); ok {
		a.Memo = v
	}
	_, err := r.Reset(nil)
	return errors.EncodingError.Wrap(err)
}

func (a *RetireTokens) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteValue(1, a.Quantity.MarshalBinary)
	w.WriteString(2, a.Memo)
	_, _, err := w.Reset(nil)
	return buf.Bytes(), errors.EncodingError.Wrap(err)
}

func (a *RetireTokens) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	r.ReadValueFrom(1, a.Quantity.UnmarshalBinaryFrom)
	if v, ok := r.ReadString(2); ok {
		a.Memo = v
	}
	_, err := r.Reset(nil)
	return errors.EncodingError.Wrap(err)
}

func (a *TransferTokens) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(a.From))
	w.WriteString(2, string(a.To))
	w.WriteValue(3, a.Quantity.MarshalBinary)
	w.WriteString(4, a.Memo)
	_, _, err := w.Reset(nil)
	return buf.Bytes(), errors.EncodingError.Wrap(err)
}

func (a *TransferTokens) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		a.From = AccountID(v)
	}
	if v, ok := r.ReadString(2); ok {
		a.To = AccountID(v)
	}
	r.ReadValueFrom(3, a.Quantity.UnmarshalBinaryFrom)
	if v, ok := r.ReadString(4); ok {
		a.Memo = v
	}
	_, err := r.Reset(nil)
	return errors.EncodingError.Wrap(err)
}

func (a *BurnTokens) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(a.Issuer))
	w.WriteString(2, string(a.From))
	w.WriteValue(3, a.Quantity.MarshalBinary)
	w.WriteString(4, a.Memo)
	_, _, err := w.Reset(nil)
	return buf.Bytes(), errors.EncodingError.Wrap(err)
}

func (a *BurnTokens) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		a.Issuer = AccountID(v)
	}
	if v, ok := r.ReadString(2); ok {
		a.From = AccountID(v)
	}
	r.ReadValueFrom(3, a.Quantity.UnmarshalBinaryFrom)
	if v, ok := r.ReadString(4); ok {
		a.Memo = v
	}
	_, err := r.Reset(nil)
	return errors.EncodingError.Wrap(err)
}

func (a *OpenBalance) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(a.Owner))
	w.WriteUint(2, a.Symbol.Code.Raw())
	w.WriteUint(3, uint64(a.Symbol.Precision))
	w.WriteString(4, string(a.Payer))
	_, _, err := w.Reset(nil)
	return buf.Bytes(), errors.EncodingError.Wrap(err)
}

func (a *OpenBalance) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		a.Owner = AccountID(v)
	}
	if v, ok := r.ReadUint(2); ok {
		a.Symbol.Code = SymbolCode(v)
	}
	if v, ok := r.ReadUint(3); ok {
		a.Symbol.Precision = uint32(v)
	}
	if v, ok := r.ReadString(4); ok {
		a.Payer = AccountID(v)
	}
	_, err := r.Reset(nil)
	return errors.EncodingError.Wrap(err)
}

func (a *CloseBalance) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(a.Owner))
	w.WriteUint(2, a.Symbol.Code.Raw())
	w.WriteUint(3, uint64(a.Symbol.Precision))
	_, _, err := w.Reset(nil)
	return buf.Bytes(), errors.EncodingError.Wrap(err)
}

func (a *CloseBalance) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		a.Owner = AccountID(v)
	}
	if v, ok := r.ReadUint(2); ok {
		a.Symbol.Code = SymbolCode(v)
	}
	if v, ok := r.ReadUint(3); ok {
		a.Symbol.Precision = uint32(v)
	}
	_, err := r.Reset(nil)
	return errors.EncodingError.Wrap(err)
}
