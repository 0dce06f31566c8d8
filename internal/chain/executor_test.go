package chain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/cofferchain/coffer/internal/chain"
	"gitlab.com/cofferchain/coffer/internal/database"
	"gitlab.com/cofferchain/coffer/pkg/errors"
	"gitlab.com/cofferchain/coffer/protocol"
)

var (
	cff = protocol.MustNewSymbol("CFF", 4)
	tok = protocol.MustNewSymbol("TOK", 4)

	operator = protocol.AccountID("coffer")
	boss     = protocol.AccountID("boss")
	alice    = protocol.AccountID("alice")
	bob      = protocol.AccountID("bob")
)

type notice struct {
	ID   protocol.AccountID
	Type protocol.ActionType
}

type captureBus struct{ notices []notice }

func (b *captureBus) Notify(id protocol.AccountID, body protocol.ActionBody) {
	b.notices = append(b.notices, notice{id, body.Type()})
}

type env struct {
	db  *database.Database
	x   *chain.Executor
	bus *captureBus
}

func newEnv(t *testing.T, accounts ...protocol.AccountID) *env {
	t.Helper()
	known := map[protocol.AccountID]bool{operator: true}
	for _, id := range accounts {
		known[id] = true
	}

	e := new(env)
	e.db = database.OpenInMemory(nil)
	e.bus = new(captureBus)

	var err error
	e.x, err = chain.NewExecutor(chain.ExecutorOptions{
		Database: e.db,
		Operator: operator,
		Fee:      chain.DefaultFeePolicy,
		Oracle:   chain.ExistsFunc(func(id protocol.AccountID) bool { return known[id] }),
		Bus:      e.bus,
	})
	require.NoError(t, err)
	return e
}

func (e *env) deliver(body protocol.ActionBody, signers ...protocol.AccountID) error {
	return e.x.Deliver(&chain.Delivery{Body: body, Auth: chain.SignedBy(signers...)})
}

func (e *env) create(t *testing.T, issuer protocol.AccountID, max int64, sym protocol.Symbol) {
	t.Helper()
	require.NoError(t, e.deliver(&protocol.CreateToken{
		Issuer:    issuer,
		MaxSupply: protocol.NewAsset(max, sym),
	}, operator))
}

func (e *env) issue(t *testing.T, issuer protocol.AccountID, amount int64, sym protocol.Symbol) {
	t.Helper()
	require.NoError(t, e.deliver(&protocol.IssueTokens{
		To:       issuer,
		Quantity: protocol.NewAsset(amount, sym),
	}, issuer))
}

func (e *env) balance(t *testing.T, owner protocol.AccountID, code protocol.SymbolCode) int64 {
	t.Helper()
	var amount int64
	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		row, err := batch.Balance(owner, code).Get()
		if err != nil {
			return err
		}
		amount = row.Balance.Amount
		return nil
	}))
	return amount
}

func (e *env) stats(t *testing.T, code protocol.SymbolCode) *protocol.CurrencyStats {
	t.Helper()
	var s *protocol.CurrencyStats
	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		var err error
		s, err = batch.Token(code).Get()
		return err
	}))
	return s
}

func (e *env) audit(t *testing.T) {
	t.Helper()
	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		return batch.Audit()
	}))
}

func TestCreateToken(t *testing.T) {
	e := newEnv(t, boss)

	e.create(t, boss, 10000000, cff)
	s := e.stats(t, cff.Code)
	require.Zero(t, s.Supply.Amount)
	require.Equal(t, int64(10000000), s.MaxSupply.Amount)
	require.Equal(t, boss, s.Issuer)

	// Only the operator may create
	err := e.deliver(&protocol.CreateToken{
		Issuer:    boss,
		MaxSupply: protocol.NewAsset(1000, tok),
	}, boss)
	require.True(t, errors.Is(err, errors.Unauthorized))

	// Duplicate symbol
	err = e.deliver(&protocol.CreateToken{
		Issuer:    alice,
		MaxSupply: protocol.NewAsset(1, cff),
	}, operator)
	require.True(t, errors.Is(err, errors.Conflict))

	// Cap must be positive
	err = e.deliver(&protocol.CreateToken{
		Issuer:    boss,
		MaxSupply: protocol.NewAsset(0, tok),
	}, operator)
	require.True(t, errors.Is(err, errors.BadRequest))
}

func TestIssueTokens(t *testing.T) {
	e := newEnv(t, boss)
	e.create(t, boss, 10000000, cff)

	// Only to the issuer itself
	err := e.deliver(&protocol.IssueTokens{
		To:       alice,
		Quantity: protocol.NewAsset(1000, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.BadRequest))

	// Issuer signature required
	err = e.deliver(&protocol.IssueTokens{
		To:       boss,
		Quantity: protocol.NewAsset(1000, cff),
	}, alice)
	require.True(t, errors.Is(err, errors.Unauthorized))

	e.issue(t, boss, 1000000, cff)
	require.Equal(t, int64(1000000), e.stats(t, cff.Code).Supply.Amount)
	require.Equal(t, int64(1000000), e.balance(t, boss, cff.Code))

	// Headroom is the cap minus the supply
	err = e.deliver(&protocol.IssueTokens{
		To:       boss,
		Quantity: protocol.NewAsset(9000001, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.InsufficientBalance))

	// Precision mismatch
	err = e.deliver(&protocol.IssueTokens{
		To:       boss,
		Quantity: protocol.NewAsset(1, protocol.MustNewSymbol("CFF", 2)),
	}, boss)
	require.True(t, errors.Is(err, errors.BadRequest))

	e.audit(t)
}

func TestRetireTokens(t *testing.T) {
	e := newEnv(t, boss)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	require.NoError(t, e.deliver(&protocol.RetireTokens{
		Quantity: protocol.NewAsset(400000, cff),
	}, boss))

	s := e.stats(t, cff.Code)
	require.Equal(t, int64(600000), s.Supply.Amount)
	// Retire does not touch the cap
	require.Equal(t, int64(10000000), s.MaxSupply.Amount)
	require.Equal(t, int64(600000), e.balance(t, boss, cff.Code))

	// Retired headroom can be issued again
	e.issue(t, boss, 400000, cff)
	require.Equal(t, int64(1000000), e.stats(t, cff.Code).Supply.Amount)

	// Cannot retire more than circulates
	err := e.deliver(&protocol.RetireTokens{
		Quantity: protocol.NewAsset(1000001, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.InsufficientBalance))

	e.audit(t)
}

func TestTransferBurnsFee(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(100000, cff),
	}, boss))

	// 10.0000 CFF moved, 1.0000 CFF fee burned from the sender
	require.Equal(t, int64(890000), e.balance(t, boss, cff.Code))
	require.Equal(t, int64(100000), e.balance(t, alice, cff.Code))

	s := e.stats(t, cff.Code)
	require.Equal(t, int64(990000), s.Supply.Amount)
	require.Equal(t, int64(9990000), s.MaxSupply.Amount)

	e.audit(t)
}

func TestTransferSecondaryCurrency(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)
	e.create(t, boss, 5000000, tok)
	e.issue(t, boss, 2000000, tok)

	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(500000, tok),
	}, boss))

	// The fee is burned in the base currency, not the transferred one
	require.Equal(t, int64(1500000), e.balance(t, boss, tok.Code))
	require.Equal(t, int64(500000), e.balance(t, alice, tok.Code))
	require.Equal(t, int64(990000), e.balance(t, boss, cff.Code))
	require.Equal(t, int64(2000000), e.stats(t, tok.Code).Supply.Amount)
	require.Equal(t, int64(990000), e.stats(t, cff.Code).Supply.Amount)

	e.audit(t)
}

func TestTransferValidation(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	err := e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       boss,
		Quantity: protocol.NewAsset(100, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.BadRequest))

	err = e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       protocol.AccountID("nobody"),
		Quantity: protocol.NewAsset(100, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.NotFound))

	err = e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(-100, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.BadRequest))

	err = e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(100, cff),
	}, alice)
	require.True(t, errors.Is(err, errors.Unauthorized))
}

func TestTransferRollsBackWhenFeeExhaustsCap(t *testing.T) {
	e := newEnv(t, boss, alice)
	// Cap of 0.5000 CFF, below the 1.0000 CFF fee
	e.create(t, boss, 5000, cff)
	e.issue(t, boss, 5000, cff)

	err := e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(1000, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.SupplyExhausted))

	// Nothing moved, nothing burned
	require.Equal(t, int64(5000), e.balance(t, boss, cff.Code))
	s := e.stats(t, cff.Code)
	require.Equal(t, int64(5000), s.Supply.Amount)
	require.Equal(t, int64(5000), s.MaxSupply.Amount)

	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		_, err := batch.Balance(alice, cff.Code).Get()
		require.True(t, errors.Is(err, errors.NotFound))
		return nil
	}))

	e.audit(t)
}

func TestTransferRollsBackOnOverdraw(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 20000, cff)

	// Fee is covered but the main debit is not: 2.0000 held, 1.0000 fee,
	// 1.5000 transfer
	err := e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(15000, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.InsufficientBalance))

	// The fee burn rolled back with the rest
	require.Equal(t, int64(20000), e.balance(t, boss, cff.Code))
	s := e.stats(t, cff.Code)
	require.Equal(t, int64(20000), s.Supply.Amount)
	require.Equal(t, int64(10000000), s.MaxSupply.Amount)

	e.audit(t)
}

func TestBurnDebitsIssuer(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	// From names another party, but the debit lands on the issuer
	require.NoError(t, e.deliver(&protocol.BurnTokens{
		Issuer:   boss,
		From:     alice,
		Quantity: protocol.NewAsset(100000, cff),
	}, boss))

	require.Equal(t, int64(900000), e.balance(t, boss, cff.Code))
	s := e.stats(t, cff.Code)
	require.Equal(t, int64(900000), s.Supply.Amount)
	require.Equal(t, int64(9900000), s.MaxSupply.Amount)

	e.audit(t)
}

func TestBurnByHolder(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(200000, cff),
	}, boss))

	// Any holder can burn their own tokens, not just the registered issuer
	require.NoError(t, e.deliver(&protocol.BurnTokens{
		Issuer:   alice,
		From:     alice,
		Quantity: protocol.NewAsset(100000, cff),
	}, alice))

	require.Equal(t, int64(100000), e.balance(t, alice, cff.Code))
	s := e.stats(t, cff.Code)
	require.Equal(t, int64(890000), s.Supply.Amount)
	require.Equal(t, int64(9890000), s.MaxSupply.Amount)

	// But not without their signature
	err := e.deliver(&protocol.BurnTokens{
		Issuer:   alice,
		From:     alice,
		Quantity: protocol.NewAsset(100000, cff),
	}, boss)
	require.True(t, errors.Is(err, errors.Unauthorized))

	e.audit(t)
}

func TestBurnOnlyBaseCurrency(t *testing.T) {
	e := newEnv(t, boss)
	e.create(t, boss, 10000000, cff)
	e.create(t, boss, 5000000, tok)
	e.issue(t, boss, 1000000, tok)

	err := e.deliver(&protocol.BurnTokens{
		Issuer:   boss,
		From:     boss,
		Quantity: protocol.NewAsset(100, tok),
	}, boss)
	require.True(t, errors.Is(err, errors.BadRequest))
}

func TestOpenBalance(t *testing.T) {
	e := newEnv(t, boss, alice, bob)
	e.create(t, boss, 10000000, cff)

	require.NoError(t, e.deliver(&protocol.OpenBalance{
		Owner:  alice,
		Symbol: cff,
		Payer:  bob,
	}, bob))
	require.Zero(t, e.balance(t, alice, cff.Code))

	// Idempotent
	require.NoError(t, e.deliver(&protocol.OpenBalance{
		Owner:  alice,
		Symbol: cff,
		Payer:  alice,
	}, alice))

	// The original payer is preserved
	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		row, err := batch.Balance(alice, cff.Code).Get()
		require.NoError(t, err)
		require.Equal(t, bob, row.Payer)
		return nil
	}))

	// Precision must match the created symbol exactly
	err := e.deliver(&protocol.OpenBalance{
		Owner:  alice,
		Symbol: protocol.MustNewSymbol("CFF", 2),
		Payer:  alice,
	}, alice)
	require.True(t, errors.Is(err, errors.BadRequest))

	// Unknown currency
	err = e.deliver(&protocol.OpenBalance{
		Owner:  alice,
		Symbol: tok,
		Payer:  alice,
	}, alice)
	require.True(t, errors.Is(err, errors.NotFound))
}

func TestCloseBalance(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(100000, cff),
	}, boss))

	// Nonzero balance cannot be closed
	err := e.deliver(&protocol.CloseBalance{Owner: alice, Symbol: cff}, alice)
	require.True(t, errors.Is(err, errors.WrongState))

	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     alice,
		To:       boss,
		Quantity: protocol.NewAsset(90000, cff),
	}, alice))
	require.Zero(t, e.balance(t, alice, cff.Code))

	require.NoError(t, e.deliver(&protocol.CloseBalance{Owner: alice, Symbol: cff}, alice))
	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		_, err := batch.Balance(alice, cff.Code).Get()
		require.True(t, errors.Is(err, errors.NotFound))
		return nil
	}))

	// Closing again is an error, not a no-op
	err = e.deliver(&protocol.CloseBalance{Owner: alice, Symbol: cff}, alice)
	require.True(t, errors.Is(err, errors.WrongState))

	e.audit(t)
}

func TestCloseLooksUpByCodeOnly(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)

	require.NoError(t, e.deliver(&protocol.OpenBalance{
		Owner:  alice,
		Symbol: cff,
		Payer:  alice,
	}, alice))

	// The row is found by code; the symbol's precision is not compared
	require.NoError(t, e.deliver(&protocol.CloseBalance{
		Owner:  alice,
		Symbol: protocol.MustNewSymbol("CFF", 2),
	}, alice))

	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		_, err := batch.Balance(alice, cff.Code).Get()
		require.True(t, errors.Is(err, errors.NotFound))
		return nil
	}))
}

func TestTransferPayerSelection(t *testing.T) {
	e := newEnv(t, boss, alice, bob)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	// Without the recipient's signature, the sender pays for the row
	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(100000, cff),
	}, boss))

	// With it, the recipient pays
	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       bob,
		Quantity: protocol.NewAsset(100000, cff),
	}, boss, bob))

	require.NoError(t, e.db.View(func(batch *database.Batch) error {
		row, err := batch.Balance(alice, cff.Code).Get()
		require.NoError(t, err)
		require.Equal(t, boss, row.Payer)

		row, err = batch.Balance(bob, cff.Code).Get()
		require.NoError(t, err)
		require.Equal(t, bob, row.Payer)
		return nil
	}))
}

func TestMemoLimit(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)

	long := strings.Repeat("m", 257)
	q := protocol.NewAsset(10000, cff)

	for _, body := range []protocol.ActionBody{
		&protocol.IssueTokens{To: boss, Quantity: q, Memo: long},
		&protocol.RetireTokens{Quantity: q, Memo: long},
		&protocol.TransferTokens{From: boss, To: alice, Quantity: q, Memo: long},
		&protocol.BurnTokens{Issuer: boss, From: boss, Quantity: q, Memo: long},
	} {
		err := e.deliver(body, boss)
		require.True(t, errors.Is(err, errors.BadRequest), "%v accepted an over-long memo", body.Type())
	}

	// 256 bytes exactly is fine
	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: q,
		Memo:     strings.Repeat("m", 256),
	}, boss))
}

func TestNotifications(t *testing.T) {
	e := newEnv(t, boss, alice)
	e.create(t, boss, 10000000, cff)
	e.issue(t, boss, 1000000, cff)
	e.bus.notices = nil

	require.NoError(t, e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(100000, cff),
	}, boss))
	require.Equal(t, []notice{
		{boss, protocol.ActionTypeTransferTokens},
		{alice, protocol.ActionTypeTransferTokens},
	}, e.bus.notices)

	// A failed action notifies no one
	e.bus.notices = nil
	err := e.deliver(&protocol.TransferTokens{
		From:     boss,
		To:       alice,
		Quantity: protocol.NewAsset(-1, cff),
	}, boss)
	require.Error(t, err)
	require.Empty(t, e.bus.notices)
}

func TestConservationAcrossSequence(t *testing.T) {
	e := newEnv(t, boss, alice, bob)
	e.create(t, boss, 100000000, cff)
	e.issue(t, boss, 50000000, cff)

	for _, tx := range []*protocol.TransferTokens{
		{From: boss, To: alice, Quantity: protocol.NewAsset(1000000, cff)},
		{From: boss, To: bob, Quantity: protocol.NewAsset(2500000, cff)},
		{From: alice, To: bob, Quantity: protocol.NewAsset(300000, cff)},
		{From: bob, To: boss, Quantity: protocol.NewAsset(700000, cff)},
	} {
		require.NoError(t, e.deliver(tx, tx.From))
	}

	require.NoError(t, e.deliver(&protocol.BurnTokens{
		Issuer:   boss,
		From:     boss,
		Quantity: protocol.NewAsset(5000000, cff),
	}, boss))
	require.NoError(t, e.deliver(&protocol.RetireTokens{
		Quantity: protocol.NewAsset(1000000, cff),
	}, boss))

	// Four transfers burned 4.0000 CFF of fees
	s := e.stats(t, cff.Code)
	require.Equal(t, int64(100000000-40000-5000000), s.MaxSupply.Amount)
	sum := e.balance(t, boss, cff.Code) + e.balance(t, alice, cff.Code) + e.balance(t, bob, cff.Code)
	require.Equal(t, s.Supply.Amount, sum)

	e.audit(t)
}
