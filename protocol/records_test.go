package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	. "gitlab.com/cofferchain/coffer/protocol"
)

func TestCurrencyStatsRoundTrip(t *testing.T) {
	tok := MustNewSymbol("TOK", 4)
	s := &CurrencyStats{
		Supply:    NewAsset(5000000, tok),
		MaxSupply: NewAsset(10000000, tok),
		Issuer:    "alice",
	}

	data, err := s.MarshalBinary()
	require.NoError(t, err)

	u := new(CurrencyStats)
	require.NoError(t, u.UnmarshalBinary(data))
	require.True(t, s.Equal(u))
}

func TestAccountBalanceRoundTrip(t *testing.T) {
	b := &AccountBalance{
		Owner:   "bob",
		Balance: NewAsset(123, MustNewSymbol("CFF", 4)),
		Payer:   "alice",
	}

	data, err := b.MarshalBinary()
	require.NoError(t, err)

	u := new(AccountBalance)
	require.NoError(t, u.UnmarshalBinary(data))
	require.True(t, b.Equal(u))
}

func TestActionRoundTrip(t *testing.T) {
	body := &TransferTokens{
		From:     "alice",
		To:       "bob",
		Quantity: NewAsset(1000000, MustNewSymbol("TOK", 4)),
		Memo:     "rent",
	}

	data, err := MarshalAction(body)
	require.NoError(t, err)

	u, err := UnmarshalAction(data)
	require.NoError(t, err)
	require.IsType(t, (*TransferTokens)(nil), u)
	require.Equal(t, body, u)
}

func TestCurrencyStatsMethods(t *testing.T) {
	tok := MustNewSymbol("TOK", 4)
	s := &CurrencyStats{
		Supply:    Zero(tok),
		MaxSupply: NewAsset(1000, tok),
		Issuer:    "alice",
	}

	require.True(t, s.Issue(NewAsset(600, tok)))
	require.Equal(t, int64(600), s.Supply.Amount)

	// Headroom is only 400 now
	require.False(t, s.Issue(NewAsset(500, tok)))
	require.Equal(t, int64(600), s.Supply.Amount)

	require.True(t, s.Retire(NewAsset(100, tok)))
	require.Equal(t, int64(500), s.Supply.Amount)
	require.False(t, s.Retire(NewAsset(501, tok)))

	// Burn reduces the cap as well
	require.True(t, s.Burn(NewAsset(500, tok)))
	require.Equal(t, int64(0), s.Supply.Amount)
	require.Equal(t, int64(500), s.MaxSupply.Amount)
	require.False(t, s.Burn(NewAsset(1, tok)))
}

func TestAccountBalanceMethods(t *testing.T) {
	tok := MustNewSymbol("TOK", 4)
	b := &AccountBalance{Owner: "bob", Balance: NewAsset(100, tok), Payer: "bob"}

	require.True(t, b.Credit(NewAsset(50, tok)))
	require.Equal(t, int64(150), b.Balance.Amount)

	require.False(t, b.Debit(NewAsset(151, tok)))
	require.True(t, b.Debit(NewAsset(150, tok)))
	require.True(t, b.Balance.IsZero())

	// Wrong symbol is rejected outright
	require.False(t, b.Credit(NewAsset(1, MustNewSymbol("CFF", 4))))
}
