package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/cofferchain/coffer/internal/database"
	"gitlab.com/cofferchain/coffer/protocol"
)

var cmdStats = &cobra.Command{
	Use:   "stats [SYMBOL]",
	Short: "Show currency supply records",
	Args:  cobra.MaximumNArgs(1),
	Run:   runStats,
}

var cmdBalance = &cobra.Command{
	Use:   "balance OWNER",
	Short: "Show an account's balances",
	Args:  cobra.ExactArgs(1),
	Run:   runBalance,
}

var cmdCheck = &cobra.Command{
	Use:   "check",
	Short: "Audit the ledger's conservation invariants",
	Run:   runCheck,
}

func init() {
	cmdMain.AddCommand(cmdStats, cmdBalance, cmdCheck)
}

func printStats(s *protocol.CurrencyStats) {
	fmt.Printf("%-8v supply %v of %v, issued by %v\n", s.Supply.Symbol.Code, s.Supply, s.MaxSupply, s.Issuer)
}

func runStats(_ *cobra.Command, args []string) {
	db := openDatabase(loadConfig())
	defer db.Close()

	check(db.View(func(batch *database.Batch) error {
		if len(args) == 0 {
			return batch.ForEachToken(func(s *protocol.CurrencyStats) error {
				printStats(s)
				return nil
			})
		}

		code, err := protocol.ParseSymbolCode(args[0])
		if err != nil {
			return err
		}
		s, err := batch.Token(code).Get()
		if err != nil {
			return err
		}
		printStats(s)
		return nil
	}))
}

func runBalance(_ *cobra.Command, args []string) {
	owner := protocol.AccountID(args[0])
	if !owner.Valid() {
		fatalf("invalid account identity %q", args[0])
	}

	db := openDatabase(loadConfig())
	defer db.Close()

	check(db.View(func(batch *database.Batch) error {
		return batch.ForEachBalance(owner, func(row *protocol.AccountBalance) error {
			fmt.Printf("%v (storage paid by %v)\n", row.Balance, row.Payer)
			return nil
		})
	}))
}

func runCheck(_ *cobra.Command, _ []string) {
	db := openDatabase(loadConfig())
	defer db.Close()

	check(db.View(func(batch *database.Batch) error {
		return batch.Audit()
	}))
	fmt.Println("ok")
}
