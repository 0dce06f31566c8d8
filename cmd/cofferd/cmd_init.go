package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/cofferchain/coffer/config"
	"gitlab.com/cofferchain/coffer/internal/chain"
	"gitlab.com/cofferchain/coffer/protocol"
)

var cmdInit = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration and create the base currency",
	Run:   runInit,
}

var flagInit struct {
	Operator  string
	Issuer    string
	MaxSupply string
	Fee       int64
	Storage   string
	LogLevel  string
}

func init() {
	cmdMain.AddCommand(cmdInit)
	cmdInit.Flags().StringVar(&flagInit.Operator, "operator", "coffer", "Operator identity allowed to create currencies")
	cmdInit.Flags().StringVar(&flagInit.Issuer, "issuer", "coffer", "Issuer identity of the base currency")
	cmdInit.Flags().StringVar(&flagInit.MaxSupply, "max-supply", "1000000.0000 CFF", "Maximum supply of the base currency")
	cmdInit.Flags().Int64Var(&flagInit.Fee, "fee", 10000, "Per-transfer fee in the base currency's smallest unit")
	cmdInit.Flags().StringVar(&flagInit.Storage, "storage", "badger", "Storage backend (memory or badger)")
	cmdInit.Flags().StringVar(&flagInit.LogLevel, "log-level", "info", "Log level")
}

func runInit(_ *cobra.Command, _ []string) {
	max, err := protocol.ParseAsset(flagInit.MaxSupply)
	checkf(err, "parse max-supply")

	c := config.Default()
	c.RootDir = flagMain.WorkDir
	c.Operator = flagInit.Operator
	c.LogLevel = flagInit.LogLevel
	c.Storage.Type = config.StorageType(flagInit.Storage)
	c.BaseCurrency.Symbol = max.Symbol.Code.String()
	c.BaseCurrency.Precision = max.Symbol.Precision
	c.BaseCurrency.TransferFee = flagInit.Fee
	check(c.Validate())
	check(config.Store(c))

	db := openDatabase(c)
	defer db.Close()

	operator := protocol.AccountID(c.Operator)
	x, err := chain.NewExecutor(chain.ExecutorOptions{
		Database: db,
		Operator: operator,
		Fee:      chain.FeePolicy{Symbol: c.FeeSymbol(), Amount: c.BaseCurrency.TransferFee},
		Oracle:   chain.ExistsFunc(func(protocol.AccountID) bool { return true }),
	})
	check(err)

	err = x.Deliver(&chain.Delivery{
		Body: &protocol.CreateToken{
			Issuer:    protocol.AccountID(flagInit.Issuer),
			MaxSupply: max,
		},
		Auth: chain.SignedBy(operator),
	})
	check(err)

	fmt.Printf("Initialized %s with base currency %v\n", flagMain.WorkDir, max)
}
