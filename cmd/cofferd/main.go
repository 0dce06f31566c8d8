package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/cofferchain/coffer/config"
	"gitlab.com/cofferchain/coffer/internal/database"
	"gitlab.com/cofferchain/coffer/internal/kvdb"
	"gitlab.com/cofferchain/coffer/internal/kvdb/badger"
	"gitlab.com/cofferchain/coffer/internal/kvdb/memory"
	"gitlab.com/cofferchain/coffer/internal/logging"
)

var cmdMain = &cobra.Command{
	Use:   "cofferd",
	Short: "Coffer ledger operator tool",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	WorkDir string
}

func init() {
	defaultWorkDir := ".coffer"
	if home, err := os.UserHomeDir(); err == nil {
		defaultWorkDir = filepath.Join(home, ".coffer")
	}
	cmdMain.PersistentFlags().StringVarP(&flagMain.WorkDir, "work-dir", "w", defaultWorkDir, "Working directory for configuration and data")
}

func main() {
	_ = cmdMain.Execute()
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func checkf(err error, format string, otherArgs ...interface{}) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}

func loadConfig() *config.Config {
	c, err := config.Load(flagMain.WorkDir)
	checkf(err, "load configuration from %s", flagMain.WorkDir)
	return c
}

func openDatabase(c *config.Config) *database.Database {
	logger, err := logging.NewConsole(c.LogLevel)
	check(err)

	var store kvdb.Store
	switch c.Storage.Type {
	case config.MemoryStorage:
		store = memory.New()
	case config.BadgerStorage:
		store, err = badger.New(c.StoragePath(), logger)
		checkf(err, "open database at %s", c.StoragePath())
	default:
		fatalf("unknown storage type %q", c.Storage.Type)
	}

	return database.New(store, logger)
}
