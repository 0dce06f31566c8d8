// Package config loads and stores the ledger's on-disk configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
	"gitlab.com/cofferchain/coffer/protocol"
)

const (
	configDir  = "config"
	configFile = "coffer.toml"
	dataDir    = "data"
)

type StorageType string

const (
	MemoryStorage StorageType = "memory"
	BadgerStorage StorageType = "badger"
)

type Config struct {
	RootDir string `toml:"-" mapstructure:"-"`

	// Operator is the identity allowed to create currencies.
	Operator string `toml:"operator" mapstructure:"operator"`

	// LogLevel is the zerolog level name.
	LogLevel string `toml:"log-level" mapstructure:"log-level"`

	Storage      Storage      `toml:"storage" mapstructure:"storage"`
	BaseCurrency BaseCurrency `toml:"base-currency" mapstructure:"base-currency"`
}

type Storage struct {
	Type StorageType `toml:"type" mapstructure:"type"`
	Path string      `toml:"path" mapstructure:"path"`
}

// BaseCurrency names the designated fee currency and the fixed
// per-transfer fee, denominated in its smallest unit.
type BaseCurrency struct {
	Symbol      string `toml:"symbol" mapstructure:"symbol"`
	Precision   uint32 `toml:"precision" mapstructure:"precision"`
	TransferFee int64  `toml:"transfer-fee" mapstructure:"transfer-fee"`
}

// Default returns the stock configuration.
func Default() *Config {
	c := new(Config)
	c.Operator = "coffer"
	c.LogLevel = "info"
	c.Storage.Type = BadgerStorage
	c.Storage.Path = dataDir
	c.BaseCurrency.Symbol = "CFF"
	c.BaseCurrency.Precision = 4
	c.BaseCurrency.TransferFee = 10000
	return c
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if !protocol.AccountID(c.Operator).Valid() {
		return fmt.Errorf("invalid operator identity %q", c.Operator)
	}
	if _, err := protocol.NewSymbol(c.BaseCurrency.Symbol, c.BaseCurrency.Precision); err != nil {
		return fmt.Errorf("invalid base currency: %v", err)
	}
	if c.BaseCurrency.TransferFee <= 0 {
		return fmt.Errorf("transfer fee must be positive")
	}
	switch c.Storage.Type {
	case MemoryStorage, BadgerStorage:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	return nil
}

// FeeSymbol returns the base currency's symbol. Validate first.
func (c *Config) FeeSymbol() protocol.Symbol {
	return protocol.MustNewSymbol(c.BaseCurrency.Symbol, c.BaseCurrency.Precision)
}

// StoragePath returns the storage path resolved against the root
// directory.
func (c *Config) StoragePath() string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(c.RootDir, c.Storage.Path)
}

// Load reads the configuration from dir/config/coffer.toml.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, configDir, configFile))
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("read: %v", err)
	}

	c := new(Config)
	err = v.Unmarshal(c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal: %v", err)
	}

	c.RootDir = dir
	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Store writes the configuration to RootDir/config/coffer.toml, creating
// the directory if necessary.
func Store(c *Config) error {
	err := os.MkdirAll(filepath.Join(c.RootDir, configDir), 0o755)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(c.RootDir, configDir, configFile))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
