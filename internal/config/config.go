package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	API        APIConfig      `mapstructure:"api"`
	Database   DatabaseConfig `mapstructure:"database"`
	Session    SessionConfig  `mapstructure:"session"`
	Transfer   TransferConfig `mapstructure:"transfer"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	Log        LogConfig      `mapstructure:"log"`
	ConfigPath string         `mapstructure:"-"`
}

// APIConfig points at the mock backend. The per-resource URLs override
// BaseURL, since users/accounts and transactions/categories may live in
// different mock projects.
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	UsersURL        string        `mapstructure:"users_url"`
	AccountsURL     string        `mapstructure:"accounts_url"`
	CategoriesURL   string        `mapstructure:"categories_url"`
	TransactionsURL string        `mapstructure:"transactions_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Retries         int           `mapstructure:"retries"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type TransferConfig struct {
	Debounce  time.Duration `mapstructure:"debounce"`
	MaxAmount string        `mapstructure:"max_amount"`
}

type DefaultsConfig struct {
	Currency   string `mapstructure:"currency"`
	CategoryID string `mapstructure:"category_id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func NewDefault() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000/api/v1",
			Timeout: 10 * time.Second,
			Retries: 2,
		},
		Database: DatabaseConfig{Path: ""},
		Session:  SessionConfig{TTL: 7 * 24 * time.Hour},
		Transfer: TransferConfig{
			Debounce:  500 * time.Millisecond,
			MaxAmount: "50000",
		},
		Defaults: DefaultsConfig{Currency: "USD", CategoryID: "5"},
		Log:      LogConfig{Level: "info", Path: ""},
	}
}

// MaxTransferAmount parses Transfer.MaxAmount, falling back to 50000.
func (c *Config) MaxTransferAmount() (decimal.Decimal, error) {
	if c.Transfer.MaxAmount == "" {
		return decimal.NewFromInt(50000), nil
	}
	max, err := decimal.NewFromString(c.Transfer.MaxAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid transfer.max_amount '%s': %w", c.Transfer.MaxAmount, err)
	}
	if !max.IsPositive() {
		return decimal.Zero, fmt.Errorf("transfer.max_amount must be positive")
	}
	return max, nil
}
