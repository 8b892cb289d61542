package config

import (
	"fmt"
	"os"
)

// Product constants. They live on the Config struct rather than as package
// globals so every component receives them explicitly.
const (
	defaultFamilyName    = "rainsurance"
	defaultFamilyVersion = "1.0"
	defaultMaxNameLength = 20
	defaultBankDigits    = 16
	defaultRefundFloor   = 0
	defaultRefundCeiling = 4294967295
)

type Config struct {
	// Ledger registration identity.
	FamilyName    string
	FamilyVersion string

	// Business-rule bounds.
	MaxNameLength int
	BankDigits    int
	RefundFloor   uint64
	RefundCeiling uint64

	// Serving and storage.
	Port      string
	Backend   string // postgres | bolt | memory
	DBSource  string
	StatePath string
	Env       string
}

func Load() (*Config, error) {
	backend := os.Getenv("STATE_BACKEND")
	if backend == "" {
		backend = "bolt"
	}

	dbSource := os.Getenv("DB_SOURCE")
	if backend == "postgres" && dbSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required for the postgres backend")
	}

	statePath := os.Getenv("STATE_PATH")
	if statePath == "" {
		statePath = "rainproc.db"
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &Config{
		FamilyName:    defaultFamilyName,
		FamilyVersion: defaultFamilyVersion,
		MaxNameLength: defaultMaxNameLength,
		BankDigits:    defaultBankDigits,
		RefundFloor:   defaultRefundFloor,
		RefundCeiling: defaultRefundCeiling,
		Port:          port,
		Backend:       backend,
		DBSource:      dbSource,
		StatePath:     statePath,
		Env:           env,
	}, nil
}
