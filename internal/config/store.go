package config

import (
	"fmt"
	"os"
	"strings"
)

type StoreDriver string

const (
	DriverPostgres StoreDriver = "postgres"
	DriverSQLite   StoreDriver = "sqlite"
	DriverMemory   StoreDriver = "memory"
)

type Store struct {
	Driver      StoreDriver
	SQLitePath  string
	AutoMigrate bool
}

func NewStore() (*Store, error) {
	store := &Store{Driver: DriverPostgres}

	if s, ok := os.LookupEnv("STORE_DRIVER"); ok {
		store.Driver = StoreDriver(strings.ToLower(strings.TrimSpace(s)))
	}

	switch store.Driver {
	case DriverPostgres:
		autoMigrate, ok := os.LookupEnv("AUTO_MIGRATE")
		store.AutoMigrate = ok && autoMigrate != "0"
	case DriverSQLite:
		path, ok := os.LookupEnv("SQLITE_PATH")
		if !ok {
			return nil, fmt.Errorf("no SQLITE_PATH env variable set")
		}
		store.SQLitePath = path
	case DriverMemory:
	default:
		return nil, fmt.Errorf(
			"STORE_DRIVER must be one of '%s', '%s', '%s', got %q",
			DriverPostgres, DriverSQLite, DriverMemory, store.Driver,
		)
	}

	return store, nil
}
