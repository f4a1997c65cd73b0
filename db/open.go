package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tripscheduler/logging"
)

// OpenSQLite opens the store at dbPath. The pool is pinned to one connection:
// every operation here is sequential, and ":memory:" stores would otherwise
// hand out a fresh empty database per connection.
func OpenSQLite(dbPath string, log *zap.SugaredLogger) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logging.GORM(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open DB %s: %w", dbPath, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// Close releases the connection behind gdb.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
