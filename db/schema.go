package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// TripsSchema is the ordered list of statements that creates the store.
// Every statement must be safe to run against an initialised store.
var TripsSchema = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		image_url TEXT,
		start_date TEXT,
		end_date TEXT,
		days INTEGER,
		cities TEXT,
		status TEXT,
		budget REAL,
		currency TEXT,
		participants TEXT,
		tags TEXT,
		visibility TEXT
	);`,
}

// SchemaError reports the schema statement the store rejected.
type SchemaError struct {
	Index     int
	Statement string
	Err       error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: statement %d failed: %v\n%s", e.Index+1, e.Err, strings.TrimSpace(e.Statement))
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// EnsureSchema applies statements in order and stops at the first failure.
// Nothing is rolled back; statements applied before the failure stay applied.
func EnsureSchema(ctx context.Context, gdb *gorm.DB, statements []string) error {
	for i, stmt := range statements {
		if err := gdb.WithContext(ctx).Exec(stmt).Error; err != nil {
			return &SchemaError{Index: i, Statement: stmt, Err: err}
		}
	}
	return nil
}
