// Package migrations holds the versioned schema history of the trips store.
package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

// CreateTripsVersion is the version of the migration that creates the trips table.
const CreateTripsVersion int64 = 20251015120000

// All returns every migration, oldest first. createTrips holds the statements
// that create the trips table.
func All(createTrips []string) []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(
			CreateTripsVersion,
			&goose.GoFunc{RunTx: execAll(createTrips)},
			&goose.GoFunc{RunTx: execAll([]string{`DROP TABLE IF EXISTS trips;`})},
		),
	}
}

func execAll(statements []string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
