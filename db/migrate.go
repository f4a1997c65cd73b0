package db

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripscheduler/db/migrations"
	"tripscheduler/logging"
)

type Direction string

const (
	MigrateUp     Direction = "up"
	MigrateDown   Direction = "down"
	MigrateStatus Direction = "status"
)

// MigrationState is one row of migration status output.
type MigrationState struct {
	Version int64
	Applied bool
}

func newProvider(gdb *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("migrate: access DB handle: %w", err)
	}
	return goose.NewProvider(goose.DialectSQLite3, sqlDB, nil,
		goose.WithGoMigrations(migrations.All(TripsSchema)...),
	)
}

// Migrate runs the versioned migrations in the given direction and returns
// the resulting status. Down rolls back only the latest applied migration.
func Migrate(ctx context.Context, gdb *gorm.DB, dir Direction, log *zap.SugaredLogger) ([]MigrationState, error) {
	log = logging.OrNop(log)
	p, err := newProvider(gdb)
	if err != nil {
		return nil, err
	}
	switch dir {
	case MigrateUp:
		results, err := p.Up(ctx)
		if err != nil {
			return nil, fmt.Errorf("migrate: up failed: %w", err)
		}
		for _, r := range results {
			log.Infow("migration applied", "version", r.Source.Version, "duration", r.Duration)
		}
	case MigrateDown:
		r, err := p.Down(ctx)
		if err != nil {
			return nil, fmt.Errorf("migrate: down failed: %w", err)
		}
		log.Infow("migration rolled back", "version", r.Source.Version, "duration", r.Duration)
	case MigrateStatus:
	default:
		return nil, fmt.Errorf("migrate: unknown direction %q", dir)
	}

	status, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: status failed: %w", err)
	}
	states := make([]MigrationState, 0, len(status))
	for _, s := range status {
		states = append(states, MigrationState{
			Version: s.Source.Version,
			Applied: s.State == goose.StateApplied,
		})
	}
	return states, nil
}
