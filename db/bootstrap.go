package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripscheduler/logging"
	"tripscheduler/model"
)

// Bootstrap creates the schema if it is missing and then upserts trips.
// It is the single entry point shared by the CLI seed command and the host's
// seed_mock_data command.
func Bootstrap(ctx context.Context, gdb *gorm.DB, trips []model.Trip, log *zap.SugaredLogger) (Report, error) {
	log = logging.OrNop(log)
	if err := EnsureSchema(ctx, gdb, TripsSchema); err != nil {
		return Report{}, err
	}
	log.Debugw("schema ready", "statements", len(TripsSchema))

	return NewSeeder(gdb, log).Seed(ctx, trips)
}

// BootstrapSQLite opens the store at dbPath, bootstraps it and closes it again.
// With seed false only the schema is created.
func BootstrapSQLite(ctx context.Context, dbPath string, trips []model.Trip, seed bool, log *zap.SugaredLogger) (Report, error) {
	log = logging.OrNop(log)
	gdb, err := OpenSQLite(dbPath, log)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		if err := Close(gdb); err != nil {
			log.Warnw("failed to close database", "path", dbPath, "error", err)
		}
	}()

	if !seed {
		if err := EnsureSchema(ctx, gdb, TripsSchema); err != nil {
			return Report{}, err
		}
		log.Infow("bootstrap: database schema created but no seed data loaded", "path", dbPath)
		return Report{}, nil
	}

	report, err := Bootstrap(ctx, gdb, trips, log)
	if err != nil {
		return report, fmt.Errorf("bootstrap %s: %w", dbPath, err)
	}
	log.Infow("bootstrap: completed and loaded seed data", "path", dbPath, "report", report.String())
	return report, nil
}
