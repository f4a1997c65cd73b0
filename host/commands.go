package host

import (
	"context"

	"go.uber.org/zap"

	"tripscheduler/config"
	"tripscheduler/db"
	"tripscheduler/model"
)

// SeedMockDataCommand is the name the shell uses to load the mock plans.
const SeedMockDataCommand = "seed_mock_data"

// SeedMockData returns the command that creates the schema if needed and
// upserts the trips returned by plans into the store at dbPath.
func SeedMockData(dbPath string, plans func() []model.Trip, log *zap.SugaredLogger) Command {
	return func(ctx context.Context) error {
		if err := config.EnsureParentDir(dbPath); err != nil {
			return err
		}
		_, err := db.BootstrapSQLite(ctx, dbPath, plans(), true, log)
		return err
	}
}
