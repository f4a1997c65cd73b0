package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tripscheduler/logging"
	"tripscheduler/model"
)

// setupTestDB opens a file-backed store in a temp dir without creating a schema.
func setupTestDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trip-scheduler.db")
	gdb, err := OpenSQLite(path, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb, path
}

// setupSchemaDB opens a store with the trips schema applied.
func setupSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, _ := setupTestDB(t)
	require.NoError(t, EnsureSchema(context.Background(), gdb, TripsSchema))
	return gdb
}

func tableCount(t *testing.T, gdb *gorm.DB, name string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n).Error)
	return n
}

func rowCount(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	n, err := NewSQLStore(gdb).CountTrips(context.Background())
	require.NoError(t, err)
	return n
}

func testTrips() []model.Trip {
	return []model.Trip{
		{
			ID:           "trip-1",
			Title:        "Italy",
			Description:  "Rome and Florence",
			StartDate:    "2025-08-01",
			EndDate:      "2025-08-07",
			Days:         7,
			Cities:       model.StringList{"Paris", "Rome"},
			Status:       "planned",
			Budget:       2500.75,
			Currency:     "EUR",
			Participants: model.StringList{"Anna", "Mike"},
			Tags:         model.StringList{"food", "art"},
			Visibility:   "public",
		},
		{
			ID:    "trip-2",
			Title: "O'Brien's Trip",
		},
		{
			ID:        "trip-3",
			Title:     "Weekend",
			Days:      2,
			Cities:    model.StringList{"Howth"},
			StartDate: "2025-09-13",
		},
	}
}
