package db

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tripscheduler/model"
)

type rawLists struct {
	Cities       string
	Participants string
	Tags         string
}

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	gdb := setupSchemaDB(t)
	seeder := NewSeeder(gdb, nil)
	trips := testTrips()

	report, err := seeder.Seed(ctx, trips)
	require.NoError(t, err)
	assert.Equal(t, Report{Inserted: 3}, report)

	report, err = seeder.Seed(ctx, trips)
	require.NoError(t, err)
	assert.Equal(t, Report{Unchanged: 3}, report)
	assert.EqualValues(t, 3, rowCount(t, gdb))

	t.Run("latest values win", func(t *testing.T) {
		changed := testTrips()
		changed[0].Title = "Italy, again"
		changed[0].Cities = model.StringList{"Rome"}

		report, err := seeder.Seed(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, Report{Updated: 1, Unchanged: 2}, report)
		assert.Equal(t, 3, report.Total())
		assert.EqualValues(t, 3, rowCount(t, gdb))

		got, err := NewSQLStore(gdb).GetTrip(ctx, "trip-1")
		require.NoError(t, err)
		assert.Equal(t, "Italy, again", got.Title)
		assert.Equal(t, model.StringList{"Rome"}, got.Cities)
	})
}

func TestSeedRoundTrip(t *testing.T) {
	ctx := context.Background()
	gdb := setupSchemaDB(t)
	_, err := NewSeeder(gdb, nil).Seed(ctx, testTrips())
	require.NoError(t, err)
	store := NewSQLStore(gdb)

	t.Run("quotes are stored verbatim", func(t *testing.T) {
		got, err := store.GetTrip(ctx, "trip-2")
		require.NoError(t, err)
		assert.Equal(t, "O'Brien's Trip", got.Title)
	})

	t.Run("sequence fields keep order", func(t *testing.T) {
		var raw string
		require.NoError(t, gdb.Raw("SELECT cities FROM trips WHERE id = ?", "trip-1").Scan(&raw).Error)
		assert.Equal(t, `["Paris","Rome"]`, raw)

		var cities []string
		require.NoError(t, json.Unmarshal([]byte(raw), &cities))
		assert.Equal(t, []string{"Paris", "Rome"}, cities)
	})

	t.Run("absent sequences are stored as empty arrays", func(t *testing.T) {
		var raw rawLists
		require.NoError(t, gdb.Raw("SELECT cities, participants, tags FROM trips WHERE id = ?", "trip-2").Scan(&raw).Error)
		assert.Equal(t, "[]", raw.Cities)
		assert.Equal(t, "[]", raw.Participants)
		assert.Equal(t, "[]", raw.Tags)

		got, err := store.GetTrip(ctx, "trip-2")
		require.NoError(t, err)
		assert.Empty(t, got.Cities)
		assert.NotNil(t, got.Cities)
	})

	t.Run("absent optional fields collapse to zero values", func(t *testing.T) {
		var nulls int64
		require.NoError(t, gdb.Raw(`SELECT COUNT(*) FROM trips WHERE id = ? AND
			(description IS NULL OR days IS NULL OR budget IS NULL OR status IS NULL)`, "trip-2").Scan(&nulls).Error)
		assert.Zero(t, nulls)

		got, err := store.GetTrip(ctx, "trip-2")
		require.NoError(t, err)
		assert.Equal(t, "", got.Description)
		assert.Equal(t, 0, got.Days)
		assert.Equal(t, 0.0, got.Budget)
	})

	t.Run("all fields match", func(t *testing.T) {
		for _, want := range testTrips() {
			got, err := store.GetTrip(ctx, want.ID)
			require.NoError(t, err)
			assert.Equal(t, normalize(want), *got)
		}
	})
}

func TestSeedPartialFailure(t *testing.T) {
	ctx := context.Background()
	gdb, _ := setupTestDB(t)
	constrained := []string{strings.Replace(TripsSchema[0], "days INTEGER,", "days INTEGER CHECK (days >= 0),", 1)}
	require.NoError(t, EnsureSchema(ctx, gdb, constrained))

	trips := testTrips()
	trips[1].Days = -1

	report, err := NewSeeder(gdb, nil).Seed(ctx, trips)
	require.Error(t, err)
	assert.Equal(t, Report{Inserted: 1}, report)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, 1, writeErr.Index)
	assert.Equal(t, "trip-2", writeErr.TripID)
	assert.Contains(t, err.Error(), "record 2")
	assert.Contains(t, err.Error(), "CHECK constraint failed")

	store := NewSQLStore(gdb)
	_, err = store.GetTrip(ctx, "trip-1")
	assert.NoError(t, err, "record 1 stays written")
	_, err = store.GetTrip(ctx, "trip-2")
	assert.ErrorIs(t, err, ErrTripNotFound)
	_, err = store.GetTrip(ctx, "trip-3")
	assert.ErrorIs(t, err, ErrTripNotFound, "record 3 is never attempted")
}

func TestSeedWarnsOnUnknownValues(t *testing.T) {
	ctx := context.Background()
	gdb := setupSchemaDB(t)
	core, logs := observer.New(zapcore.WarnLevel)

	trips := testTrips()
	trips[0].Status = "someday"
	trips[2].Visibility = "friends"

	report, err := NewSeeder(gdb, zap.New(core).Sugar()).Seed(ctx, trips)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Inserted, "unknown values are still written")

	status := logs.FilterMessage("unknown trip status").All()
	require.Len(t, status, 1)
	assert.Equal(t, "trip-1", status[0].ContextMap()["id"])
	assert.Equal(t, "someday", status[0].ContextMap()["status"])

	visibility := logs.FilterMessage("unknown trip visibility").All()
	require.Len(t, visibility, 1)
	assert.Equal(t, "trip-3", visibility[0].ContextMap()["id"])
	assert.Equal(t, 2, logs.Len())
}

func TestSeedInvalidTrip(t *testing.T) {
	gdb := setupSchemaDB(t)
	_, err := NewSeeder(gdb, nil).Seed(context.Background(), []model.Trip{{ID: "no-title"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidTrip)

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, 0, writeErr.Index)
	assert.EqualValues(t, 0, rowCount(t, gdb))
}

func TestSeedWithoutSchema(t *testing.T) {
	gdb, _ := setupTestDB(t)
	_, err := NewSeeder(gdb, nil).Seed(context.Background(), testTrips())
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "trip-1", writeErr.TripID)
	assert.Contains(t, err.Error(), "no such table")
}

func TestEscapeSQLString(t *testing.T) {
	assert.Equal(t, "O''Brien''s Trip", EscapeSQLString("O'Brien's Trip"))
	assert.Equal(t, "plain", EscapeSQLString("plain"))
	assert.Equal(t, "''''", EscapeSQLString("''"))
	assert.Equal(t, "line\nbreak", EscapeSQLString("line\nbreak"))
}

func TestRenderUpsert(t *testing.T) {
	stmt, err := RenderUpsert(testTrips()[1])
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT OR REPLACE INTO trips (id, title, description, image_url, start_date, end_date, days, cities, status, budget, currency, participants, tags, visibility) "+
			"VALUES ('trip-2', 'O''Brien''s Trip', '', '', '', '', 0, '[]', '', 0, '', '[]', '[]', '');",
		stmt)

	stmt, err = RenderUpsert(testTrips()[0])
	require.NoError(t, err)
	assert.Contains(t, stmt, `'["Paris","Rome"]'`)
	assert.Contains(t, stmt, ", 2500.75, ")

	t.Run("rendered statement produces the same row", func(t *testing.T) {
		gdb := setupSchemaDB(t)
		for _, trip := range testTrips() {
			stmt, err := RenderUpsert(trip)
			require.NoError(t, err)
			require.NoError(t, gdb.Exec(stmt).Error)
		}
		got, err := NewSQLStore(gdb).GetTrip(context.Background(), "trip-2")
		require.NoError(t, err)
		assert.Equal(t, "O'Brien's Trip", got.Title)
	})
}
