package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/r3labs/diff/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripscheduler/logging"
	"tripscheduler/model"
)

// WriteError reports the record whose upsert failed. Index is zero-based.
type WriteError struct {
	Index  int
	TripID string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("seed: failed to write record %d (id %q): %v", e.Index+1, e.TripID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Report counts what a Seed call did to the store.
type Report struct {
	Inserted  int
	Updated   int
	Unchanged int
}

func (r Report) Total() int {
	return r.Inserted + r.Updated + r.Unchanged
}

func (r Report) String() string {
	return fmt.Sprintf("%d inserted, %d updated, %d unchanged", r.Inserted, r.Updated, r.Unchanged)
}

type outcome int

const (
	inserted outcome = iota
	updated
	unchanged
)

// Seeder upserts trips one record at a time.
type Seeder struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewSeeder(gdb *gorm.DB, log *zap.SugaredLogger) *Seeder {
	return &Seeder{db: gdb, log: logging.OrNop(log)}
}

// Seed writes each trip with its own upsert statement, in order. A trip whose
// id already exists is replaced in place, so seeding the same records twice
// leaves one row per id. The first failure aborts the batch; rows written
// before it are kept.
func (s *Seeder) Seed(ctx context.Context, trips []model.Trip) (Report, error) {
	var report Report
	for i, trip := range trips {
		res, err := s.upsert(ctx, trip)
		if err != nil {
			s.log.Errorw("seed aborted", "record", i+1, "id", trip.ID, "error", err)
			return report, &WriteError{Index: i, TripID: trip.ID, Err: err}
		}
		switch res {
		case inserted:
			report.Inserted++
		case updated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}
	s.log.Infow("seed completed", "records", len(trips), "inserted", report.Inserted,
		"updated", report.Updated, "unchanged", report.Unchanged)
	return report, nil
}

func (s *Seeder) upsert(ctx context.Context, trip model.Trip) (outcome, error) {
	if err := trip.Validate(); err != nil {
		return 0, err
	}
	s.warnUnknownValues(trip)
	trip = normalize(trip)

	var existing model.Trip
	found := true
	err := s.db.WithContext(ctx).Where("id = ?", trip.ID).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		found = false
	} else if err != nil {
		return 0, fmt.Errorf("lookup: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&trip).Error; err != nil {
		return 0, err
	}

	if !found {
		s.log.Debugw("trip inserted", "id", trip.ID, "title", trip.Title)
		return inserted, nil
	}
	changes, err := diff.Diff(normalize(existing), trip, diff.SliceOrdering(true))
	if err != nil {
		// The row is already written; a failed comparison only affects the report.
		s.log.Warnw("could not compare trip with stored row", "id", trip.ID, "error", err)
		return updated, nil
	}
	if len(changes) == 0 {
		return unchanged, nil
	}
	fields := make([]string, 0, len(changes))
	for _, c := range changes {
		fields = append(fields, strings.Join(c.Path, "."))
	}
	s.log.Debugw("trip updated", "id", trip.ID, "fields", fields)
	return updated, nil
}

// warnUnknownValues logs status and visibility values outside the known sets.
// The store accepts any text there, so the record is still written.
func (s *Seeder) warnUnknownValues(trip model.Trip) {
	if trip.Status != "" && !model.Status(trip.Status).IsValid() {
		s.log.Warnw("unknown trip status", "id", trip.ID, "status", trip.Status)
	}
	if trip.Visibility != "" && !model.Visibility(trip.Visibility).IsValid() {
		s.log.Warnw("unknown trip visibility", "id", trip.ID, "visibility", trip.Visibility)
	}
}

// normalize replaces nil sequences with empty ones so stored and fixture
// values compare equal.
func normalize(t model.Trip) model.Trip {
	if t.Cities == nil {
		t.Cities = model.StringList{}
	}
	if t.Participants == nil {
		t.Participants = model.StringList{}
	}
	if t.Tags == nil {
		t.Tags = model.StringList{}
	}
	return t
}

// EscapeSQLString doubles single quotes so s can sit inside a '...' literal.
// No other characters are touched.
func EscapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// RenderUpsert renders the textual upsert statement for trip. It is only used
// for dry runs; Seed binds values as parameters instead.
func RenderUpsert(trip model.Trip) (string, error) {
	cities, err := trip.Cities.Encode()
	if err != nil {
		return "", err
	}
	participants, err := trip.Participants.Encode()
	if err != nil {
		return "", err
	}
	tags, err := trip.Tags.Encode()
	if err != nil {
		return "", err
	}
	q := func(s string) string {
		return "'" + EscapeSQLString(s) + "'"
	}
	values := []string{
		q(trip.ID),
		q(trip.Title),
		q(trip.Description),
		q(trip.ImageURL),
		q(trip.StartDate),
		q(trip.EndDate),
		strconv.Itoa(trip.Days),
		q(cities),
		q(trip.Status),
		strconv.FormatFloat(trip.Budget, 'f', -1, 64),
		q(trip.Currency),
		q(participants),
		q(tags),
		q(trip.Visibility),
	}
	return fmt.Sprintf("INSERT OR REPLACE INTO trips (%s) VALUES (%s);",
		strings.Join(model.Columns(), ", "), strings.Join(values, ", ")), nil
}
