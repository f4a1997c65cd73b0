package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tripscheduler/model"
)

var ErrTripNotFound = errors.New("trip not found")

// Store is the read side of the trips table.
type Store interface {
	Ping(ctx context.Context) error
	ListTrips(ctx context.Context) ([]model.Trip, error)
	GetTrip(ctx context.Context, id string) (*model.Trip, error)
	CountTrips(ctx context.Context) (int64, error)
}

var _ Store = (*SQLStore)(nil)

type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Ping verifies the underlying database connection is healthy.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sql store is not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// ListTrips returns all trips, latest start date first.
func (s *SQLStore) ListTrips(ctx context.Context) ([]model.Trip, error) {
	var trips []model.Trip
	if err := s.db.WithContext(ctx).Order("start_date DESC").Order("id").Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (s *SQLStore) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	var trip model.Trip
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (s *SQLStore) CountTrips(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Trip{}).Count(&count).Error
	return count, err
}
