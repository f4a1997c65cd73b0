package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTrip is returned by Trip.Validate for records the store would reject.
var ErrInvalidTrip = errors.New("invalid trip")

type Status string

const (
	DraftTrip     Status = "draft"
	PlannedTrip   Status = "planned"
	CompletedTrip Status = "completed"
)

// IsValid returns true if Status is known
func (s Status) IsValid() bool {
	switch s {
	case DraftTrip, PlannedTrip, CompletedTrip:
		return true
	}
	return false
}

type Visibility string

const (
	PublicTrip  Visibility = "public"
	PrivateTrip Visibility = "private"
)

func (v Visibility) IsValid() bool {
	switch v {
	case PublicTrip, PrivateTrip:
		return true
	}
	return false
}

// A Trip is a planned, ongoing or finished journey as stored in the trips table.
//
// Only ID and Title are required. Every other field is optional and an absent
// value is persisted as the zero value ("" or 0), so "not provided" and
// "explicitly empty" cannot be told apart once stored.
// Cities, Participants and Tags are stored as JSON arrays in TEXT columns.
type Trip struct {
	ID           string     `gorm:"column:id;primaryKey;type:text" json:"id"`
	Title        string     `gorm:"column:title;type:text;not null" json:"title"`
	Description  string     `gorm:"column:description;type:text" json:"description,omitempty"`
	ImageURL     string     `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	StartDate    string     `gorm:"column:start_date;type:text" json:"start_date,omitempty"`
	EndDate      string     `gorm:"column:end_date;type:text" json:"end_date,omitempty"`
	Days         int        `gorm:"column:days;type:integer" json:"days,omitempty"`
	Cities       StringList `gorm:"column:cities;type:text" json:"cities"`
	Status       string     `gorm:"column:status;type:text" json:"status,omitempty"`
	Budget       float64    `gorm:"column:budget;type:real" json:"budget,omitempty"`
	Currency     string     `gorm:"column:currency;type:text" json:"currency,omitempty"`
	Participants StringList `gorm:"column:participants;type:text" json:"participants"`
	Tags         StringList `gorm:"column:tags;type:text" json:"tags"`
	Visibility   string     `gorm:"column:visibility;type:text" json:"visibility,omitempty"`
}

func (Trip) TableName() string {
	return "trips"
}

// Validate checks the fields the store requires. Status and Visibility are
// free text in the store, so unknown values are not an error here.
func (t Trip) Validate() error {
	var missing []string
	if strings.TrimSpace(t.ID) == "" {
		missing = append(missing, "id")
	}
	if t.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidTrip, strings.Join(missing, ", "))
	}
	return nil
}

// Columns lists the trips columns in table order.
func Columns() []string {
	return []string{
		"id", "title", "description", "image_url", "start_date", "end_date", "days",
		"cities", "status", "budget", "currency", "participants", "tags", "visibility",
	}
}
