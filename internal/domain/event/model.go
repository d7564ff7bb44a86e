package event

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Domain errors. Handlers map these to HTTP statuses.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotFoundInBin = errors.New("event not found in bin")
	ErrValidation    = errors.New("validation failed")
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Event is a single saved event owned by one user. DeletedAt drives the
// bin: soft-deleted rows stay queryable through Unscoped until purged.
type Event struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
	TicketURL     string         `json:"ticket_url"`
	Price         string         `json:"price"`
	ImagePath     string         `json:"image_path"`
	StartDate     time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate       *time.Time     `json:"end_date,omitempty"`
	EventTime     *string        `json:"event_time,omitempty"`
	GoogleEventID *string        `json:"google_event_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// EventInput carries the writable fields for create and full-replace update.
type EventInput struct {
	Name        string
	Description string
	Location    string
	TicketURL   string
	Price       string
	ImagePath   string
	StartDate   time.Time
	EndDate     *time.Time
	EventTime   *string
}

// Validate checks the input against the model invariants.
func (in *EventInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrValidation)
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	if in.EventTime != nil && !timePattern.MatchString(*in.EventTime) {
		return fmt.Errorf("%w: event time must be HH:MM", ErrValidation)
	}
	return nil
}

// apply copies the input onto the event, replacing every writable field.
func (e *Event) apply(in *EventInput) {
	e.Name = in.Name
	e.Description = in.Description
	e.Location = in.Location
	e.TicketURL = in.TicketURL
	e.Price = in.Price
	e.ImagePath = in.ImagePath
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.EventTime = in.EventTime
}

// EffectiveEnd computes the moment the event is considered over, in loc.
// With a time set it ends at date+time on the end date when present,
// otherwise the start date. Without a time it ends at 23:59 of that date.
func (e *Event) EffectiveEnd(loc *time.Location) time.Time {
	day := e.StartDate
	if e.EndDate != nil {
		day = *e.EndDate
	}

	if e.EventTime != nil {
		if t, err := time.Parse("15:04", *e.EventTime); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, loc)
}
