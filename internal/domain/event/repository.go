package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence for events, including bin queries.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetActive(ctx context.Context, id, userID uuid.UUID) (*Event, error)
	Update(ctx context.Context, e *Event) error
	SoftDelete(ctx context.Context, id, userID uuid.UUID) error
	ListActive(ctx context.Context, userID uuid.UUID) ([]Event, error)

	ListDeleted(ctx context.Context, userID uuid.UUID) ([]Event, error)
	Restore(ctx context.Context, id, userID uuid.UUID) error
	Purge(ctx context.Context, id, userID uuid.UUID) error
	PurgeAllDeleted(ctx context.Context, userID uuid.UUID) (int64, error)

	ListEndedCandidates(ctx context.Context, userID uuid.UUID, before time.Time) ([]Event, error)
	HardDelete(ctx context.Context, ids []uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a GORM-backed event repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, e *Event) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *gormRepository) GetActive(ctx context.Context, id, userID uuid.UUID) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// Update replaces the stored row. Ownership is enforced on the UPDATE
// itself so a row swapped out between read and write cannot be touched.
func (r *gormRepository) Update(ctx context.Context, e *Event) error {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND user_id = ?", e.ID, e.UserID).
		Select("name", "description", "location", "ticket_url", "price",
			"image_path", "start_date", "end_date", "event_time", "google_event_id").
		Updates(e)
	if result.Error != nil {
		return fmt.Errorf("failed to update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// SoftDelete moves an active event into the bin. Deleting an event that
// is already in the bin reports not found.
func (r *gormRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Event{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *gormRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *gormRepository) ListDeleted(ctx context.Context, userID uuid.UUID) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Order("deleted_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bin: %w", err)
	}
	return events, nil
}

func (r *gormRepository) Restore(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().
		Model(&Event{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, userID).
		Update("deleted_at", nil)
	if result.Error != nil {
		return fmt.Errorf("failed to restore event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFoundInBin
	}
	return nil
}

func (r *gormRepository) Purge(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, userID).
		Delete(&Event{})
	if result.Error != nil {
		return fmt.Errorf("failed to purge event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFoundInBin
	}
	return nil
}

func (r *gormRepository) PurgeAllDeleted(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Delete(&Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge bin: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListEndedCandidates returns rows whose start date is already past,
// bin rows included. The precise end-of-event check happens in memory
// because it depends on the optional time-of-day field.
func (r *gormRepository) ListEndedCandidates(ctx context.Context, userID uuid.UUID, before time.Time) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND start_date <= ?", userID, before).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired candidates: %w", err)
	}
	return events, nil
}

func (r *gormRepository) HardDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Unscoped().
		Where("id IN ?", ids).
		Delete(&Event{}).Error
	if err != nil {
		return fmt.Errorf("failed to hard delete events: %w", err)
	}
	return nil
}
