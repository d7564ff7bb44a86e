package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists OAuth credentials, one row per user and provider.
type Repository interface {
	Upsert(ctx context.Context, cred *OAuthCredential) error
	Get(ctx context.Context, userID uuid.UUID, provider string) (*OAuthCredential, error)
	Delete(ctx context.Context, userID uuid.UUID, provider string) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Upsert(ctx context.Context, cred *OAuthCredential) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expiry", "updated_at"}),
		}).
		Create(cred).Error
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (r *gormRepository) Get(ctx context.Context, userID uuid.UUID, provider string) (*OAuthCredential, error) {
	var cred OAuthCredential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialMissing
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &cred, nil
}

func (r *gormRepository) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&OAuthCredential{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
