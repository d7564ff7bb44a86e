package credential

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderGoogle is the only calendar provider currently supported.
const ProviderGoogle = "google"

var (
	// ErrCredentialMissing means the user never connected the provider.
	ErrCredentialMissing = errors.New("credential: no stored credential for provider")

	// ErrCredentialRefreshFailed means the refresh token was rejected and
	// the user has to authorize again.
	ErrCredentialRefreshFailed = errors.New("credential: token refresh failed")
)

// OAuthCredential is the stored token triple for one user and provider.
// The OAuth consent flow itself happens outside this service; tokens
// arrive through the credential intake endpoint.
type OAuthCredential struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_credentials_owner_provider" json:"user_id"`
	Provider     string    `gorm:"not null;uniqueIndex:idx_credentials_owner_provider" json:"provider"`
	AccessToken  string    `gorm:"not null" json:"-"`
	RefreshToken string    `json:"-"`
	Expiry       time.Time `json:"expiry"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (OAuthCredential) TableName() string {
	return "oauth_credentials"
}

func (c *OAuthCredential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
