package dto

import "time"

// CredentialRequest carries the token triple produced by the external
// OAuth consent flow.
type CredentialRequest struct {
	AccessToken  string    `json:"access_token" binding:"required"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry" binding:"required"`
}
