package dto

import "github.com/google/uuid"

// BulkIDsRequest selects a subset of bin entries for a bulk operation.
type BulkIDsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}
