package models

import "time"

// Course owns its learning outcomes and assessments.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	CreatedByID *int64    `json:"createdById,omitempty" db:"created_by"` // Nullable, creator may be removed
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
