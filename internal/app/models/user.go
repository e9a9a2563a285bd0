package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	Identifier string    `json:"identifier" db:"identifier" example:"20210001"` // Username or student number
	Email      string    `json:"email" db:"email" example:"student@school.edu.tr"`
	Password   string    `json:"-" db:"password"` // Hashed, owned by the account layer
	FirstName  string    `json:"firstName" db:"first_name" example:"John"`
	LastName   string    `json:"lastName" db:"last_name" example:"Doe"`
	RoleType   RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
