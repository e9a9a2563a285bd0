package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	OutcomeGraphRepository *OutcomeGraphRepository
	ScoreRepository        *ScoreRepository
	UserRepository         *UserRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		OutcomeGraphRepository: NewOutcomeGraphRepository(db),
		ScoreRepository:        NewScoreRepository(db),
		UserRepository:         NewUserRepository(db),
	}
}
