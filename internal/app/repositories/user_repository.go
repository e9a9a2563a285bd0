package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
	"github.com/yigit/vineyard/internal/pkg/logger"
)

// UserRepository handles user lookups
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetStudentByIdentifier retrieves a user with the STUDENT role by identifier
func (r *UserRepository) GetStudentByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "identifier", "email", "first_name", "last_name", "role_type", "created_at").
		From("users").
		Where(squirrel.Eq{"identifier": identifier, "role_type": models.RoleStudent}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	u := &models.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.Identifier, &u.Email, &u.FirstName, &u.LastName, &u.RoleType, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("identifier", identifier).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by identifier: %w", err)
	}
	return u, nil
}
