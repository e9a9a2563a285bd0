package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
	"github.com/yigit/vineyard/internal/pkg/dberrors"
	"github.com/yigit/vineyard/internal/pkg/logger"
)

// CatalogRepository inserts outcome graph entities. It is bound to a Querier
// so a whole seed can run inside one transaction.
type CatalogRepository struct {
	q  Querier
	sb squirrel.StatementBuilderType
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(q Querier) *CatalogRepository {
	return &CatalogRepository{
		q:  q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // 23505 is unique_violation
}

func (r *CatalogRepository) insertReturningID(ctx context.Context, what string, b squirrel.InsertBuilder) (int64, error) {
	sql, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error building insert SQL")
		return 0, fmt.Errorf("failed to build create %s query: %w", what, err)
	}

	var id int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isDuplicateKeyError(err) {
			return 0, fmt.Errorf("%s: %w", what, apperrors.ErrResourceAlreadyExists)
		}
		logger.Error().Err(err).Str("entity", what).Msg("Error executing insert query")
		return 0, fmt.Errorf("error creating %s: %w", what, err)
	}
	return id, nil
}

// CreateUser inserts a user and returns its ID. The password must already be hashed.
func (r *CatalogRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("identifier", "email", "password", "first_name", "last_name", "role_type").
		Values(user.Identifier, user.Email, user.Password, user.FirstName, user.LastName, user.RoleType).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_identifier_key", "users_email_key") {
			logger.Warn().Str("identifier", user.Identifier).Msg("Attempted to create user with duplicate identifier or email")
			return 0, fmt.Errorf("user: %w", apperrors.ErrResourceAlreadyExists)
		}
		logger.Error().Err(err).Str("identifier", user.Identifier).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// CreateCourse inserts a course
func (r *CatalogRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	return r.insertReturningID(ctx, "course", r.sb.Insert("courses").
		Columns("code", "name", "created_by").
		Values(course.Code, course.Name, course.CreatedByID))
}

// CreateProgramOutcome inserts a program outcome
func (r *CatalogRepository) CreateProgramOutcome(ctx context.Context, po *models.ProgramOutcome) (int64, error) {
	return r.insertReturningID(ctx, "program outcome", r.sb.Insert("program_outcomes").
		Columns("code", "description").
		Values(po.Code, po.Description))
}

// CreateLearningOutcome inserts a learning outcome
func (r *CatalogRepository) CreateLearningOutcome(ctx context.Context, lo *models.LearningOutcome) (int64, error) {
	return r.insertReturningID(ctx, "learning outcome", r.sb.Insert("learning_outcomes").
		Columns("course_id", "code", "description").
		Values(lo.CourseID, lo.Code, lo.Description))
}

// CreateAssessment inserts an assessment
func (r *CatalogRepository) CreateAssessment(ctx context.Context, a *models.Assessment) (int64, error) {
	if !a.Type.IsValid() {
		return 0, fmt.Errorf("%w: unknown assessment type %q", apperrors.ErrValidationFailed, a.Type)
	}
	return r.insertReturningID(ctx, "assessment", r.sb.Insert("assessments").
		Columns("course_id", "type").
		Values(a.CourseID, a.Type))
}

// LinkAssessment adds a weighted Assessment -> LO edge
func (r *CatalogRepository) LinkAssessment(ctx context.Context, link models.LearningOutcomeLink) error {
	if link.Weight < models.MinLinkWeight || link.Weight > models.MaxLinkWeight {
		return apperrors.ErrInvalidWeight
	}
	_, err := r.insertReturningID(ctx, "assessment link", r.sb.Insert("assessment_learning_outcomes").
		Columns("assessment_id", "learning_outcome_id", "weight").
		Values(link.AssessmentID, link.LearningOutcomeID, link.Weight))
	return err
}

// LinkProgramOutcome adds a weighted LO -> PO edge
func (r *CatalogRepository) LinkProgramOutcome(ctx context.Context, link models.ProgramOutcomeLink) error {
	if link.Weight < models.MinLinkWeight || link.Weight > models.MaxLinkWeight {
		return apperrors.ErrInvalidWeight
	}
	_, err := r.insertReturningID(ctx, "program outcome link", r.sb.Insert("program_learning_outcomes").
		Columns("program_outcome_id", "learning_outcome_id", "weight").
		Values(link.ProgramOutcomeID, link.LearningOutcomeID, link.Weight))
	return err
}
