package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/vineyard/internal/app/attainment"
	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/db"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
	"github.com/yigit/vineyard/internal/pkg/logger"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OutcomeGraphRepository reads courses, outcomes, assessments, their weighted
// links and scores. It implements attainment.Source.
type OutcomeGraphRepository struct {
	pool *pgxpool.Pool
	q    Querier
	sb   squirrel.StatementBuilderType
}

// NewOutcomeGraphRepository creates a new OutcomeGraphRepository
func NewOutcomeGraphRepository(pool *pgxpool.Pool) *OutcomeGraphRepository {
	return &OutcomeGraphRepository{
		pool: pool,
		q:    pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// withTx returns a copy of the repository bound to tx.
func (r *OutcomeGraphRepository) withTx(tx pgx.Tx) *OutcomeGraphRepository {
	return &OutcomeGraphRepository{pool: r.pool, q: tx, sb: r.sb}
}

// ReadSnapshot runs fn against a read-only repeatable-read transaction so every
// read fn makes sees the same point in time.
func (r *OutcomeGraphRepository) ReadSnapshot(ctx context.Context, fn func(ctx context.Context, src attainment.Source) error) error {
	return db.RunInTx(ctx, r.pool, db.SnapshotTxOptions, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, r.withTx(tx))
	})
}

// ListCourses retrieves all courses ordered by code
func (r *OutcomeGraphRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name", "created_by", "created_at").
		From("courses").
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c := &models.Course{}
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.CreatedByID, &c.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a course by ID
func (r *OutcomeGraphRepository) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name", "created_by", "created_at").
		From("courses").
		Where(squirrel.Eq{"id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	c := &models.Course{}
	err = r.q.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Code, &c.Name, &c.CreatedByID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return c, nil
}

// ListAssessments retrieves a course's assessments in creation order
func (r *OutcomeGraphRepository) ListAssessments(ctx context.Context, courseID int64) ([]*models.Assessment, error) {
	sql, args, err := r.sb.Select("id", "course_id", "type", "created_at").
		From("assessments").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list assessments SQL")
		return nil, fmt.Errorf("failed to build list assessments query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list assessments query")
		return nil, fmt.Errorf("error querying assessments: %w", err)
	}
	defer rows.Close()

	assessments := []*models.Assessment{}
	for rows.Next() {
		a := &models.Assessment{}
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Type, &a.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning assessment row")
			return nil, fmt.Errorf("error scanning assessment row: %w", err)
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment rows: %w", err)
	}
	return assessments, nil
}

// ListLearningOutcomes retrieves a course's learning outcomes
func (r *OutcomeGraphRepository) ListLearningOutcomes(ctx context.Context, courseID int64) ([]*models.LearningOutcome, error) {
	sql, args, err := r.sb.Select("id", "course_id", "code", "description").
		From("learning_outcomes").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list learning outcomes SQL")
		return nil, fmt.Errorf("failed to build list learning outcomes query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list learning outcomes query")
		return nil, fmt.Errorf("error querying learning outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []*models.LearningOutcome{}
	for rows.Next() {
		lo := &models.LearningOutcome{}
		if err := rows.Scan(&lo.ID, &lo.CourseID, &lo.Code, &lo.Description); err != nil {
			logger.Error().Err(err).Msg("Error scanning learning outcome row")
			return nil, fmt.Errorf("error scanning learning outcome row: %w", err)
		}
		outcomes = append(outcomes, lo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learning outcome rows: %w", err)
	}
	return outcomes, nil
}

// ListProgramOutcomes retrieves all program outcomes ordered by code
func (r *OutcomeGraphRepository) ListProgramOutcomes(ctx context.Context) ([]*models.ProgramOutcome, error) {
	sql, args, err := r.sb.Select("id", "code", "description").
		From("program_outcomes").
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list program outcomes SQL")
		return nil, fmt.Errorf("failed to build list program outcomes query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list program outcomes query")
		return nil, fmt.Errorf("error querying program outcomes: %w", err)
	}
	defer rows.Close()

	pos := []*models.ProgramOutcome{}
	for rows.Next() {
		po := &models.ProgramOutcome{}
		if err := rows.Scan(&po.ID, &po.Code, &po.Description); err != nil {
			logger.Error().Err(err).Msg("Error scanning program outcome row")
			return nil, fmt.Errorf("error scanning program outcome row: %w", err)
		}
		pos = append(pos, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating program outcome rows: %w", err)
	}
	return pos, nil
}

// ListScoresFor retrieves every student score recorded for an assessment
func (r *OutcomeGraphRepository) ListScoresFor(ctx context.Context, assessmentID int64) ([]*models.StudentAssessmentScore, error) {
	sql, args, err := r.sb.Select("id", "student_id", "assessment_id", "score", "updated_at").
		From("student_assessment_scores").
		Where(squirrel.Eq{"assessment_id": assessmentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list scores SQL")
		return nil, fmt.Errorf("failed to build list scores query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("assessmentID", assessmentID).Msg("Error executing list scores query")
		return nil, fmt.Errorf("error querying scores: %w", err)
	}
	defer rows.Close()

	scores := []*models.StudentAssessmentScore{}
	for rows.Next() {
		s := &models.StudentAssessmentScore{}
		if err := rows.Scan(&s.ID, &s.StudentID, &s.AssessmentID, &s.Score, &s.UpdatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning score row")
			return nil, fmt.Errorf("error scanning score row: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score rows: %w", err)
	}
	return scores, nil
}

// ListLOtoPOEdges retrieves the weighted program outcome links of a learning outcome
func (r *OutcomeGraphRepository) ListLOtoPOEdges(ctx context.Context, learningOutcomeID int64) ([]models.ProgramOutcomeLink, error) {
	sql, args, err := r.sb.Select("plo.learning_outcome_id", "plo.program_outcome_id", "po.code", "plo.weight").
		From("program_learning_outcomes plo").
		Join("program_outcomes po ON po.id = plo.program_outcome_id").
		Where(squirrel.Eq{"plo.learning_outcome_id": learningOutcomeID}).
		OrderBy("po.code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list program outcome links SQL")
		return nil, fmt.Errorf("failed to build list program outcome links query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("learningOutcomeID", learningOutcomeID).Msg("Error executing list program outcome links query")
		return nil, fmt.Errorf("error querying program outcome links: %w", err)
	}
	defer rows.Close()

	links := []models.ProgramOutcomeLink{}
	for rows.Next() {
		var l models.ProgramOutcomeLink
		if err := rows.Scan(&l.LearningOutcomeID, &l.ProgramOutcomeID, &l.ProgramOutcomeCode, &l.Weight); err != nil {
			logger.Error().Err(err).Msg("Error scanning program outcome link row")
			return nil, fmt.Errorf("error scanning program outcome link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating program outcome link rows: %w", err)
	}
	return links, nil
}

// ListAssessmentToLOEdges retrieves the weighted learning outcome links of an assessment
func (r *OutcomeGraphRepository) ListAssessmentToLOEdges(ctx context.Context, assessmentID int64) ([]models.LearningOutcomeLink, error) {
	sql, args, err := r.sb.Select("assessment_id", "learning_outcome_id", "weight").
		From("assessment_learning_outcomes").
		Where(squirrel.Eq{"assessment_id": assessmentID}).
		OrderBy("learning_outcome_id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list learning outcome links SQL")
		return nil, fmt.Errorf("failed to build list learning outcome links query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("assessmentID", assessmentID).Msg("Error executing list learning outcome links query")
		return nil, fmt.Errorf("error querying learning outcome links: %w", err)
	}
	defer rows.Close()

	links := []models.LearningOutcomeLink{}
	for rows.Next() {
		var l models.LearningOutcomeLink
		if err := rows.Scan(&l.AssessmentID, &l.LearningOutcomeID, &l.Weight); err != nil {
			logger.Error().Err(err).Msg("Error scanning learning outcome link row")
			return nil, fmt.Errorf("error scanning learning outcome link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learning outcome link rows: %w", err)
	}
	return links, nil
}
