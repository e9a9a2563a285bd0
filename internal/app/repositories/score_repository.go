package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/pkg/logger"
)

// ScoreRepository writes and lists student assessment scores
type ScoreRepository struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewScoreRepository creates a new ScoreRepository over a pool or a transaction
func NewScoreRepository(db Querier) *ScoreRepository {
	return &ScoreRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertScore stores the score for (student, assessment), overwriting any
// previous value. Concurrent writers to the same pair resolve last-write-wins.
func (r *ScoreRepository) UpsertScore(ctx context.Context, studentID, assessmentID int64, score float64) error {
	sql, args, err := r.sb.Insert("student_assessment_scores").
		Columns("student_id", "assessment_id", "score").
		Values(studentID, assessmentID, score).
		Suffix("ON CONFLICT (student_id, assessment_id) DO UPDATE SET score = EXCLUDED.score, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert score SQL")
		return fmt.Errorf("failed to build upsert score query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("assessmentID", assessmentID).
			Msg("Error executing upsert score query")
		return fmt.Errorf("error upserting score: %w", err)
	}
	return nil
}

// ListCourseScores lists every score on a course's assessments keyed by the
// student's identifier
func (r *ScoreRepository) ListCourseScores(ctx context.Context, courseID int64) ([]models.CourseScore, error) {
	sql, args, err := r.sb.Select("u.identifier", "s.assessment_id", "s.score").
		From("student_assessment_scores s").
		Join("assessments a ON a.id = s.assessment_id").
		Join("users u ON u.id = s.student_id").
		Where(squirrel.Eq{"a.course_id": courseID}).
		OrderBy("u.identifier ASC", "s.assessment_id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list course scores SQL")
		return nil, fmt.Errorf("failed to build list course scores query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list course scores query")
		return nil, fmt.Errorf("error querying course scores: %w", err)
	}
	defer rows.Close()

	scores := []models.CourseScore{}
	for rows.Next() {
		var s models.CourseScore
		if err := rows.Scan(&s.StudentIdentifier, &s.AssessmentID, &s.Score); err != nil {
			logger.Error().Err(err).Msg("Error scanning course score row")
			return nil, fmt.Errorf("error scanning course score row: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course score rows: %w", err)
	}
	return scores, nil
}
