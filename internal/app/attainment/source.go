// Package attainment rolls per-student assessment scores up into learning
// outcome and program outcome attainment.
//
// The rollup has three stages: assessment averages, learning outcome weighted
// means over Assessment->LO edges, and program outcome weighted means over
// LO->PO edges. Every edge weight is an integer in [1,5]; a missing edge or a
// zero weight contributes nothing.
package attainment

import (
	"context"

	"github.com/yigit/vineyard/internal/app/models"
)

// Source is the read side of the outcome graph and the score store.
// Implementations must return ErrCourseNotFound (wrapped or not) from GetCourse
// when the course does not exist.
type Source interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
	ListAssessments(ctx context.Context, courseID int64) ([]*models.Assessment, error)
	ListLearningOutcomes(ctx context.Context, courseID int64) ([]*models.LearningOutcome, error)
	ListProgramOutcomes(ctx context.Context) ([]*models.ProgramOutcome, error)
	ListScoresFor(ctx context.Context, assessmentID int64) ([]*models.StudentAssessmentScore, error)
	ListLOtoPOEdges(ctx context.Context, learningOutcomeID int64) ([]models.ProgramOutcomeLink, error)
	ListAssessmentToLOEdges(ctx context.Context, assessmentID int64) ([]models.LearningOutcomeLink, error)
}
