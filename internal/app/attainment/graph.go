package attainment

import (
	"context"
	"fmt"

	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
)

// CourseGraph is the slice of the outcome graph and score store a single
// course rollup reads.
type CourseGraph struct {
	Course           *models.Course
	Assessments      []*models.Assessment // Creation order
	LearningOutcomes []*models.LearningOutcome
	Scores           map[int64][]float64                    // By assessment ID
	AssessmentLinks  map[int64][]models.LearningOutcomeLink // By assessment ID
	OutcomeLinks     map[int64][]models.ProgramOutcomeLink  // By learning outcome ID
}

// Graph is a whole-program view: every program outcome and every course.
type Graph struct {
	ProgramOutcomes []*models.ProgramOutcome
	Courses         []*CourseGraph
}

// LoadCourseGraph reads everything the rollup needs for one course.
func LoadCourseGraph(ctx context.Context, src Source, course *models.Course) (*CourseGraph, error) {
	cg := &CourseGraph{
		Course:          course,
		Scores:          make(map[int64][]float64),
		AssessmentLinks: make(map[int64][]models.LearningOutcomeLink),
		OutcomeLinks:    make(map[int64][]models.ProgramOutcomeLink),
	}

	assessments, err := src.ListAssessments(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing assessments of course %d: %w", course.ID, err)
	}
	models.SortByCreation(assessments)
	cg.Assessments = assessments

	for _, a := range assessments {
		scores, err := src.ListScoresFor(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing scores of assessment %d: %w", a.ID, err)
		}
		values := make([]float64, 0, len(scores))
		for _, s := range scores {
			values = append(values, s.Score)
		}
		cg.Scores[a.ID] = values

		links, err := src.ListAssessmentToLOEdges(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing learning outcome links of assessment %d: %w", a.ID, err)
		}
		for _, l := range links {
			if !models.IsValidLinkWeight(l.Weight) {
				return nil, fmt.Errorf("%w: assessment %d -> learning outcome %d has weight %d",
					apperrors.ErrInvalidWeight, l.AssessmentID, l.LearningOutcomeID, l.Weight)
			}
		}
		cg.AssessmentLinks[a.ID] = links
	}

	outcomes, err := src.ListLearningOutcomes(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing learning outcomes of course %d: %w", course.ID, err)
	}
	cg.LearningOutcomes = outcomes

	for _, lo := range outcomes {
		links, err := src.ListLOtoPOEdges(ctx, lo.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing program outcome links of learning outcome %d: %w", lo.ID, err)
		}
		for _, l := range links {
			if !models.IsValidLinkWeight(l.Weight) {
				return nil, fmt.Errorf("%w: learning outcome %d -> program outcome %s has weight %d",
					apperrors.ErrInvalidWeight, l.LearningOutcomeID, l.ProgramOutcomeCode, l.Weight)
			}
		}
		cg.OutcomeLinks[lo.ID] = links
	}

	return cg, nil
}

// LoadGraph reads every course and program outcome.
func LoadGraph(ctx context.Context, src Source) (*Graph, error) {
	pos, err := src.ListProgramOutcomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing program outcomes: %w", err)
	}

	courses, err := src.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	g := &Graph{ProgramOutcomes: pos, Courses: make([]*CourseGraph, 0, len(courses))}
	for _, c := range courses {
		cg, err := LoadCourseGraph(ctx, src, c)
		if err != nil {
			return nil, err
		}
		g.Courses = append(g.Courses, cg)
	}
	return g, nil
}
