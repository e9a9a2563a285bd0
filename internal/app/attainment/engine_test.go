package attainment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/vineyard/internal/app/attainment"
	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/app/repositories/memory"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
)

// seedCourse creates a course with one assessment, one learning outcome and
// the given scores, linked Assessment->LO with loWeight and LO->PO with poWeight.
func seedCourse(t *testing.T, store *memory.Store, code string, po *models.ProgramOutcome, scores []float64, loWeight, poWeight int) *models.Course {
	t.Helper()
	course := store.AddCourse(code, code+" course")
	a := store.AddAssessment(course.ID, models.AssessmentMidterm)
	lo := store.AddLearningOutcome(course.ID, code+"-L1", "outcome")
	store.LinkAssessment(a.ID, lo.ID, loWeight)
	store.LinkProgramOutcome(lo.ID, po.ID, poWeight)
	for i, s := range scores {
		student := store.AddStudent(code + "-s" + string(rune('a'+i)))
		require.NoError(t, store.UpsertScore(context.Background(), student.ID, a.ID, s))
	}
	return course
}

func TestComputeCourseReport(t *testing.T) {
	store := memory.NewStore()
	p1 := store.AddProgramOutcome("P1", "Engineering knowledge")
	store.AddProgramOutcome("P2", "Teamwork")
	course := seedCourse(t, store, "C", p1, []float64{80, 90}, 5, 3)

	report, err := attainment.NewEngine(store).ComputeCourseReport(context.Background(), course.ID)
	require.NoError(t, err)

	require.Len(t, report.Assessments, 1)
	assert.Equal(t, "Midterm 1", report.Assessments[0].Label)
	assert.Equal(t, 85.0, report.Assessments[0].Average)
	assert.Equal(t, 85.0, report.LearningOutcomes["C-L1"])
	assert.Equal(t, map[string]float64{"P1": 85, "P2": 0}, report.ProgramOutcomes)
}

func TestComputeCourseReportNotFound(t *testing.T) {
	store := memory.NewStore()

	_, err := attainment.NewEngine(store).ComputeCourseReport(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestComputeCourseReportInvalidWeight(t *testing.T) {
	store := memory.NewStore()
	p1 := store.AddProgramOutcome("P1", "")
	course := seedCourse(t, store, "C", p1, []float64{50}, 9, 3)

	_, err := attainment.NewEngine(store).ComputeCourseReport(context.Background(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWeight)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestComputeCourseReportNoScoresOrLinks(t *testing.T) {
	store := memory.NewStore()
	store.AddProgramOutcome("P1", "")
	course := store.AddCourse("C", "Empty")
	store.AddAssessment(course.ID, models.AssessmentProject)
	store.AddLearningOutcome(course.ID, "L1", "unlinked")

	report, err := attainment.NewEngine(store).ComputeCourseReport(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Assessments[0].Average)
	assert.Equal(t, map[string]float64{"L1": 0}, report.LearningOutcomes)
	assert.Equal(t, map[string]float64{"P1": 0}, report.ProgramOutcomes)
}

func TestComputeCourseReportLabelsByCreationOrder(t *testing.T) {
	store := memory.NewStore()
	course := store.AddCourse("C", "Labels")
	first := store.AddAssessment(course.ID, models.AssessmentMidterm)
	project := store.AddAssessment(course.ID, models.AssessmentProject)
	second := store.AddAssessment(course.ID, models.AssessmentMidterm)

	report, err := attainment.NewEngine(store).ComputeCourseReport(context.Background(), course.ID)
	require.NoError(t, err)

	labels := map[int64]string{}
	for _, a := range report.Assessments {
		labels[a.AssessmentID] = a.Label
	}
	assert.Equal(t, map[int64]string{
		first.ID:   "Midterm 1",
		project.ID: "Project 1",
		second.ID:  "Midterm 2",
	}, labels)
}

func TestComputeProgramReportPoolsAcrossCourses(t *testing.T) {
	store := memory.NewStore()
	p1 := store.AddProgramOutcome("P1", "")
	seedCourse(t, store, "A", p1, []float64{80}, 1, 4)
	seedCourse(t, store, "B", p1, []float64{60}, 1, 2)

	report, err := attainment.NewEngine(store).ComputeProgramReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Courses, 2)
	assert.Equal(t, 73.33, report.ProgramOutcomes["P1"])
	assert.NotEqual(t, (80.0+60.0)/2, report.ProgramOutcomes["P1"])

	// Each course keeps its own course-scoped value alongside the pooled one.
	byCode := map[string]float64{}
	for _, c := range report.Courses {
		byCode[c.CourseCode] = c.ProgramOutcomes["P1"]
	}
	assert.Equal(t, map[string]float64{"A": 80, "B": 60}, byCode)
}

func TestComputeProgramReportMatchesSplitPooling(t *testing.T) {
	store := memory.NewStore()
	p1 := store.AddProgramOutcome("P1", "")
	p2 := store.AddProgramOutcome("P2", "")
	a := seedCourse(t, store, "A", p1, []float64{71, 88, 93}, 2, 5)
	b := seedCourse(t, store, "B", p1, []float64{45, 67}, 4, 1)
	lo := store.AddLearningOutcome(b.ID, "B-L2", "")
	store.LinkProgramOutcome(lo.ID, p2.ID, 3)

	engine := attainment.NewEngine(store)
	whole, err := engine.ComputeProgramReport(context.Background())
	require.NoError(t, err)

	ra, err := engine.ComputeCourseReport(context.Background(), a.ID)
	require.NoError(t, err)
	rb, err := engine.ComputeCourseReport(context.Background(), b.ID)
	require.NoError(t, err)

	pos, err := store.ListProgramOutcomes(context.Background())
	require.NoError(t, err)
	forward, err := attainment.ProgramOutcomeScores(attainment.ModeProgram, []*attainment.CourseReport{ra, rb}, pos)
	require.NoError(t, err)
	backward, err := attainment.ProgramOutcomeScores(attainment.ModeProgram, []*attainment.CourseReport{rb, ra}, pos)
	require.NoError(t, err)

	assert.Equal(t, whole.ProgramOutcomes, forward)
	assert.Equal(t, forward, backward)
	assert.Equal(t, 0.0, whole.ProgramOutcomes["P2"])
}

func TestComputeProgramReportAfterOutcomeDeletion(t *testing.T) {
	store := memory.NewStore()
	p1 := store.AddProgramOutcome("P1", "")
	p2 := store.AddProgramOutcome("P2", "")
	course := seedCourse(t, store, "A", p1, []float64{70}, 1, 1)
	los, err := store.ListLearningOutcomes(context.Background(), course.ID)
	require.NoError(t, err)
	store.LinkProgramOutcome(los[0].ID, p2.ID, 2)

	store.DeleteProgramOutcome(p2.ID)

	report, err := attainment.NewEngine(store).ComputeProgramReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"P1": 70}, report.ProgramOutcomes)
}
