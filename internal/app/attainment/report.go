package attainment

import (
	"fmt"

	"github.com/yigit/vineyard/internal/app/models"
)

// Mode selects how program outcome scores are aggregated.
type Mode int

const (
	// ModeCourse averages over the learning outcomes of a single course.
	ModeCourse Mode = iota
	// ModeProgram pools numerators and denominators across all courses.
	ModeProgram
)

func (m Mode) String() string {
	switch m {
	case ModeCourse:
		return "course"
	case ModeProgram:
		return "program"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// AssessmentResult is one assessment's average with its per-course label.
type AssessmentResult struct {
	AssessmentID int64
	Type         models.AssessmentType
	Label        string // "Midterm 2"
	Average      float64
}

// CourseReport is the course-scoped rollup.
type CourseReport struct {
	CourseID         int64
	CourseCode       string
	CourseName       string
	Assessments      []AssessmentResult // Creation order
	LearningOutcomes map[string]float64 // By LO code
	ProgramOutcomes  map[string]float64 // By PO code, course-scoped mode

	pool Pool // LO->PO numerators and denominators, pooled in ModeProgram
}

// ProgramReport is the program-wide rollup.
type ProgramReport struct {
	Courses         []*CourseReport
	ProgramOutcomes map[string]float64 // By PO code, program-wide mode
}

// AssessmentLabels numbers assessments per type in the given order:
// the second midterm becomes "Midterm 2".
func AssessmentLabels(assessments []*models.Assessment) map[int64]string {
	counters := make(map[models.AssessmentType]int)
	labels := make(map[int64]string, len(assessments))
	for _, a := range assessments {
		counters[a.Type]++
		labels[a.ID] = fmt.Sprintf("%s %d", a.Type.DisplayName(), counters[a.Type])
	}
	return labels
}

// LearningOutcomeScores computes every course LO score from the assessment
// averages. Links to learning outcomes outside the course are ignored.
func LearningOutcomeScores(cg *CourseGraph, averages map[int64]float64) map[int64]float64 {
	sums := make(map[int64]*WeightedSum, len(cg.LearningOutcomes))
	for _, lo := range cg.LearningOutcomes {
		sums[lo.ID] = &WeightedSum{}
	}

	for _, a := range cg.Assessments {
		for _, link := range cg.AssessmentLinks[a.ID] {
			sum, ok := sums[link.LearningOutcomeID]
			if !ok {
				continue
			}
			sum.Add(averages[a.ID], link.Weight)
		}
	}

	scores := make(map[int64]float64, len(sums))
	for id, sum := range sums {
		scores[id] = sum.Rounded()
	}
	return scores
}

// BuildCourseReport runs the three-stage rollup for one course. programOutcomes
// lists every PO so that unlinked outcomes report 0.
func BuildCourseReport(cg *CourseGraph, programOutcomes []*models.ProgramOutcome) *CourseReport {
	report := &CourseReport{
		CourseID:         cg.Course.ID,
		CourseCode:       cg.Course.Code,
		CourseName:       cg.Course.Name,
		Assessments:      make([]AssessmentResult, 0, len(cg.Assessments)),
		LearningOutcomes: make(map[string]float64, len(cg.LearningOutcomes)),
		pool:             make(Pool),
	}

	labels := AssessmentLabels(cg.Assessments)
	averages := make(map[int64]float64, len(cg.Assessments))
	for _, a := range cg.Assessments {
		avg := AssessmentAverage(cg.Scores[a.ID])
		averages[a.ID] = avg
		report.Assessments = append(report.Assessments, AssessmentResult{
			AssessmentID: a.ID,
			Type:         a.Type,
			Label:        labels[a.ID],
			Average:      avg,
		})
	}

	loScores := LearningOutcomeScores(cg, averages)
	for _, lo := range cg.LearningOutcomes {
		score := loScores[lo.ID]
		report.LearningOutcomes[lo.Code] = score
		for _, link := range cg.OutcomeLinks[lo.ID] {
			report.pool.Add(link.ProgramOutcomeCode, score, link.Weight)
		}
	}

	report.ProgramOutcomes = report.pool.Scores(outcomeCodes(programOutcomes))
	return report
}

// BuildProgramReport runs the course rollup for every course and pools the
// LO->PO contributions into one weighted mean per program outcome.
func BuildProgramReport(g *Graph) *ProgramReport {
	report := &ProgramReport{Courses: make([]*CourseReport, 0, len(g.Courses))}
	for _, cg := range g.Courses {
		report.Courses = append(report.Courses, BuildCourseReport(cg, g.ProgramOutcomes))
	}
	// ModeProgram accepts any number of courses, so there is no error to handle.
	report.ProgramOutcomes, _ = ProgramOutcomeScores(ModeProgram, report.Courses, g.ProgramOutcomes)
	return report
}

// ProgramOutcomeScores computes PO scores for the given course rollups in the
// requested mode. ModeCourse requires exactly one course.
func ProgramOutcomeScores(mode Mode, reports []*CourseReport, programOutcomes []*models.ProgramOutcome) (map[string]float64, error) {
	codes := outcomeCodes(programOutcomes)
	switch mode {
	case ModeCourse:
		if len(reports) != 1 {
			return nil, fmt.Errorf("course mode needs exactly one course, got %d", len(reports))
		}
		return reports[0].pool.Scores(codes), nil
	case ModeProgram:
		pooled := make(Pool)
		for _, r := range reports {
			pooled.Merge(r.pool)
		}
		return pooled.Scores(codes), nil
	default:
		return nil, fmt.Errorf("unknown aggregation mode %s", mode)
	}
}

func outcomeCodes(pos []*models.ProgramOutcome) []string {
	codes := make([]string, 0, len(pos))
	for _, po := range pos {
		codes = append(codes, po.Code)
	}
	return codes
}
