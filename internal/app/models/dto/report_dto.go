package dto

import (
	"strconv"

	"github.com/yigit/vineyard/internal/app/attainment"
)

// AssessmentSummary is one assessment's average with its display label.
type AssessmentSummary struct {
	Label   string  `json:"label" example:"Midterm 2"`
	Type    string  `json:"type" example:"midterm"`
	Average float64 `json:"average" example:"85"`
}

// CourseReportResponse is the course-scoped attainment report.
type CourseReportResponse struct {
	CourseID                   int64                        `json:"courseId" example:"1"`
	CourseCode                 string                       `json:"courseCode" example:"SE101"`
	CourseName                 string                       `json:"courseName" example:"Introduction to Software Engineering"`
	Assessments                map[string]AssessmentSummary `json:"assessments"`
	LearningOutcomes           map[string]float64           `json:"learningOutcomes"`
	ProgramOutcomeContribution map[string]float64           `json:"programOutcomeContribution"`
}

// ProgramReportResponse holds every course report and the pooled program outcomes.
type ProgramReportResponse struct {
	Reports         []CourseReportResponse `json:"reports"`
	ProgramOutcomes map[string]float64     `json:"programOutcomes"`
}

// NewCourseReportResponse converts an engine report. Assessments are keyed by
// their decimal ID.
func NewCourseReportResponse(r *attainment.CourseReport) CourseReportResponse {
	resp := CourseReportResponse{
		CourseID:                   r.CourseID,
		CourseCode:                 r.CourseCode,
		CourseName:                 r.CourseName,
		Assessments:                make(map[string]AssessmentSummary, len(r.Assessments)),
		LearningOutcomes:           r.LearningOutcomes,
		ProgramOutcomeContribution: r.ProgramOutcomes,
	}
	for _, a := range r.Assessments {
		resp.Assessments[strconv.FormatInt(a.AssessmentID, 10)] = AssessmentSummary{
			Label:   a.Label,
			Type:    string(a.Type),
			Average: a.Average,
		}
	}
	return resp
}

// NewProgramReportResponse converts a program-wide engine report.
func NewProgramReportResponse(r *attainment.ProgramReport) ProgramReportResponse {
	resp := ProgramReportResponse{
		Reports:         make([]CourseReportResponse, 0, len(r.Courses)),
		ProgramOutcomes: r.ProgramOutcomes,
	}
	for _, c := range r.Courses {
		resp.Reports = append(resp.Reports, NewCourseReportResponse(c))
	}
	return resp
}
