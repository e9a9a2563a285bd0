package dto

import (
	"github.com/yigit/vineyard/internal/app/models"
)

// IngestGradesRequest carries grades keyed by student identifier, then by
// assessment ID. A missing or null sheet is rejected by the grade service
// once the course is known to exist.
type IngestGradesRequest struct {
	Grades models.GradeSheet `json:"grades" swaggertype:"object"`
}

// SavedGradeResponse is one upserted score.
type SavedGradeResponse struct {
	Student      string  `json:"student" example:"20210001"`
	AssessmentID int64   `json:"assessmentId" example:"3"`
	Score        float64 `json:"score" example:"85"`
}

// IngestGradesResponse lists saved scores and per-entry errors.
type IngestGradesResponse struct {
	Saved  []SavedGradeResponse `json:"saved"`
	Errors []string             `json:"errors" example:"20210099: student not found"`
}

// CourseGradesResponse maps student identifier -> assessment ID -> score.
type CourseGradesResponse map[string]map[string]float64
