package models

import (
	"encoding/json"
	"time"
)

// StudentAssessmentScore is the single score a student holds for an assessment.
type StudentAssessmentScore struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	AssessmentID int64     `json:"assessmentId" db:"assessment_id"`
	Score        float64   `json:"score" db:"score"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// CourseScore is a score row joined with the student's identifier.
type CourseScore struct {
	StudentIdentifier string  `json:"student"`
	AssessmentID      int64   `json:"assessmentId"`
	Score             float64 `json:"score"`
}

// GradeSheet maps a student identifier to that student's raw grade object
// ({"<assessment id>": <score>, ...}). Values stay raw so malformed entries
// can be reported per student instead of rejecting the whole payload.
type GradeSheet map[string]json.RawMessage
