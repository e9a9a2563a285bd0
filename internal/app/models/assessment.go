package models

import (
	"sort"
	"strings"
	"time"
)

// AssessmentType is the closed set of gradable course components.
type AssessmentType string

const (
	AssessmentMidterm    AssessmentType = "midterm"
	AssessmentProject    AssessmentType = "project"
	AssessmentFinal      AssessmentType = "final"
	AssessmentAssignment AssessmentType = "assignment"
)

var assessmentDisplayNames = map[AssessmentType]string{
	AssessmentMidterm:    "Midterm",
	AssessmentProject:    "Project",
	AssessmentFinal:      "Final",
	AssessmentAssignment: "Assignment",
}

// IsValid checks the type against the closed set.
func (t AssessmentType) IsValid() bool {
	_, ok := assessmentDisplayNames[t]
	return ok
}

// DisplayName returns the human-readable name ("Midterm").
func (t AssessmentType) DisplayName() string {
	if name, ok := assessmentDisplayNames[t]; ok {
		return name
	}
	if t == "" {
		return "Assessment"
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Assessment is a gradable component of a course.
type Assessment struct {
	ID        int64          `json:"id" db:"id"`
	CourseID  int64          `json:"courseId" db:"course_id"`
	Type      AssessmentType `json:"type" db:"type"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

// SortByCreation orders assessments by creation time, falling back to id for ties.
func SortByCreation(assessments []*Assessment) {
	sort.SliceStable(assessments, func(i, j int) bool {
		a, b := assessments[i], assessments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
