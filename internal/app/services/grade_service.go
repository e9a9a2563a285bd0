package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
)

// CourseReader resolves a course and its assessments.
type CourseReader interface {
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
	ListAssessments(ctx context.Context, courseID int64) ([]*models.Assessment, error)
}

// StudentFinder resolves a user with the STUDENT role by identifier.
type StudentFinder interface {
	GetStudentByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// ScoreStore writes and lists student assessment scores.
type ScoreStore interface {
	UpsertScore(ctx context.Context, studentID, assessmentID int64, score float64) error
	ListCourseScores(ctx context.Context, courseID int64) ([]models.CourseScore, error)
}

// SavedGrade is one upserted score.
type SavedGrade struct {
	Student      string  `json:"student"`
	AssessmentID int64   `json:"assessmentId"`
	Score        float64 `json:"score"`
}

// IngestResult lists what was saved and an itemized error per rejected entry.
type IngestResult struct {
	Saved  []SavedGrade `json:"saved"`
	Errors []string     `json:"errors"`
}

// CourseGrades maps student identifier -> assessment ID -> score.
type CourseGrades map[string]map[int64]float64

// GradeService defines the interface for grade operations
type GradeService interface {
	IngestGrades(ctx context.Context, courseID int64, grades models.GradeSheet) (*IngestResult, error)
	ListCourseGrades(ctx context.Context, courseID int64) (CourseGrades, error)
}

// gradeServiceImpl implements the GradeService interface
type gradeServiceImpl struct {
	courses  CourseReader
	students StudentFinder
	scores   ScoreStore
	logger   zerolog.Logger
}

// NewGradeService creates a new grade service instance
func NewGradeService(courses CourseReader, students StudentFinder, scores ScoreStore, logger zerolog.Logger) GradeService {
	return &gradeServiceImpl{
		courses:  courses,
		students: students,
		scores:   scores,
		logger:   logger,
	}
}

// IngestGrades upserts every valid (student, assessment, score) entry and
// reports each invalid one without aborting the rest. Only a missing course,
// a nil sheet or a storage failure abort the whole call.
func (s *gradeServiceImpl) IngestGrades(ctx context.Context, courseID int64, grades models.GradeSheet) (*IngestResult, error) {
	if _, err := s.courses.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if grades == nil {
		return nil, apperrors.ErrInvalidGradePayload
	}

	assessments, err := s.courses.ListAssessments(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing assessments of course %d: %w", courseID, err)
	}
	inCourse := make(map[int64]bool, len(assessments))
	for _, a := range assessments {
		inCourse[a.ID] = true
	}

	result := &IngestResult{Saved: []SavedGrade{}, Errors: []string{}}

	for _, identifier := range sortedKeys(grades) {
		student, err := s.students.GetStudentByIdentifier(ctx, identifier)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: student not found", identifier))
				continue
			}
			return nil, err
		}

		entries, ok := decodeGradeObject(grades[identifier])
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: grades must be an object", identifier))
			continue
		}

		for _, key := range sortedKeys(entries) {
			assessmentID, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: invalid assessment id", identifier))
				continue
			}
			if !inCourse[assessmentID] {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: assessment %d not in course", identifier, assessmentID))
				continue
			}
			score, ok := parseScore(entries[key])
			if !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: invalid score for assessment %d", identifier, assessmentID))
				continue
			}

			if err := s.scores.UpsertScore(ctx, student.ID, assessmentID, score); err != nil {
				return nil, fmt.Errorf("error saving score of %s for assessment %d: %w", identifier, assessmentID, err)
			}
			result.Saved = append(result.Saved, SavedGrade{
				Student:      identifier,
				AssessmentID: assessmentID,
				Score:        score,
			})
		}
	}

	s.logger.Info().
		Int64("courseID", courseID).
		Int("saved", len(result.Saved)).
		Int("errors", len(result.Errors)).
		Msg("Grades ingested")
	return result, nil
}

// ListCourseGrades returns every stored score on the course's assessments.
func (s *gradeServiceImpl) ListCourseGrades(ctx context.Context, courseID int64) (CourseGrades, error) {
	if _, err := s.courses.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	rows, err := s.scores.ListCourseScores(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing scores of course %d: %w", courseID, err)
	}

	grades := make(CourseGrades)
	for _, row := range rows {
		byAssessment, ok := grades[row.StudentIdentifier]
		if !ok {
			byAssessment = make(map[int64]float64)
			grades[row.StudentIdentifier] = byAssessment
		}
		byAssessment[row.AssessmentID] = row.Score
	}
	return grades, nil
}

// decodeGradeObject accepts only a JSON object; null, arrays and scalars are rejected.
func decodeGradeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// parseScore accepts a JSON number or a numeric string. The result must be
// finite and non-negative.
func parseScore(raw json.RawMessage) (float64, bool) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		value, err = strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	return value, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
