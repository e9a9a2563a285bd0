// Package memory is an in-process outcome graph and score store used by
// tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/vineyard/internal/app/attainment"
	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
)

type scoreKey struct {
	studentID    int64
	assessmentID int64
}

// tables holds the data; its methods do no locking.
type tables struct {
	seq int64

	courses          map[int64]*models.Course
	programOutcomes  map[int64]*models.ProgramOutcome
	learningOutcomes map[int64]*models.LearningOutcome
	assessments      map[int64]*models.Assessment
	users            map[int64]*models.User
	scores           map[scoreKey]*models.StudentAssessmentScore
	loLinks          []models.ProgramOutcomeLink
	assessmentLinks  []models.LearningOutcomeLink
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	t  *tables
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{t: &tables{
		courses:          make(map[int64]*models.Course),
		programOutcomes:  make(map[int64]*models.ProgramOutcome),
		learningOutcomes: make(map[int64]*models.LearningOutcome),
		assessments:      make(map[int64]*models.Assessment),
		users:            make(map[int64]*models.User),
		scores:           make(map[scoreKey]*models.StudentAssessmentScore),
	}}
}

func (t *tables) nextID() int64 {
	t.seq++
	return t.seq
}

// --- Writers used to build fixtures ---

// AddCourse stores a course and returns it with its ID set.
func (s *Store) AddCourse(code, name string) *models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Course{ID: s.t.nextID(), Code: code, Name: name, CreatedAt: time.Now()}
	s.t.courses[c.ID] = c
	return c
}

// AddProgramOutcome stores a program outcome.
func (s *Store) AddProgramOutcome(code, description string) *models.ProgramOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	po := &models.ProgramOutcome{ID: s.t.nextID(), Code: code, Description: description}
	s.t.programOutcomes[po.ID] = po
	return po
}

// AddLearningOutcome stores a learning outcome owned by courseID.
func (s *Store) AddLearningOutcome(courseID int64, code, description string) *models.LearningOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	lo := &models.LearningOutcome{ID: s.t.nextID(), CourseID: courseID, Code: code, Description: description}
	s.t.learningOutcomes[lo.ID] = lo
	return lo
}

// AddAssessment stores an assessment. Creation time follows insertion order.
func (s *Store) AddAssessment(courseID int64, typ models.AssessmentType) *models.Assessment {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.t.nextID()
	a := &models.Assessment{
		ID:        id,
		CourseID:  courseID,
		Type:      typ,
		CreatedAt: time.Unix(0, 0).Add(time.Duration(id) * time.Second),
	}
	s.t.assessments[a.ID] = a
	return a
}

// AddStudent stores a user with the STUDENT role.
func (s *Store) AddStudent(identifier string) *models.User {
	return s.AddUser(identifier, models.RoleStudent)
}

// AddUser stores a user with the given role.
func (s *Store) AddUser(identifier string, role models.RoleType) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.t.nextID(), Identifier: identifier, RoleType: role, CreatedAt: time.Now()}
	s.t.users[u.ID] = u
	return u
}

// LinkAssessment adds a weighted Assessment -> LO edge.
func (s *Store) LinkAssessment(assessmentID, learningOutcomeID int64, weight int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.assessmentLinks = append(s.t.assessmentLinks, models.LearningOutcomeLink{
		AssessmentID:      assessmentID,
		LearningOutcomeID: learningOutcomeID,
		Weight:            weight,
	})
}

// LinkProgramOutcome adds a weighted LO -> PO edge.
func (s *Store) LinkProgramOutcome(learningOutcomeID, programOutcomeID int64, weight int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link := models.ProgramOutcomeLink{
		LearningOutcomeID: learningOutcomeID,
		ProgramOutcomeID:  programOutcomeID,
		Weight:            weight,
	}
	if po, ok := s.t.programOutcomes[programOutcomeID]; ok {
		link.ProgramOutcomeCode = po.Code
	}
	s.t.loLinks = append(s.t.loLinks, link)
}

// DeleteProgramOutcome removes a program outcome and cascades to its links.
func (s *Store) DeleteProgramOutcome(programOutcomeID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.t.programOutcomes, programOutcomeID)
	kept := s.t.loLinks[:0]
	for _, l := range s.t.loLinks {
		if l.ProgramOutcomeID != programOutcomeID {
			kept = append(kept, l)
		}
	}
	s.t.loLinks = kept
}

// --- attainment.Source ---

func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListCourses(ctx)
}

func (s *Store) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.GetCourse(ctx, courseID)
}

func (s *Store) ListAssessments(ctx context.Context, courseID int64) ([]*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListAssessments(ctx, courseID)
}

func (s *Store) ListLearningOutcomes(ctx context.Context, courseID int64) ([]*models.LearningOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListLearningOutcomes(ctx, courseID)
}

func (s *Store) ListProgramOutcomes(ctx context.Context) ([]*models.ProgramOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListProgramOutcomes(ctx)
}

func (s *Store) ListScoresFor(ctx context.Context, assessmentID int64) ([]*models.StudentAssessmentScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListScoresFor(ctx, assessmentID)
}

func (s *Store) ListLOtoPOEdges(ctx context.Context, learningOutcomeID int64) ([]models.ProgramOutcomeLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListLOtoPOEdges(ctx, learningOutcomeID)
}

func (s *Store) ListAssessmentToLOEdges(ctx context.Context, assessmentID int64) ([]models.LearningOutcomeLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListAssessmentToLOEdges(ctx, assessmentID)
}

// ReadSnapshot runs fn against a view that no writer can change until fn returns.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(ctx context.Context, src attainment.Source) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, s.t)
}

// --- Students and scores ---

// GetStudentByIdentifier finds a user with the STUDENT role.
func (s *Store) GetStudentByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.t.users {
		if u.Identifier == identifier && u.RoleType == models.RoleStudent {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

// UpsertScore creates or overwrites the score for (studentID, assessmentID).
func (s *Store) UpsertScore(_ context.Context, studentID, assessmentID int64, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scoreKey{studentID: studentID, assessmentID: assessmentID}
	if existing, ok := s.t.scores[key]; ok {
		existing.Score = score
		existing.UpdatedAt = time.Now()
		return nil
	}
	s.t.scores[key] = &models.StudentAssessmentScore{
		ID:           s.t.nextID(),
		StudentID:    studentID,
		AssessmentID: assessmentID,
		Score:        score,
		UpdatedAt:    time.Now(),
	}
	return nil
}

// ListCourseScores lists every score on the course's assessments.
func (s *Store) ListCourseScores(_ context.Context, courseID int64) ([]models.CourseScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.CourseScore{}
	for _, sc := range s.t.scores {
		a, ok := s.t.assessments[sc.AssessmentID]
		if !ok || a.CourseID != courseID {
			continue
		}
		out = append(out, models.CourseScore{
			StudentIdentifier: s.t.users[sc.StudentID].Identifier,
			AssessmentID:      sc.AssessmentID,
			Score:             sc.Score,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentIdentifier != out[j].StudentIdentifier {
			return out[i].StudentIdentifier < out[j].StudentIdentifier
		}
		return out[i].AssessmentID < out[j].AssessmentID
	})
	return out, nil
}

// --- Unlocked reads ---

func (t *tables) ListCourses(context.Context) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(t.courses))
	for _, c := range t.courses {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (t *tables) GetCourse(_ context.Context, courseID int64) (*models.Course, error) {
	c, ok := t.courses[courseID]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *c
	return &copied, nil
}

func (t *tables) ListAssessments(_ context.Context, courseID int64) ([]*models.Assessment, error) {
	out := []*models.Assessment{}
	for _, a := range t.assessments {
		if a.CourseID == courseID {
			copied := *a
			out = append(out, &copied)
		}
	}
	models.SortByCreation(out)
	return out, nil
}

func (t *tables) ListLearningOutcomes(_ context.Context, courseID int64) ([]*models.LearningOutcome, error) {
	out := []*models.LearningOutcome{}
	for _, lo := range t.learningOutcomes {
		if lo.CourseID == courseID {
			copied := *lo
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (t *tables) ListProgramOutcomes(context.Context) ([]*models.ProgramOutcome, error) {
	out := make([]*models.ProgramOutcome, 0, len(t.programOutcomes))
	for _, po := range t.programOutcomes {
		copied := *po
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (t *tables) ListScoresFor(_ context.Context, assessmentID int64) ([]*models.StudentAssessmentScore, error) {
	out := []*models.StudentAssessmentScore{}
	for _, sc := range t.scores {
		if sc.AssessmentID == assessmentID {
			copied := *sc
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tables) ListLOtoPOEdges(_ context.Context, learningOutcomeID int64) ([]models.ProgramOutcomeLink, error) {
	out := []models.ProgramOutcomeLink{}
	for _, l := range t.loLinks {
		if l.LearningOutcomeID == learningOutcomeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (t *tables) ListAssessmentToLOEdges(_ context.Context, assessmentID int64) ([]models.LearningOutcomeLink, error) {
	out := []models.LearningOutcomeLink{}
	for _, l := range t.assessmentLinks {
		if l.AssessmentID == assessmentID {
			out = append(out, l)
		}
	}
	return out, nil
}
