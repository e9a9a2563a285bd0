package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/app/models/dto"
	"github.com/yigit/vineyard/internal/app/repositories/memory"
	"github.com/yigit/vineyard/internal/config"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type apiFixture struct {
	t       *testing.T
	router  *gin.Engine
	deps    *Dependencies
	store   *memory.Store
	courseA *models.Course
	courseB *models.Course
	midterm *models.Assessment
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "vineyard.test"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.Report.SnapshotTimeout = "5s"
	return cfg
}

// newAPIFixture wires the full router over an in-memory store holding two
// courses that both feed P1: A averages 80 (LO->PO weight 4), B averages 60
// (weight 2).
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	p1 := store.AddProgramOutcome("P1", "Engineering knowledge")
	store.AddProgramOutcome("P2", "Teamwork")

	f := &apiFixture{t: t, store: store}
	f.courseA = store.AddCourse("A101", "Course A")
	f.midterm = store.AddAssessment(f.courseA.ID, models.AssessmentMidterm)
	loA := store.AddLearningOutcome(f.courseA.ID, "A-L1", "")
	store.LinkAssessment(f.midterm.ID, loA.ID, 5)
	store.LinkProgramOutcome(loA.ID, p1.ID, 4)

	f.courseB = store.AddCourse("B101", "Course B")
	project := store.AddAssessment(f.courseB.ID, models.AssessmentProject)
	loB := store.AddLearningOutcome(f.courseB.ID, "B-L1", "")
	store.LinkAssessment(project.ID, loB.ID, 1)
	store.LinkProgramOutcome(loB.ID, p1.ID, 2)

	s1 := store.AddStudent("s1")
	s2 := store.AddStudent("s2")
	ctx := context.Background()
	require.NoError(t, store.UpsertScore(ctx, s1.ID, f.midterm.ID, 75))
	require.NoError(t, store.UpsertScore(ctx, s2.ID, f.midterm.ID, 85))
	require.NoError(t, store.UpsertScore(ctx, s1.ID, project.ID, 60))

	cfg := testConfig()
	f.deps = BuildDependencies(cfg, Stores{
		Snapshots: store,
		Courses:   store,
		Students:  store,
		Scores:    store,
	}, zerolog.Nop())
	f.router = SetupRouter(cfg, f.deps, zerolog.Nop())
	return f
}

func (f *apiFixture) token(role models.RoleType) string {
	f.t.Helper()
	token, _, err := f.deps.JWTService.GenerateAccessToken(&models.User{ID: 1, Identifier: "u", RoleType: role})
	require.NoError(f.t, err)
	return token
}

func (f *apiFixture) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(f.t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func TestCourseReportEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w, env := f.do(http.MethodGet, "/api/v1/courses/"+id(f.courseA.ID)+"/report", f.token(models.RoleStudent), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var report dto.CourseReportResponse
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "A101", report.CourseCode)
	assert.Equal(t, dto.AssessmentSummary{Label: "Midterm 1", Type: "midterm", Average: 80}, report.Assessments[id(f.midterm.ID)])
	assert.Equal(t, map[string]float64{"A-L1": 80}, report.LearningOutcomes)
	assert.Equal(t, map[string]float64{"P1": 80, "P2": 0}, report.ProgramOutcomeContribution)
}

func TestCourseReportEndpointErrors(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(models.RoleTeacher)

	w, env := f.do(http.MethodGet, "/api/v1/courses/999/report", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, env.Error.Code)

	w, _ = f.do(http.MethodGet, "/api/v1/courses/abc/report", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = f.do(http.MethodGet, "/api/v1/courses/"+id(f.courseA.ID)+"/report", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeUnauthorized, env.Error.Code)

	w, env = f.do(http.MethodGet, "/api/v1/courses/"+id(f.courseA.ID)+"/report", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeInvalidToken, env.Error.Code)
}

func TestCourseReportInvalidStoredWeight(t *testing.T) {
	f := newAPIFixture(t)
	lo := f.store.AddLearningOutcome(f.courseA.ID, "A-L2", "")
	f.store.LinkAssessment(f.midterm.ID, lo.ID, 9)

	w, env := f.do(http.MethodGet, "/api/v1/courses/"+id(f.courseA.ID)+"/report", f.token(models.RoleHead), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
}

func TestProgramReportEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w, env := f.do(http.MethodGet, "/api/v1/reports/program", f.token(models.RoleHead), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report dto.ProgramReportResponse
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Len(t, report.Reports, 2)
	assert.Equal(t, 73.33, report.ProgramOutcomes["P1"])
	assert.Equal(t, 0.0, report.ProgramOutcomes["P2"])

	for _, role := range []models.RoleType{models.RoleStudent, models.RoleTeacher} {
		w, env = f.do(http.MethodGet, "/api/v1/reports/program", f.token(role), nil)
		assert.Equal(t, http.StatusForbidden, w.Code, role)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrorCodeForbidden, env.Error.Code)
	}
}

func TestIngestGradesEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(models.RoleTeacher)
	path := "/api/v1/courses/" + id(f.courseA.ID) + "/grades"

	body := map[string]interface{}{
		"grades": map[string]interface{}{
			"s1":    map[string]interface{}{id(f.midterm.ID): 95},
			"ghost": map[string]interface{}{id(f.midterm.ID): 50},
		},
	}
	w, env := f.do(http.MethodPost, path, token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result dto.IngestGradesResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []dto.SavedGradeResponse{{Student: "s1", AssessmentID: f.midterm.ID, Score: 95}}, result.Saved)
	assert.Equal(t, []string{"ghost: student not found"}, result.Errors)

	w, env = f.do(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var grades dto.CourseGradesResponse
	require.NoError(t, json.Unmarshal(env.Data, &grades))
	assert.Equal(t, dto.CourseGradesResponse{
		"s1": {id(f.midterm.ID): 95},
		"s2": {id(f.midterm.ID): 85},
	}, grades)

	// The new score flows into the report: (95 + 85) / 2.
	_, env = f.do(http.MethodGet, "/api/v1/courses/"+id(f.courseA.ID)+"/report", token, nil)
	var report dto.CourseReportResponse
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 90.0, report.LearningOutcomes["A-L1"])
}

func TestIngestGradesEndpointErrors(t *testing.T) {
	f := newAPIFixture(t)
	teacher := f.token(models.RoleTeacher)
	path := "/api/v1/courses/" + id(f.courseA.ID) + "/grades"

	tests := []struct {
		name   string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"student may not submit", path, f.token(models.RoleStudent), `{"grades": {}}`, http.StatusForbidden},
		{"missing grades", path, teacher, `{}`, http.StatusBadRequest},
		{"null grades", path, teacher, `{"grades": null}`, http.StatusBadRequest},
		{"grades not an object", path, teacher, `{"grades": [1, 2]}`, http.StatusBadRequest},
		{"malformed json", path, teacher, `{"grades":`, http.StatusBadRequest},
		{"unknown course", "/api/v1/courses/999/grades", teacher, `{"grades": {}}`, http.StatusNotFound},
		{"unknown course, missing grades", "/api/v1/courses/999/grades", teacher, `{}`, http.StatusNotFound},
		{"unknown course, null grades", "/api/v1/courses/999/grades", teacher, `{"grades": null}`, http.StatusNotFound},
		{"head may submit", path, f.token(models.RoleHead), `{"grades": {}}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := f.do(http.MethodPost, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w, _ := f.do(http.MethodGet, path, f.token(models.RoleStudent), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	w, _ := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w, _ = f.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
