package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/vineyard/internal/app/models/dto"
	"github.com/yigit/vineyard/internal/app/services"
	"github.com/yigit/vineyard/internal/middleware"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
)

// GradeController handles grade ingestion and listing
type GradeController struct {
	gradeService services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService services.GradeService) *GradeController {
	return &GradeController{
		gradeService: gradeService,
	}
}

// IngestGrades upserts a batch of grades for a course
// @Summary Submit course grades
// @Description Upserts one score per (student, assessment). Invalid entries are reported in errors and skipped.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.IngestGradesRequest true "Grades keyed by student identifier, then assessment ID"
// @Success 200 {object} dto.APIResponse{data=dto.IngestGradesResponse} "Grades processed"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 401 {object} dto.APIResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.APIResponse "Forbidden - teachers and department heads only"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses/{id}/grades [post]
func (c *GradeController) IngestGrades(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	// Bound by middleware.ValidateRequest on the route.
	req, ok := middleware.ValidatedBody[dto.IngestGradesRequest](ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("request body is missing"))
		return
	}

	result, err := c.gradeService.IngestGrades(ctx.Request.Context(), courseID, req.Grades)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.IngestGradesResponse{
		Saved:  make([]dto.SavedGradeResponse, 0, len(result.Saved)),
		Errors: result.Errors,
	}
	for _, s := range result.Saved {
		resp.Saved = append(resp.Saved, dto.SavedGradeResponse{
			Student:      s.Student,
			AssessmentID: s.AssessmentID,
			Score:        s.Score,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetCourseGrades lists the stored grades of a course
// @Summary Get course grades
// @Description Every stored score on the course's assessments, keyed by student identifier then assessment ID
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.CourseGradesResponse} "Grades retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid course ID"
// @Failure 401 {object} dto.APIResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.APIResponse "Forbidden - teachers and department heads only"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses/{id}/grades [get]
func (c *GradeController) GetCourseGrades(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	grades, err := c.gradeService.ListCourseGrades(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make(dto.CourseGradesResponse, len(grades))
	for student, byAssessment := range grades {
		scores := make(map[string]float64, len(byAssessment))
		for assessmentID, score := range byAssessment {
			scores[strconv.FormatInt(assessmentID, 10)] = score
		}
		resp[student] = scores
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
