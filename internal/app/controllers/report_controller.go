package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/vineyard/internal/app/models/dto"
	"github.com/yigit/vineyard/internal/app/services"
	"github.com/yigit/vineyard/internal/middleware"
)

// ReportController serves attainment reports
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// GetCourseReport returns the course-scoped attainment report
// @Summary Get course attainment report
// @Description Assessment averages, learning outcome scores and the course's program outcome contribution
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.CourseReportResponse} "Report computed"
// @Failure 400 {object} dto.APIResponse "Invalid course ID or invalid stored link weight"
// @Failure 401 {object} dto.APIResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses/{id}/report [get]
func (c *ReportController) GetCourseReport(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	report, err := c.reportService.CourseReport(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseReportResponse(report)))
}

// GetProgramReport returns every course report and the pooled program outcomes
// @Summary Get program attainment report
// @Description Per-course reports plus program outcome scores pooled across all courses
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProgramReportResponse} "Report computed"
// @Failure 400 {object} dto.APIResponse "Invalid stored link weight"
// @Failure 401 {object} dto.APIResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.APIResponse "Forbidden - department head only"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /reports/program [get]
func (c *ReportController) GetProgramReport(ctx *gin.Context) {
	report, err := c.reportService.ProgramReport(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProgramReportResponse(report)))
}
