package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/vineyard/internal/app/controllers"
	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/app/models/dto"
	"github.com/yigit/vineyard/internal/middleware"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	reportController *controllers.ReportController,
	gradeController *controllers.GradeController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		courses := authenticated.Group("/courses/:id")
		{
			courses.GET("/report", reportController.GetCourseReport)

			staff := courses.Group("")
			staff.Use(authMiddleware.RoleRequired(models.RoleTeacher, models.RoleHead))
			{
				staff.POST("/grades", middleware.ValidateRequest[dto.IngestGradesRequest](), gradeController.IngestGrades)
				staff.GET("/grades", gradeController.GetCourseGrades)
			}
		}

		reports := authenticated.Group("/reports")
		reports.Use(authMiddleware.RoleRequired(models.RoleHead))
		{
			reports.GET("/program", reportController.GetProgramReport)
		}
	}
}

// SetupHealth registers /health and /ping. A nil pinger always reports healthy.
func SetupHealth(router *gin.Engine, pinger Pinger) {
	router.GET("/health", func(c *gin.Context) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
