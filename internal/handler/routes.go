package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bibash21-creator/result-finder-33/internal/middleware"
	"github.com/bibash21-creator/result-finder-33/internal/models"
	"github.com/bibash21-creator/result-finder-33/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	Students    *StudentHandler
	Subjects    *SubjectHandler
	Results     *ResultHandler
	Publication *PublicationHandler
	Images      *ImageHandler
	Exports     *ExportHandler
}

// Register mounts all portal routes under the given group. Admin-only routes
// sit behind the RBAC middleware; students reach their own record through the
// SELF pseudo-role.
func Register(api *gin.RouterGroup, h Handlers, auth *service.AuthService) {
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/admin/login", h.Auth.AdminLogin)

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	protected.GET("/results/me", h.Results.Me)
	protected.GET("/results/published", h.Publication.Get)
	protected.PUT("/results/published", middleware.RequireRoles(models.RoleAdmin), h.Publication.Set)

	students := protected.Group("/students")
	students.GET("", middleware.RequireRoles(models.RoleAdmin), h.Students.List)
	students.POST("", middleware.RequireRoles(models.RoleAdmin), h.Students.Create)
	students.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.Students.Get)
	students.PATCH("/:id", middleware.RequireRoles(models.RoleAdmin), h.Students.Update)
	students.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Students.Delete)

	students.GET("/:id/subjects", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.Subjects.List)
	students.POST("/:id/subjects", middleware.RequireRoles(models.RoleAdmin), h.Subjects.Add)
	students.PUT("/:id/subjects", middleware.RequireRoles(models.RoleAdmin), h.Students.ReplaceSubjects)
	students.PATCH("/:id/subjects/:subjectId", middleware.RequireRoles(models.RoleAdmin), h.Subjects.Update)

	students.GET("/:id/results", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.Results.Get)
	students.GET("/:id/result.pdf", middleware.RequireRoles(models.RoleAdmin), h.Exports.ResultSheetPDF)

	students.PUT("/:id/image", middleware.RequireRoles(models.RoleAdmin), h.Images.Upload)
	students.DELETE("/:id/image", middleware.RequireRoles(models.RoleAdmin), h.Images.Delete)

	protected.GET("/exports/roster.csv", middleware.RequireRoles(models.RoleAdmin), h.Exports.RosterCSV)
}
