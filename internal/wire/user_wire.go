package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/adaptor"
	"sauvini-api/internal/data/entity"
	"sauvini-api/pkg/middleware"
)

// wireUser configures profile routes with role-based access control
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	authenticate func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		// ==================== STUDENT ====================
		r.With(middleware.RequireRole(log, entity.RoleStudent)).Get("/student/profile", userHandler.GetStudentProfile)
		r.With(middleware.RequireRole(log, entity.RoleStudent)).Put("/student/profile/update", userHandler.UpdateStudentProfile)
		r.Get("/student/{id}", userHandler.GetStudent) // any authenticated user

		// ==================== PROFESSOR ====================
		r.With(middleware.RequireRole(log, entity.RoleProfessor)).Get("/professor/profile", userHandler.GetProfessorProfile)

		// ==================== ADMIN ====================
		r.With(middleware.RequireRole(log, entity.RoleAdmin)).Get("/admin/profile", userHandler.GetAdminProfile)
	})
}
