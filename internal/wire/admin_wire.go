package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/adaptor"
	"sauvini-api/internal/data/entity"
	"sauvini-api/pkg/middleware"
)

// wireAdmin configures the admin routes under /auth/admin. Every route needs
// an admin access token.
func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	authenticate func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Post("/admin/approve-professor", adminHandler.ApproveProfessor)
		r.Post("/admin/reject-professor", adminHandler.RejectProfessor)
		r.Get("/admin/all-professors", adminHandler.ListProfessors)

		r.Get("/admin/students", adminHandler.ListStudents)              // ?page=1&per_page=10&search=
		r.Get("/admin/students/{id}", adminHandler.GetStudent)           // GET /auth/admin/students/{id}
		r.Delete("/admin/students/{id}", adminHandler.DeactivateStudent) // soft delete
	})
}
