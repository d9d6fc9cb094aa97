package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/adaptor"
	"sauvini-api/internal/data/entity"
	"sauvini-api/pkg/middleware"
)

// wireCourse configures the catalogue and enrollment routes under /courses.
// Reads are public; writes need a professor or admin, enrollment a student.
func wireCourse(
	r chi.Router,
	courseHandler *adaptor.CourseHandler,
	streamHandler *adaptor.StreamHandler,
	authenticate func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/academic-streams", streamHandler.List)

		r.Get("/module", courseHandler.ListModules)
		r.Get("/module/{id}", courseHandler.GetModule)
		r.Get("/module/{id}/chapters", courseHandler.ListChapters)
		r.Get("/chapter/{id}", courseHandler.GetChapter)
		r.Get("/chapter/{id}/lessons", courseHandler.ListLessons)
		r.Get("/lesson/{id}", courseHandler.GetLesson)

		// ==================== AUTHORING ====================
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(log, entity.RoleProfessor, entity.RoleAdmin))

			r.Post("/module/create", courseHandler.CreateModule)
			r.Post("/chapter/create", courseHandler.CreateChapter)
			r.Put("/chapter/{id}/update", courseHandler.UpdateChapter)
			r.Post("/chapter/{id}/add-stream/{streamId}", courseHandler.AddChapterStream)
			r.Post("/lesson/create", courseHandler.CreateLesson)
			r.Put("/lesson/{id}/update", courseHandler.UpdateLesson)
			r.Delete("/lesson/{id}/delete", courseHandler.DeleteLesson)
		})

		// ==================== ENROLLMENT ====================
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(log, entity.RoleStudent))

			r.Post("/module/{id}/enroll", courseHandler.Enroll)
			r.Delete("/module/{id}/unenroll", courseHandler.Unenroll)
			r.Get("/enrollments", courseHandler.ListEnrollments)
			r.Get("/module/{id}/enrollment-status", courseHandler.EnrollmentStatus)
		})
	})
}
