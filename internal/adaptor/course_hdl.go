package adaptor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/utils"
)

type CourseHandler struct {
	service    usecase.CourseService
	enrollment usecase.EnrollmentService
	log        *zap.Logger
}

func NewCourseHandler(service usecase.CourseService, enrollment usecase.EnrollmentService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service:    service,
		enrollment: enrollment,
		log:        log.With(zap.String("handler", "course")),
	}
}

// ==================== MODULES ====================

// ListModules handles GET /courses/module
func (h *CourseHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.service.ListModules(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list modules")
		return
	}

	utils.ResponseSuccess(w, "Modules retrieved successfully", modules)
}

// GetModule handles GET /courses/module/{id}
func (h *CourseHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	module, err := h.service.GetModule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get module")
		return
	}

	utils.ResponseSuccess(w, "Module retrieved successfully", module)
}

// CreateModule handles POST /courses/module/create
func (h *CourseHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req request.CreateModuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	module, err := h.service.CreateModule(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create module")
		return
	}

	utils.ResponseCreated(w, "Module created successfully", module)
}

// ==================== CHAPTERS ====================

// ListChapters handles GET /courses/module/{id}/chapters
func (h *CourseHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.service.ListChapters(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "list chapters")
		return
	}

	utils.ResponseSuccess(w, "Chapters retrieved successfully", chapters)
}

func (h *CourseHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := h.service.GetChapter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get chapter")
		return
	}

	utils.ResponseSuccess(w, "Chapter retrieved successfully", chapter)
}

// CreateChapter handles POST /courses/chapter/create
func (h *CourseHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var req request.CreateChapterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chapter, err := h.service.CreateChapter(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create chapter")
		return
	}

	utils.ResponseCreated(w, "Chapter created successfully", chapter)
}

// UpdateChapter handles PUT /courses/chapter/{id}/update
func (h *CourseHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateChapterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chapter, err := h.service.UpdateChapter(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update chapter")
		return
	}

	utils.ResponseSuccess(w, "Chapter updated successfully", chapter)
}

// AddChapterStream handles POST /courses/chapter/{id}/add-stream/{streamId}
func (h *CourseHandler) AddChapterStream(w http.ResponseWriter, r *http.Request) {
	chapter, err := h.service.AddChapterStream(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "streamId"))
	if err != nil {
		handleServiceError(w, h.log, err, "add chapter stream")
		return
	}

	utils.ResponseSuccess(w, "Academic stream added to chapter", chapter)
}

// ==================== LESSONS ====================

// ListLessons handles GET /courses/chapter/{id}/lessons
func (h *CourseHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.ListLessons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "list lessons")
		return
	}

	utils.ResponseSuccess(w, "Lessons retrieved successfully", lessons)
}

func (h *CourseHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.service.GetLesson(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get lesson")
		return
	}

	utils.ResponseSuccess(w, "Lesson retrieved successfully", lesson)
}

// CreateLesson handles POST /courses/lesson/create
func (h *CourseHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req request.CreateLessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create lesson")
		return
	}

	utils.ResponseCreated(w, "Lesson created successfully", lesson)
}

// UpdateLesson handles PUT /courses/lesson/{id}/update
func (h *CourseHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateLessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update lesson")
		return
	}

	utils.ResponseSuccess(w, "Lesson updated successfully", lesson)
}

// DeleteLesson handles DELETE /courses/lesson/{id}/delete
func (h *CourseHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLesson(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete lesson")
		return
	}

	utils.ResponseSuccess(w, "Lesson deleted successfully", nil)
}

// ==================== ENROLLMENTS ====================

// Enroll handles POST /courses/module/{id}/enroll
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	enrollment, err := h.enrollment.Enroll(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "enroll")
		return
	}

	utils.ResponseCreated(w, "Successfully enrolled in module", enrollment)
}

// Unenroll handles DELETE /courses/module/{id}/unenroll
func (h *CourseHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.enrollment.Unenroll(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "unenroll")
		return
	}

	utils.ResponseSuccess(w, "Successfully unenrolled from module", nil)
}

// ListEnrollments handles GET /courses/enrollments
func (h *CourseHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	enrollments, err := h.enrollment.ListEnrollments(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list enrollments")
		return
	}

	utils.ResponseSuccess(w, "Enrolled modules retrieved successfully", enrollments)
}

// EnrollmentStatus handles GET /courses/module/{id}/enrollment-status
func (h *CourseHandler) EnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	status, err := h.enrollment.Status(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "enrollment status")
		return
	}

	utils.ResponseSuccess(w, "Enrollment status retrieved successfully", status)
}
