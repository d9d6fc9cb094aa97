package adaptor

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/utils"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// ApproveProfessor handles POST /auth/admin/approve-professor
func (h *AdminHandler) ApproveProfessor(w http.ResponseWriter, r *http.Request) {
	var req request.ProfessorDecisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.ApproveProfessor(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "approve professor")
		return
	}

	utils.ResponseSuccess(w, "Professor approved", resp)
}

// RejectProfessor handles POST /auth/admin/reject-professor
func (h *AdminHandler) RejectProfessor(w http.ResponseWriter, r *http.Request) {
	var req request.ProfessorDecisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.RejectProfessor(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reject professor")
		return
	}

	utils.ResponseSuccess(w, "Professor rejected", resp)
}

// ListProfessors handles GET /auth/admin/all-professors?status=
func (h *AdminHandler) ListProfessors(w http.ResponseWriter, r *http.Request) {
	professors, err := h.service.ListProfessors(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(w, h.log, err, "list professors")
		return
	}

	utils.ResponseSuccess(w, "Professors retrieved successfully", professors)
}

// ListStudents handles GET /auth/admin/students
func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.StudentListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Search:         strings.TrimSpace(query.Get("search")),
		Wilaya:         strings.TrimSpace(query.Get("wilaya")),
		AcademicStream: strings.TrimSpace(query.Get("academic_stream")),
	}

	if raw := query.Get("email_verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid email_verified filter", map[string]string{"email_verified": "Must be true or false"})
			return
		}
		req.EmailVerified = &verified
	}

	students, err := h.service.ListStudents(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list students")
		return
	}

	utils.ResponseSuccess(w, "Students retrieved successfully", students)
}

// GetStudent handles GET /auth/admin/students/{id}
func (h *AdminHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.GetStudent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get student")
		return
	}

	utils.ResponseSuccess(w, "Student retrieved successfully", student)
}

// DeactivateStudent handles DELETE /auth/admin/students/{id}
func (h *AdminHandler) DeactivateStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateStudent(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "deactivate student")
		return
	}

	utils.ResponseSuccess(w, "Student deactivated successfully", nil)
}
