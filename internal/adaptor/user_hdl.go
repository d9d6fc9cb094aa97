package adaptor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/utils"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetStudentProfile handles GET /student/profile
func (h *UserHandler) GetStudentProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetStudentProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get student profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateStudentProfile handles PUT /student/profile/update
func (h *UserHandler) UpdateStudentProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.UpdateStudentProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateStudentProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update student profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// GetStudent handles GET /student/{id}
func (h *UserHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.GetStudentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get student")
		return
	}

	utils.ResponseSuccess(w, "Student retrieved successfully", student)
}

// GetProfessorProfile handles GET /professor/profile
func (h *UserHandler) GetProfessorProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfessorProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get professor profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// GetAdminProfile handles GET /admin/profile
func (h *UserHandler) GetAdminProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetAdminProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get admin profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}
