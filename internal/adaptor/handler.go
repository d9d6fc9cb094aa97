package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/utils"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Admin  *AdminHandler
	Stream *StreamHandler
	Course *CourseHandler
	Health *HealthHandler
}

func NewHandler(service *usecase.Service, checks map[string]Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, service.Verification, log),
		User:   NewUserHandler(service.User, log),
		Admin:  NewAdminHandler(service.Admin, log),
		Stream: NewStreamHandler(service.Stream, log),
		Course: NewCourseHandler(service.Course, service.Enrollment, log),
		Health: NewHealthHandler(checks, log),
	}
}

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			utils.ResponseBadRequest(w, "Request body is empty", nil)
			return false
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// currentUserID returns the authenticated user or writes a 401.
func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized", "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
