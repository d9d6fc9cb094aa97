package adaptor

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/utils"
)

// maxMultipartMemory bounds the in-memory part of a professor registration form.
const maxMultipartMemory = 10 << 20

type AuthHandler struct {
	service      usecase.AuthService
	verification usecase.VerificationService
	log          *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, verification usecase.VerificationService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		verification: verification,
		log:          log.With(zap.String("handler", "auth")),
	}
}

// RegisterStudent handles POST /auth/student/register
func (h *AuthHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req request.StudentRegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.RegisterStudent(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "register student")
		return
	}

	message := "Registration successful. Please check your email to verify your account."
	if !resp.VerificationEmailSent {
		message = "Registration successful, but the verification email could not be sent. Please request a new one."
	}
	utils.ResponseCreated(w, message, resp)
}

// RegisterProfessor handles POST /auth/professor/register. The body is JSON
// or a multipart form whose professor_data field holds the JSON.
func (h *AuthHandler) RegisterProfessor(w http.ResponseWriter, r *http.Request) {
	var req request.ProfessorRegisterRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			utils.ResponseBadRequest(w, "Invalid multipart form", nil)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		data := r.FormValue("professor_data")
		if strings.TrimSpace(data) == "" {
			utils.ResponseBadRequest(w, "professor_data is required", map[string]string{"professor_data": "This field is required"})
			return
		}
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			utils.ResponseBadRequest(w, "professor_data is not valid JSON", map[string]string{"professor_data": "Invalid JSON"})
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.RegisterProfessor(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "register professor")
		return
	}

	utils.ResponseCreated(w, "Registration successful. Your account is pending admin approval.", resp)
}

// Login handles POST /auth/{role}/login
func (h *AuthHandler) Login(role entity.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		resp, err := h.service.Login(r.Context(), role, &req)
		if err != nil {
			handleServiceError(w, h.log, err, "login")
			return
		}

		utils.ResponseSuccess(w, "Login successful", resp)
	}
}

// RefreshToken handles POST /auth/{role}/refresh-token
func (h *AuthHandler) RefreshToken(role entity.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.RefreshTokenRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		resp, err := h.service.RefreshToken(r.Context(), role, &req)
		if err != nil {
			handleServiceError(w, h.log, err, "refresh token")
			return
		}

		utils.ResponseSuccess(w, "Token refreshed", resp)
	}
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.LogoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Logout(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	tokenID, _ := utils.GetTokenIDFromContext(r.Context())
	h.log.Debug("Session ended", zap.String("user_id", userID.String()), zap.String("access_jti", tokenID))

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// SendVerificationEmail handles POST /auth/{role}/send-verification-email
func (h *AuthHandler) SendVerificationEmail(role entity.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.SendVerificationEmailRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := h.verification.SendVerificationEmail(r.Context(), role, &req); err != nil {
			handleServiceError(w, h.log, err, "send verification email")
			return
		}

		utils.ResponseSuccess(w, "Verification email sent", nil)
	}
}

// VerifyEmail handles GET /auth/{role}/verify-email?token=&type= (the mailed
// link) and POST with a JSON body.
func (h *AuthHandler) VerifyEmail(role entity.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.VerifyEmailRequest
		if r.Method == http.MethodGet {
			query := r.URL.Query()
			req.Token = query.Get("token")
			req.UserType = query.Get("type")
		} else if !decodeJSON(w, r, &req) {
			return
		}

		if err := h.verification.VerifyEmail(r.Context(), role, &req); err != nil {
			handleServiceError(w, h.log, err, "verify email")
			return
		}

		utils.ResponseSuccess(w, "Email verified successfully", nil)
	}
}

// ForgotPassword handles POST /auth/{role}/forgot-password
func (h *AuthHandler) ForgotPassword(role entity.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.ForgotPasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := h.verification.ForgotPassword(r.Context(), role, &req); err != nil {
			handleServiceError(w, h.log, err, "forgot password")
			return
		}

		utils.ResponseSuccess(w, "Password reset email sent", nil)
	}
}

// ResetPassword handles POST /auth/{role}/reset-password
func (h *AuthHandler) ResetPassword(role entity.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.ResetPasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := h.verification.ResetPassword(r.Context(), role, &req); err != nil {
			handleServiceError(w, h.log, err, "reset password")
			return
		}

		utils.ResponseSuccess(w, "Password has been reset", nil)
	}
}
