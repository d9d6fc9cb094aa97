package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sauvini-api/internal/adaptor"
	"sauvini-api/internal/data/entity"
)

// wireAuth configures the public authentication routes under /auth.
func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	authenticate func(http.Handler) http.Handler,
) {
	// ==================== REGISTRATION ====================
	r.Post("/student/register", authHandler.RegisterStudent)
	r.Post("/professor/register", authHandler.RegisterProfessor)

	// ==================== SESSIONS & PASSWORDS ====================
	for _, role := range []entity.UserRole{entity.RoleStudent, entity.RoleProfessor, entity.RoleAdmin} {
		prefix := "/" + string(role)
		r.Post(prefix+"/login", authHandler.Login(role))
		r.Post(prefix+"/refresh-token", authHandler.RefreshToken(role))
		r.Post(prefix+"/forgot-password", authHandler.ForgotPassword(role))
		r.Post(prefix+"/reset-password", authHandler.ResetPassword(role))
	}

	// ==================== EMAIL VERIFICATION ====================
	// admins are never verified by email
	for _, role := range []entity.UserRole{entity.RoleStudent, entity.RoleProfessor} {
		prefix := "/" + string(role)
		r.Post(prefix+"/send-verification-email", authHandler.SendVerificationEmail(role))
		r.Get(prefix+"/verify-email", authHandler.VerifyEmail(role))
		r.Post(prefix+"/verify-email", authHandler.VerifyEmail(role))
	}

	// ==================== PROTECTED ROUTES ====================
	r.With(authenticate).Post("/logout", authHandler.Logout)
}
