package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	scheme, value, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// Authenticate verifies the bearer access token and loads the account it was
// issued for. The user id and role are stored in the request context.
func Authenticate(tokens token.Service, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Unauthorized", "Missing or malformed authorization header. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Verify(raw, token.TypeAccess)
			if err != nil {
				if errors.Is(err, token.ErrExpiredToken) {
					utils.ResponseUnauthorized(w, "ExpiredToken", "Access token has expired")
					return
				}
				logger.Debug("Rejected access token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "InvalidToken", "Invalid access token")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				utils.ResponseUnauthorized(w, "InvalidToken", "Invalid access token")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load user for token",
					zap.Error(err), zap.String("user_id", claims.UserID))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || !user.IsActive {
				logger.Warn("Token for missing or inactive user", zap.String("user_id", claims.UserID))
				utils.ResponseUnauthorized(w, "Unauthorized", "Account is not available")
				return
			}

			if string(user.Role) != claims.Role {
				logger.Warn("Token role does not match account",
					zap.String("user_id", claims.UserID),
					zap.String("token_role", claims.Role),
					zap.String("role", string(user.Role)))
				utils.ResponseUnauthorized(w, "InvalidToken", "Invalid access token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			ctx = utils.SetTokenIDContext(ctx, claims.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only for the listed roles. It must run
// after Authenticate.
func RequireRole(logger *zap.Logger, roles ...entity.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[string(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Unauthorized", "Authentication required")
				return
			}

			if _, ok := allowed[role]; !ok {
				userID, _ := utils.GetUserIDFromContext(r.Context())
				logger.Warn("Role not allowed",
					zap.String("user_id", userID.String()),
					zap.String("role", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Forbidden", "You do not have access to this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
