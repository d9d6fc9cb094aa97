package usecase

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
	"sauvini-api/pkg/mailer"
	"sauvini-api/pkg/throttle"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

type Service struct {
	Auth         AuthService
	Verification VerificationService
	User         UserService
	Admin        AdminService
	Stream       StreamService
	Course       CourseService
	Enrollment   EnrollmentService
}

func NewService(
	repo *repository.Repository,
	tokens token.Service,
	mail mailer.Mailer,
	throttler throttle.Throttler,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	verification := newVerificationService(repo, tokens, mail, throttler, config, log)

	return &Service{
		Auth:         NewAuthService(repo, tokens, verification, config, log),
		Verification: verification,
		User:         NewUserService(repo, log),
		Admin:        NewAdminService(repo, mail, log),
		Stream:       NewStreamService(repo.AcademicStream, log),
		Course:       NewCourseService(repo, log),
		Enrollment:   NewEnrollmentService(repo, log),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func subjectOf(user *entity.User) token.Subject {
	return token.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}
}

// checkUserType rejects a body user_type that disagrees with the route role.
func checkUserType(role entity.UserRole, userType string) error {
	if userType != "" && entity.UserRole(userType) != role {
		return fieldError("user_type", "user_type does not match this endpoint")
	}
	return nil
}

func validate(data interface{}) error {
	if errs := utils.ValidateStruct(data); len(errs) > 0 {
		return newValidationError("Validation failed", errs)
	}
	return nil
}

type clock func() time.Time
