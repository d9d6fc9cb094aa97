package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/dto/response"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

const (
	minProfessorAge = 18
	maxProfessorAge = 80
)

type AuthService interface {
	RegisterStudent(ctx context.Context, req *request.StudentRegisterRequest) (*response.StudentRegisterResponse, error)
	RegisterProfessor(ctx context.Context, req *request.ProfessorRegisterRequest) (*response.ProfessorRegisterResponse, error)
	Login(ctx context.Context, role entity.UserRole, req *request.LoginRequest) (*response.LoginResponse, error)
	RefreshToken(ctx context.Context, role entity.UserRole, req *request.RefreshTokenRequest) (*response.RefreshResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, req *request.LogoutRequest) error
}

type authService struct {
	repo         *repository.Repository
	tokens       token.Service
	verification codeSender
	config       *utils.Config
	log          *zap.Logger
	now          clock
}

func NewAuthService(
	repo *repository.Repository,
	tokens token.Service,
	verification codeSender,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:         repo,
		tokens:       tokens,
		verification: verification,
		config:       config,
		log:          log.With(zap.String("service", "auth")),
		now:          time.Now,
	}
}

// dummyHash is compared against when the email is unknown so that login
// timing does not reveal whether an account exists.
var dummyHash = sync.OnceValue(func() string {
	hash, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return ""
	}
	return hash
})

func (s *authService) ensureEmailAvailable(ctx context.Context, email string) error {
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return fieldError("email", repository.ErrDuplicateEmail.Error())
	}
	return nil
}

func (s *authService) create(ctx context.Context, user *entity.User) error {
	err := s.repo.User.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// lost a race with a concurrent registration
		return fieldError("email", repository.ErrDuplicateEmail.Error())
	}
	if err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *authService) RegisterStudent(ctx context.Context, req *request.StudentRegisterRequest) (*response.StudentRegisterResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Student registration validation failed", zap.Error(err))
		return nil, err
	}
	if !utils.IsStrongPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}

	stream, err := s.repo.AcademicStream.FindByName(ctx, strings.TrimSpace(req.AcademicStream))
	if err != nil {
		return nil, fmt.Errorf("find academic stream: %w", err)
	}
	if stream == nil {
		return nil, fieldError("academic_stream", "Unknown academic stream")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:         email,
		PasswordHash:  hashedPassword,
		Role:          entity.RoleStudent,
		EmailVerified: false,
		IsActive:      true,
		Profile: entity.Profile{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			Wilaya:      strings.TrimSpace(req.Wilaya),
			PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		},
		Student: &entity.StudentDetails{AcademicStream: stream.Name},
	}

	if err := s.create(ctx, user); err != nil {
		return nil, err
	}

	// delivery failure is reported, registration stands
	sent := true
	if err := s.verification.send(ctx, user, token.PurposeVerify); err != nil {
		s.log.Warn("Verification email not sent after registration",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		sent = false
	}

	s.log.Info("Student registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &response.StudentRegisterResponse{
		StudentResponse:       response.StudentToResponse(user),
		VerificationEmailSent: sent,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func (s *authService) RegisterProfessor(ctx context.Context, req *request.ProfessorRegisterRequest) (*response.ProfessorRegisterResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Professor registration validation failed", zap.Error(err))
		return nil, err
	}
	if !utils.IsStrongPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, fieldError("date_of_birth", "Invalid date, expected YYYY-MM-DD")
	}
	now := s.now().UTC()
	switch age := entity.Age(dob, now); {
	case age < minProfessorAge:
		return nil, fieldError("date_of_birth", "You must be at least 18 years old to register as a professor")
	case age > maxProfessorAge:
		return nil, fieldError("date_of_birth", "Please enter a valid date of birth")
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleProfessor,
		// professors are vetted by an admin instead of by email
		EmailVerified: true,
		IsActive:      true,
		Profile: entity.Profile{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			Wilaya:      strings.TrimSpace(req.Wilaya),
			PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		},
		Professor: &entity.ProfessorDetails{
			Gender:         entity.Gender(req.Gender),
			DateOfBirth:    dob,
			ExpSchool:      req.ExpSchool,
			ExpSchoolYears: req.ExpSchoolYears,
			ExpOffSchool:   req.ExpOffSchool,
			ExpOnline:      req.ExpOnline,
			ApprovalStatus: entity.ApprovalPending,
		},
	}

	if err := s.create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("Professor registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.ProfessorRegisterToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, role entity.UserRole, req *request.LoginRequest) (*response.LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkUserType(role, req.UserType); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		utils.CheckPasswordHash(req.Password, dummyHash())
		s.log.Warn("Login for unknown email", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if user.Role != role {
		s.log.Warn("Login role mismatch",
			zap.String("user_id", user.ID.String()),
			zap.String("role", string(user.Role)),
			zap.String("requested", string(role)))
		return nil, ErrInvalidCredentials
	}

	if err := s.checkAccountState(user); err != nil {
		s.log.Warn("Login refused", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, err
	}

	if user.IsStudent() && s.config.Auth.RequireEmailVerification && !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	pair, err := s.tokens.Issue(subjectOf(user))
	if err != nil {
		s.log.Error("Failed to issue tokens", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := response.LoginToResponse(user, pair, s.now())
	return &resp, nil
}

func (s *authService) checkAccountState(user *entity.User) error {
	if !user.IsActive {
		return ErrAccountDeactivated
	}
	if user.IsProfessor() && (user.Professor == nil || !user.Professor.ApprovalStatus.AllowsLogin()) {
		return ErrAccountNotApproved
	}
	return nil
}

func sessionTokenError(err error) error {
	if errors.Is(err, token.ErrExpiredToken) {
		return ErrExpiredToken
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}

// RefreshToken rotates a refresh token into a new pair after re-reading the
// account, so role changes and deactivation take effect.
func (s *authService) RefreshToken(ctx context.Context, role entity.UserRole, req *request.RefreshTokenRequest) (*response.RefreshResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	claims, err := s.tokens.Verify(req.RefreshToken, token.TypeRefresh)
	if err != nil {
		return nil, sessionTokenError(err)
	}
	if claims.Role != string(role) {
		return nil, fmt.Errorf("%w: token role %s on %s endpoint", ErrInvalidToken, claims.Role, role)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || string(user.Role) != claims.Role {
		return nil, ErrInvalidToken
	}
	if err := s.checkAccountState(user); err != nil {
		return nil, err
	}

	pair, err := s.tokens.Issue(subjectOf(user))
	if err != nil {
		s.log.Error("Failed to issue tokens", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	return &response.RefreshResponse{Token: response.PairToResponse(pair, s.now())}, nil
}

// Logout checks that the refresh token belongs to the caller. Tokens are
// stateless, so discarding them is up to the client.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID, req *request.LogoutRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	claims, err := s.tokens.Verify(req.RefreshToken, token.TypeRefresh)
	if errors.Is(err, token.ErrExpiredToken) {
		return nil
	}
	if err != nil {
		return sessionTokenError(err)
	}
	if claims.UserID != userID.String() {
		return fmt.Errorf("%w: refresh token belongs to another user", ErrInvalidToken)
	}

	s.log.Info("User logged out",
		zap.String("user_id", userID.String()),
		zap.String("jti", claims.ID))
	return nil
}
