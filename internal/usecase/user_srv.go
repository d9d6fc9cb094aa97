package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/dto/response"
)

type UserService interface {
	GetStudentProfile(ctx context.Context, userID uuid.UUID) (*response.StudentResponse, error)
	UpdateStudentProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateStudentProfileRequest) (*response.StudentResponse, error)
	GetStudentByID(ctx context.Context, studentID string) (*response.StudentResponse, error)
	GetProfessorProfile(ctx context.Context, userID uuid.UUID) (*response.ProfessorResponse, error)
	GetAdminProfile(ctx context.Context, userID uuid.UUID) (*response.AdminResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  clock
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
		now:  time.Now,
	}
}

// findWithRole loads a user and reports NotFound unless it has role.
func (us *userService) findWithRole(ctx context.Context, id uuid.UUID, role entity.UserRole) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.Role != role {
		return nil, fmt.Errorf("%w: %s profile", ErrNotFound, role)
	}
	return user, nil
}

func (us *userService) GetStudentProfile(ctx context.Context, userID uuid.UUID) (*response.StudentResponse, error) {
	user, err := us.findWithRole(ctx, userID, entity.RoleStudent)
	if err != nil {
		return nil, err
	}

	resp := response.StudentToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateStudentProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateStudentProfileRequest) (*response.StudentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findWithRole(ctx, userID, entity.RoleStudent)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Wilaya != nil {
		user.Wilaya = strings.TrimSpace(*req.Wilaya)
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.AcademicStream != nil {
		stream, err := us.repo.AcademicStream.FindByName(ctx, strings.TrimSpace(*req.AcademicStream))
		if err != nil {
			return nil, fmt.Errorf("find academic stream: %w", err)
		}
		if stream == nil {
			return nil, fieldError("academic_stream", "Unknown academic stream")
		}
		if user.Student == nil {
			user.Student = &entity.StudentDetails{}
		}
		user.Student.AcademicStream = stream.Name
	}
	user.UpdatedAt = us.now().UTC()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	us.log.Info("Student profile updated", zap.String("user_id", userID.String()))

	resp := response.StudentToResponse(user)
	return &resp, nil
}

func (us *userService) GetStudentByID(ctx context.Context, studentID string) (*response.StudentResponse, error) {
	id, err := uuid.Parse(studentID)
	if err != nil {
		return nil, fieldError("id", "Invalid student ID")
	}

	user, err := us.findWithRole(ctx, id, entity.RoleStudent)
	if err != nil {
		return nil, err
	}

	resp := response.StudentToResponse(user)
	return &resp, nil
}

func (us *userService) GetProfessorProfile(ctx context.Context, userID uuid.UUID) (*response.ProfessorResponse, error) {
	user, err := us.findWithRole(ctx, userID, entity.RoleProfessor)
	if err != nil {
		return nil, err
	}

	resp := response.ProfessorToResponse(user)
	return &resp, nil
}

func (us *userService) GetAdminProfile(ctx context.Context, userID uuid.UUID) (*response.AdminResponse, error) {
	user, err := us.findWithRole(ctx, userID, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	resp := response.AdminToResponse(user)
	return &resp, nil
}
