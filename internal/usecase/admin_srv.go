package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/dto/response"
	"sauvini-api/pkg/mailer"
	"sauvini-api/pkg/utils"
)

type AdminService interface {
	ApproveProfessor(ctx context.Context, req *request.ProfessorDecisionRequest) (*response.ProfessorDecisionResponse, error)
	RejectProfessor(ctx context.Context, req *request.ProfessorDecisionRequest) (*response.ProfessorDecisionResponse, error)
	ListProfessors(ctx context.Context, status string) ([]response.ProfessorResponse, error)
	ListStudents(ctx context.Context, req *request.StudentListRequest) (*response.StudentListResponse, error)
	GetStudent(ctx context.Context, studentID string) (*response.StudentResponse, error)
	DeactivateStudent(ctx context.Context, studentID string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

type adminService struct {
	repo *repository.Repository
	mail mailer.Mailer
	log  *zap.Logger
	now  clock
}

func NewAdminService(repo *repository.Repository, mail mailer.Mailer, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		mail: mail,
		log:  log.With(zap.String("service", "admin")),
		now:  time.Now,
	}
}

func (as *adminService) ApproveProfessor(ctx context.Context, req *request.ProfessorDecisionRequest) (*response.ProfessorDecisionResponse, error) {
	return as.decide(ctx, req, entity.ApprovalApproved)
}

func (as *adminService) RejectProfessor(ctx context.Context, req *request.ProfessorDecisionRequest) (*response.ProfessorDecisionResponse, error) {
	return as.decide(ctx, req, entity.ApprovalRejected)
}

func (as *adminService) findProfessor(ctx context.Context, rawID string) (*entity.User, error) {
	if rawID == "" {
		return nil, fieldError("professor_id", "professor_id is required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fieldError("professor_id", "Invalid professor ID")
	}

	user, err := as.repo.User.FindByID(ctx, id)
	if err != nil {
		as.log.Error("Failed to find professor", zap.Error(err), zap.String("professor_id", rawID))
		return nil, fmt.Errorf("find professor: %w", err)
	}
	if user == nil || !user.IsProfessor() || user.Professor == nil {
		return nil, fmt.Errorf("%w: professor %s", ErrNotFound, rawID)
	}
	return user, nil
}

// decide applies an approval decision. The write is conditional on the status
// that was read, so of two concurrent decisions only one takes effect.
func (as *adminService) decide(ctx context.Context, req *request.ProfessorDecisionRequest, to entity.ApprovalStatus) (*response.ProfessorDecisionResponse, error) {
	user, err := as.findProfessor(ctx, req.TargetID())
	if err != nil {
		return nil, err
	}

	from := user.Professor.ApprovalStatus
	next, err := from.TransitionTo(to)
	if err != nil {
		as.log.Warn("Rejected approval transition",
			zap.String("professor_id", user.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		return nil, err
	}

	if err := as.repo.User.UpdateApprovalStatus(ctx, user.ID, from, next); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		as.log.Error("Failed to update approval status", zap.Error(err), zap.String("professor_id", user.ID.String()))
		return nil, fmt.Errorf("update approval status: %w", err)
	}

	sent := true
	msg := mailer.ProfessorDecisionEmail(user.Email, user.FullName(), next == entity.ApprovalApproved)
	if err := as.mail.Send(ctx, msg); err != nil {
		as.log.Warn("Decision email not sent", zap.Error(err), zap.String("professor_id", user.ID.String()))
		sent = false
	}

	as.log.Info("Professor decision recorded",
		zap.String("professor_id", user.ID.String()),
		zap.String("status", string(next)))

	return &response.ProfessorDecisionResponse{
		ProfessorID:      user.ID.String(),
		Status:           next,
		NotificationSent: sent,
	}, nil
}

func (as *adminService) ListProfessors(ctx context.Context, status string) ([]response.ProfessorResponse, error) {
	var filter *entity.ApprovalStatus
	if status != "" {
		s, err := entity.ParseApprovalStatus(status)
		if err != nil {
			return nil, fieldError("status", "status must be one of pending approved rejected")
		}
		filter = &s
	}

	professors, err := as.repo.User.FindProfessors(ctx, filter)
	if err != nil {
		as.log.Error("Failed to list professors", zap.Error(err))
		return nil, fmt.Errorf("list professors: %w", err)
	}

	return response.ProfessorsToResponse(professors), nil
}

func (as *adminService) ListStudents(ctx context.Context, req *request.StudentListRequest) (*response.StudentListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	filter := repository.StudentFilter{
		Search:         req.Search,
		Wilaya:         req.Wilaya,
		AcademicStream: req.AcademicStream,
		EmailVerified:  req.EmailVerified,
	}

	students, err := as.repo.User.FindStudents(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		as.log.Error("Failed to get students",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("list students: %w", err)
	}

	total, err := as.repo.User.CountStudents(ctx, filter)
	if err != nil {
		as.log.Error("Failed to count students", zap.Error(err))
		return nil, fmt.Errorf("count students: %w", err)
	}

	as.log.Debug("Students retrieved",
		zap.Int("count", len(students)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", req.PerPage),
		zap.Int("total_pages", utils.CalculateTotalPages(total, req.PerPage)),
	)

	return &response.StudentListResponse{
		Students:       response.StudentsToResponse(students),
		PaginationMeta: response.NewPaginationMeta(req.Page, req.PerPage, total),
	}, nil
}

func (as *adminService) findStudent(ctx context.Context, studentID string) (*entity.User, error) {
	id, err := uuid.Parse(studentID)
	if err != nil {
		return nil, fieldError("id", "Invalid student ID")
	}

	user, err := as.repo.User.FindByID(ctx, id)
	if err != nil {
		as.log.Error("Failed to find student", zap.Error(err), zap.String("student_id", studentID))
		return nil, fmt.Errorf("find student: %w", err)
	}
	if user == nil || !user.IsStudent() {
		return nil, fmt.Errorf("%w: student %s", ErrNotFound, studentID)
	}
	return user, nil
}

func (as *adminService) GetStudent(ctx context.Context, studentID string) (*response.StudentResponse, error) {
	user, err := as.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := response.StudentToResponse(user)
	return &resp, nil
}

// DeactivateStudent soft-disables the account; the record is kept.
func (as *adminService) DeactivateStudent(ctx context.Context, studentID string) error {
	user, err := as.findStudent(ctx, studentID)
	if err != nil {
		return err
	}

	if err := as.repo.User.Deactivate(ctx, user.ID); err != nil {
		as.log.Error("Failed to deactivate student", zap.Error(err), zap.String("student_id", studentID))
		return fmt.Errorf("deactivate student: %w", err)
	}

	as.log.Info("Student deactivated", zap.String("student_id", studentID), zap.String("email", user.Email))
	return nil
}

// EnsureAdmin creates the bootstrap admin when it does not exist yet. An
// existing admin keeps its password.
func (as *adminService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		as.log.Info("Admin bootstrap skipped, ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	existing, err := as.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			return fmt.Errorf("bootstrap admin %s: email belongs to a %s account", email, existing.Role)
		}
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := as.now().UTC()
	admin := &entity.User{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:         email,
		PasswordHash:  hashedPassword,
		Role:          entity.RoleAdmin,
		EmailVerified: true,
		IsActive:      true,
	}

	if err := as.repo.User.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	as.log.Info("Bootstrap admin created", zap.String("email", email))
	return nil
}
