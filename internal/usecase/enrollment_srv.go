package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/dto/response"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID uuid.UUID, moduleID string) (*response.EnrollmentResponse, error)
	Unenroll(ctx context.Context, studentID uuid.UUID, moduleID string) error
	ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]response.EnrollmentResponse, error)
	Status(ctx context.Context, studentID uuid.UUID, moduleID string) (*response.EnrollmentStatusResponse, error)
}

type enrollmentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEnrollmentService(repo *repository.Repository, log *zap.Logger) EnrollmentService {
	return &enrollmentService{
		repo: repo,
		log:  log.With(zap.String("service", "enrollment")),
	}
}

func (es *enrollmentService) findStudent(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := es.repo.User.FindByID(ctx, id)
	if err != nil {
		es.log.Error("Failed to find student", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find student: %w", err)
	}
	if user == nil || !user.IsStudent() {
		return nil, fmt.Errorf("%w: student profile", ErrNotFound)
	}
	return user, nil
}

// Enroll activates the student's enrollment in a module. A previously
// cancelled enrollment is reactivated with a fresh enrolled_at.
func (es *enrollmentService) Enroll(ctx context.Context, studentID uuid.UUID, moduleID string) (*response.EnrollmentResponse, error) {
	mid, err := parseID("module_id", moduleID)
	if err != nil {
		return nil, err
	}
	student, err := es.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	module, err := es.repo.Course.FindModuleByID(ctx, mid)
	if err != nil {
		es.log.Error("Failed to find module", zap.Error(err), zap.String("module_id", moduleID))
		return nil, fmt.Errorf("find module: %w", err)
	}
	if module == nil {
		return nil, fmt.Errorf("%w: module %s", ErrNotFound, moduleID)
	}

	enrollment, err := es.repo.Enrollment.Enroll(ctx, student.ID, module.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("enroll: %w", err)
	}
	enrollment.Module = module

	es.log.Info("Student enrolled",
		zap.String("student_id", student.ID.String()),
		zap.String("module_id", module.ID.String()),
	)
	resp := response.EnrollmentToResponse(enrollment, student.FullName())
	return &resp, nil
}

func (es *enrollmentService) Unenroll(ctx context.Context, studentID uuid.UUID, moduleID string) error {
	mid, err := parseID("module_id", moduleID)
	if err != nil {
		return err
	}

	if err := es.repo.Enrollment.Unenroll(ctx, studentID, mid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: not enrolled in module %s", ErrNotFound, moduleID)
		}
		return fmt.Errorf("unenroll: %w", err)
	}

	es.log.Info("Student unenrolled",
		zap.String("student_id", studentID.String()),
		zap.String("module_id", moduleID),
	)
	return nil
}

func (es *enrollmentService) ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]response.EnrollmentResponse, error) {
	student, err := es.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	enrollments, err := es.repo.Enrollment.FindActiveByStudent(ctx, student.ID)
	if err != nil {
		es.log.Error("Failed to list enrollments", zap.Error(err), zap.String("student_id", studentID.String()))
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	out := make([]response.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, response.EnrollmentToResponse(e, student.FullName()))
	}
	return out, nil
}

// Status reports whether the student holds an active enrollment. An unknown
// module reports false.
func (es *enrollmentService) Status(ctx context.Context, studentID uuid.UUID, moduleID string) (*response.EnrollmentStatusResponse, error) {
	mid, err := parseID("module_id", moduleID)
	if err != nil {
		return nil, err
	}

	enrolled, err := es.repo.Enrollment.IsEnrolled(ctx, studentID, mid)
	if err != nil {
		return nil, fmt.Errorf("enrollment status: %w", err)
	}
	return &response.EnrollmentStatusResponse{IsEnrolled: enrolled, ModuleID: mid.String()}, nil
}
