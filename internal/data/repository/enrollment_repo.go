package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/pkg/database"
)

type EnrollmentRepository interface {
	// Enroll creates an active enrollment, reactivating a previous one.
	// It returns ErrAlreadyExists when the student is already enrolled.
	Enroll(ctx context.Context, studentID, moduleID uuid.UUID) (*entity.ModuleEnrollment, error)
	// Unenroll deactivates the enrollment; ErrNotFound when none is active.
	Unenroll(ctx context.Context, studentID, moduleID uuid.UUID) error
	FindActiveByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.ModuleEnrollment, error)
	IsEnrolled(ctx context.Context, studentID, moduleID uuid.UUID) (bool, error)
}

type enrollmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEnrollmentRepository(db database.PgxIface, log *zap.Logger) EnrollmentRepository {
	return &enrollmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "enrollment")),
	}
}

func (er *enrollmentRepository) Enroll(ctx context.Context, studentID, moduleID uuid.UUID) (*entity.ModuleEnrollment, error) {
	query := `
		INSERT INTO module_enrollments (id, student_id, module_id, enrolled_at, is_active)
		VALUES ($1, $2, $3, NOW(), TRUE)
		ON CONFLICT (student_id, module_id) DO UPDATE
			SET is_active = TRUE, enrolled_at = NOW()
			WHERE module_enrollments.is_active = FALSE
		RETURNING id, enrolled_at
	`

	e := &entity.ModuleEnrollment{StudentID: studentID, ModuleID: moduleID, IsActive: true}
	err := er.db.QueryRow(ctx, query, uuid.New(), studentID, moduleID).Scan(&e.ID, &e.EnrolledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("enroll %s in %s: %w", studentID.String(), moduleID.String(), ErrAlreadyExists)
	}
	if err != nil {
		er.log.Error("Failed to enroll student",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
			zap.String("module_id", moduleID.String()),
		)
		return nil, fmt.Errorf("enroll %s in %s: %w", studentID.String(), moduleID.String(), err)
	}

	er.log.Info("Student enrolled",
		zap.String("student_id", studentID.String()),
		zap.String("module_id", moduleID.String()),
	)
	return e, nil
}

func (er *enrollmentRepository) Unenroll(ctx context.Context, studentID, moduleID uuid.UUID) error {
	query := `
		UPDATE module_enrollments SET is_active = FALSE
		WHERE student_id = $1 AND module_id = $2 AND is_active
	`

	result, err := er.db.Exec(ctx, query, studentID, moduleID)
	if err != nil {
		er.log.Error("Failed to unenroll student",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
			zap.String("module_id", moduleID.String()),
		)
		return fmt.Errorf("unenroll %s from %s: %w", studentID.String(), moduleID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("unenroll %s from %s: %w", studentID.String(), moduleID.String(), ErrNotFound)
	}
	return nil
}

// FindActiveByStudent returns active enrollments, newest first, with their
// modules loaded.
func (er *enrollmentRepository) FindActiveByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.ModuleEnrollment, error) {
	query := `
		SELECT e.id, e.enrolled_at,
		       m.id, m.custom_id, m.name, m.description, m.image_path, m.color, m.created_at, m.updated_at
		FROM module_enrollments e
		JOIN modules m ON m.id = e.module_id
		WHERE e.student_id = $1 AND e.is_active
		ORDER BY e.enrolled_at DESC
	`

	rows, err := er.db.Query(ctx, query, studentID)
	if err != nil {
		er.log.Error("Failed to get enrollments", zap.Error(err), zap.String("student_id", studentID.String()))
		return nil, fmt.Errorf("find enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*entity.ModuleEnrollment, 0)
	moduleIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		e := &entity.ModuleEnrollment{StudentID: studentID, IsActive: true, Module: &entity.Module{}}
		m := e.Module
		if err := rows.Scan(
			&e.ID, &e.EnrolledAt,
			&m.ID, &m.CustomID, &m.Name, &m.Description, &m.ImagePath, &m.Color, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment row: %w", err)
		}
		e.ModuleID = m.ID
		enrollments = append(enrollments, e)
		moduleIDs = append(moduleIDs, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollment rows: %w", err)
	}

	streams, err := loadStreams(ctx, er.db, moduleStreams, moduleIDs)
	if err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		e.Module.Streams = streams[e.ModuleID]
	}
	return enrollments, nil
}

func (er *enrollmentRepository) IsEnrolled(ctx context.Context, studentID, moduleID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM module_enrollments
			WHERE student_id = $1 AND module_id = $2 AND is_active
		)
	`

	var enrolled bool
	if err := er.db.QueryRow(ctx, query, studentID, moduleID).Scan(&enrolled); err != nil {
		er.log.Error("Failed to check enrollment", zap.Error(err))
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}
