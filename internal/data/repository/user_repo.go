package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/pkg/database"
)

// StudentFilter narrows the admin student listing. Empty fields are ignored.
type StudentFilter struct {
	Search         string
	Wilaya         string
	AcademicStream string
	EmailVerified  *bool
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindStudents(ctx context.Context, filter StudentFilter, limit, offset int) ([]*entity.User, error)
	CountStudents(ctx context.Context, filter StudentFilter) (int64, error)
	FindProfessors(ctx context.Context, status *entity.ApprovalStatus) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, oldHash, newHash string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdateApprovalStatus(ctx context.Context, id uuid.UUID, from, to entity.ApprovalStatus) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `
	id, email, password, role, email_verified, is_active,
	first_name, last_name, wilaya, phone_number, profile_picture_path,
	academic_stream,
	gender, date_of_birth, exp_school, exp_school_years, exp_off_school, exp_online,
	cv_path, approval_status,
	created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		user           entity.User
		academicStream *string
		gender         *string
		dateOfBirth    *time.Time
		expSchool      bool
		expSchoolYears *int
		expOffSchool   bool
		expOnline      bool
		cvPath         *string
		approvalStatus *string
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.EmailVerified,
		&user.IsActive,
		&user.FirstName,
		&user.LastName,
		&user.Wilaya,
		&user.PhoneNumber,
		&user.ProfilePicturePath,
		&academicStream,
		&gender,
		&dateOfBirth,
		&expSchool,
		&expSchoolYears,
		&expOffSchool,
		&expOnline,
		&cvPath,
		&approvalStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case entity.RoleStudent:
		user.Student = &entity.StudentDetails{}
		if academicStream != nil {
			user.Student.AcademicStream = *academicStream
		}
	case entity.RoleProfessor:
		prof := &entity.ProfessorDetails{
			ExpSchool:      expSchool,
			ExpSchoolYears: expSchoolYears,
			ExpOffSchool:   expOffSchool,
			ExpOnline:      expOnline,
			CVPath:         cvPath,
			ApprovalStatus: entity.ApprovalPending,
		}
		if gender != nil {
			prof.Gender = entity.Gender(*gender)
		}
		if dateOfBirth != nil {
			prof.DateOfBirth = *dateOfBirth
		}
		if approvalStatus != nil {
			prof.ApprovalStatus = entity.ApprovalStatus(*approvalStatus)
		}
		user.Professor = prof
	}

	return &user, nil
}

// Create inserts a user with its role payload. A taken email returns
// ErrDuplicateEmail.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password, role, email_verified, is_active,
		                   first_name, last_name, wilaya, phone_number, profile_picture_path,
		                   academic_stream,
		                   gender, date_of_birth, exp_school, exp_school_years, exp_off_school, exp_online,
		                   cv_path, approval_status,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	var (
		academicStream *string
		gender         *string
		dateOfBirth    *time.Time
		expSchool      bool
		expSchoolYears *int
		expOffSchool   bool
		expOnline      bool
		cvPath         *string
		approvalStatus *string
	)
	if s := user.Student; s != nil {
		academicStream = &s.AcademicStream
	}
	if p := user.Professor; p != nil {
		g := string(p.Gender)
		status := string(p.ApprovalStatus)
		dob := p.DateOfBirth
		gender, dateOfBirth, approvalStatus = &g, &dob, &status
		expSchool, expSchoolYears, expOffSchool, expOnline = p.ExpSchool, p.ExpSchoolYears, p.ExpOffSchool, p.ExpOnline
		cvPath = p.CVPath
	}

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.EmailVerified,
		user.IsActive,
		user.FirstName,
		user.LastName,
		user.Wilaya,
		user.PhoneNumber,
		user.ProfilePicturePath,
		academicStream,
		gender,
		dateOfBirth,
		expSchool,
		expSchoolYears,
		expOffSchool,
		expOnline,
		cvPath,
		approvalStatus,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicateEmail)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

// FindByEmail matches case-insensitively.
func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func studentWhere(filter StudentFilter) (string, []any) {
	conds := []string{"role = 'student'"}
	var args []any

	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if w := strings.TrimSpace(filter.Wilaya); w != "" {
		args = append(args, "%"+w+"%")
		conds = append(conds, fmt.Sprintf("wilaya ILIKE $%d", len(args)))
	}
	if a := strings.TrimSpace(filter.AcademicStream); a != "" {
		args = append(args, "%"+a+"%")
		conds = append(conds, fmt.Sprintf("academic_stream ILIKE $%d", len(args)))
	}
	if filter.EmailVerified != nil {
		args = append(args, *filter.EmailVerified)
		conds = append(conds, fmt.Sprintf("email_verified = $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

// FindStudents returns a page of students, newest first.
func (ur *userRepository) FindStudents(ctx context.Context, filter StudentFilter, limit, offset int) ([]*entity.User, error) {
	where, args := studentWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := ur.db.Query(ctx, query, args...)
	if err != nil {
		ur.log.Error("Failed to get students",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find students limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	return ur.collect(rows)
}

func (ur *userRepository) CountStudents(ctx context.Context, filter StudentFilter) (int64, error) {
	where, args := studentWhere(filter)
	query := `SELECT COUNT(*) FROM users WHERE ` + where

	var count int64
	if err := ur.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		ur.log.Error("Database error counting students", zap.Error(err))
		return 0, fmt.Errorf("count students: %w", err)
	}

	return count, nil
}

// FindProfessors lists professors, optionally restricted to one status.
func (ur *userRepository) FindProfessors(ctx context.Context, status *entity.ApprovalStatus) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'professor'`
	var args []any
	if status != nil {
		query += ` AND approval_status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := ur.db.Query(ctx, query, args...)
	if err != nil {
		ur.log.Error("Failed to get professors", zap.Error(err))
		return nil, fmt.Errorf("find professors: %w", err)
	}
	defer rows.Close()

	return ur.collect(rows)
}

func (ur *userRepository) collect(rows pgx.Rows) ([]*entity.User, error) {
	users := make([]*entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

// Update writes the profile fields and the student's academic stream.
// Credentials, role and approval state have dedicated methods.
func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, wilaya = $4, phone_number = $5,
		    profile_picture_path = $6,
		    academic_stream = COALESCE($7, academic_stream),
		    updated_at = $8
		WHERE id = $1
	`

	var academicStream *string
	if user.Student != nil {
		academicStream = &user.Student.AcademicStream
	}

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Wilaya,
		user.PhoneNumber,
		user.ProfilePicturePath,
		academicStream,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update user %s: %w", user.ID.String(), ErrNotFound)
	}

	return nil
}

// UpdatePassword replaces the password hash only while the stored hash still
// equals oldHash; otherwise it returns ErrStaleState.
func (ur *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, oldHash, newHash string) error {
	query := `UPDATE users SET password = $3, updated_at = NOW() WHERE id = $1 AND password = $2`

	result, err := ur.db.Exec(ctx, query, id, oldHash, newHash)
	if err != nil {
		ur.log.Error("Failed to update password",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("update password %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update password %s: %w", id.String(), ErrStaleState)
	}

	return nil
}

func (ur *userRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to mark email verified",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("mark email verified %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark email verified %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// UpdateApprovalStatus moves a professor from one status to another only if
// the stored status still equals from; otherwise it returns ErrStaleState.
func (ur *userRepository) UpdateApprovalStatus(ctx context.Context, id uuid.UUID, from, to entity.ApprovalStatus) error {
	query := `
		UPDATE users
		SET approval_status = $3, updated_at = NOW()
		WHERE id = $1 AND role = 'professor' AND approval_status = $2
	`

	result, err := ur.db.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		ur.log.Error("Failed to update approval status",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return fmt.Errorf("update approval status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update approval status %s from %s: %w", id.String(), from, ErrStaleState)
	}

	ur.log.Info("Approval status changed",
		zap.String("user_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

// Deactivate soft-disables an account. Users are never hard-deleted.
func (ur *userRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to deactivate user",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("deactivate user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("deactivate user %s: %w", id.String(), ErrNotFound)
	}

	ur.log.Info("User deactivated", zap.String("id", id.String()))
	return nil
}
