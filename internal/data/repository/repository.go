package repository

import (
	"go.uber.org/zap"

	"sauvini-api/pkg/database"
)

type Repository struct {
	User           UserRepository
	AcademicStream AcademicStreamRepository
	Course         CourseRepository
	Enrollment     EnrollmentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:           NewUserRepository(db, log),
		AcademicStream: NewAcademicStreamRepository(db, log),
		Course:         NewCourseRepository(db, log),
		Enrollment:     NewEnrollmentRepository(db, log),
	}
}
