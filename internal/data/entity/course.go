package entity

import (
	"time"

	"github.com/google/uuid"
)

// Module is a subject in the catalogue, e.g. Mathematics for one or more
// academic streams.
type Module struct {
	Base
	CustomID    *string `db:"custom_id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	ImagePath   *string `db:"image_path"`
	Color       string  `db:"color"`
	Streams     []AcademicStream
}

type Chapter struct {
	ID          uuid.UUID `db:"id"`
	ModuleID    uuid.UUID `db:"module_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	// Price is in DZD.
	Price   float64 `db:"price"`
	Streams []AcademicStream
}

type Lesson struct {
	Base
	ChapterID         uuid.UUID `db:"chapter_id"`
	Title             string    `db:"title"`
	Description       string    `db:"description"`
	Image             *string   `db:"image"`
	Duration          int       `db:"duration"` // minutes
	Order             int       `db:"sort_order"`
	VideoURL          *string   `db:"video_url"`
	PDFURL            *string   `db:"pdf_url"`
	ExerciseTotalMark int       `db:"exercise_total_mark"`
	ExerciseTotalXP   int       `db:"exercise_total_xp"`
	Streams           []AcademicStream
}

// ModuleEnrollment links a student to a module. Unenrolling clears IsActive
// and keeps the row.
type ModuleEnrollment struct {
	ID         uuid.UUID `db:"id"`
	StudentID  uuid.UUID `db:"student_id"`
	ModuleID   uuid.UUID `db:"module_id"`
	EnrolledAt time.Time `db:"enrolled_at"`
	IsActive   bool      `db:"is_active"`
	Module     *Module
}
