package response

import (
	"time"

	"sauvini-api/internal/data/entity"
)

type ModuleResponse struct {
	ID              string                   `json:"id"`
	CustomID        *string                  `json:"custom_id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	ImagePath       *string                  `json:"image_path"`
	Color           string                   `json:"color"`
	AcademicStreams []AcademicStreamResponse `json:"academic_streams"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type ChapterResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	Price           float64                  `json:"price"`
	Module          string                   `json:"module"`
	AcademicStreams []AcademicStreamResponse `json:"academic_streams"`
}

// LessonStreamResponse carries labelKey for the frontend stream picker.
type LessonStreamResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LabelKey string `json:"labelKey"`
}

type LessonResponse struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	Image             *string                `json:"image"`
	Duration          int                    `json:"duration"`
	Order             int                    `json:"order"`
	VideoURL          *string                `json:"video_url"`
	PDFURL            *string                `json:"pdf_url"`
	ExerciseTotalMark int                    `json:"exercise_total_mark"`
	ExerciseTotalXP   int                    `json:"exercise_total_xp"`
	AcademicStreams   []LessonStreamResponse `json:"academic_streams"`
	StreamIDs         []string               `json:"stream_ids"`
	Chapter           string                 `json:"chapter"`
	ChapterID         string                 `json:"chapter_id"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

type EnrollmentResponse struct {
	ID          string          `json:"id"`
	Module      *ModuleResponse `json:"module"`
	StudentName string          `json:"student_name"`
	EnrolledAt  time.Time       `json:"enrolled_at"`
	IsActive    bool            `json:"is_active"`
}

type EnrollmentStatusResponse struct {
	IsEnrolled bool   `json:"is_enrolled"`
	ModuleID   string `json:"module_id"`
}

func streamsToResponse(streams []entity.AcademicStream) []AcademicStreamResponse {
	out := make([]AcademicStreamResponse, 0, len(streams))
	for _, s := range streams {
		out = append(out, AcademicStreamResponse{ID: s.ID.String(), Name: s.Name, NameAr: s.NameAr})
	}
	return out
}

func ModuleToResponse(m *entity.Module) ModuleResponse {
	return ModuleResponse{
		ID:              m.ID.String(),
		CustomID:        m.CustomID,
		Name:            m.Name,
		Description:     m.Description,
		ImagePath:       m.ImagePath,
		Color:           m.Color,
		AcademicStreams: streamsToResponse(m.Streams),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ModulesToResponse(modules []*entity.Module) []ModuleResponse {
	out := make([]ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, ModuleToResponse(m))
	}
	return out
}

func ChapterToResponse(c *entity.Chapter) ChapterResponse {
	return ChapterResponse{
		ID:              c.ID.String(),
		Name:            c.Name,
		Description:     c.Description,
		Price:           c.Price,
		Module:          c.ModuleID.String(),
		AcademicStreams: streamsToResponse(c.Streams),
	}
}

func ChaptersToResponse(chapters []*entity.Chapter) []ChapterResponse {
	out := make([]ChapterResponse, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, ChapterToResponse(c))
	}
	return out
}

func LessonToResponse(l *entity.Lesson) LessonResponse {
	streams := make([]LessonStreamResponse, 0, len(l.Streams))
	ids := make([]string, 0, len(l.Streams))
	for _, s := range l.Streams {
		streams = append(streams, LessonStreamResponse{ID: s.ID.String(), Name: s.Name, LabelKey: s.Name})
		ids = append(ids, s.ID.String())
	}

	return LessonResponse{
		ID:                l.ID.String(),
		Title:             l.Title,
		Description:       l.Description,
		Image:             l.Image,
		Duration:          l.Duration,
		Order:             l.Order,
		VideoURL:          l.VideoURL,
		PDFURL:            l.PDFURL,
		ExerciseTotalMark: l.ExerciseTotalMark,
		ExerciseTotalXP:   l.ExerciseTotalXP,
		AcademicStreams:   streams,
		StreamIDs:         ids,
		Chapter:           l.ChapterID.String(),
		ChapterID:         l.ChapterID.String(),
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func LessonsToResponse(lessons []*entity.Lesson) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, LessonToResponse(l))
	}
	return out
}

func EnrollmentToResponse(e *entity.ModuleEnrollment, studentName string) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:          e.ID.String(),
		StudentName: studentName,
		EnrolledAt:  e.EnrolledAt,
		IsActive:    e.IsActive,
	}
	if e.Module != nil {
		m := ModuleToResponse(e.Module)
		resp.Module = &m
	}
	return resp
}
