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
)

// Lesson defaults applied when a create request leaves them out.
const (
	defaultLessonDuration = 30
	defaultLessonOrder    = 1
)

type CourseService interface {
	ListModules(ctx context.Context) ([]response.ModuleResponse, error)
	GetModule(ctx context.Context, moduleID string) (*response.ModuleResponse, error)
	CreateModule(ctx context.Context, req *request.CreateModuleRequest) (*response.ModuleResponse, error)

	ListChapters(ctx context.Context, moduleID string) ([]response.ChapterResponse, error)
	GetChapter(ctx context.Context, chapterID string) (*response.ChapterResponse, error)
	CreateChapter(ctx context.Context, req *request.CreateChapterRequest) (*response.ChapterResponse, error)
	UpdateChapter(ctx context.Context, chapterID string, req *request.UpdateChapterRequest) (*response.ChapterResponse, error)
	AddChapterStream(ctx context.Context, chapterID, streamID string) (*response.ChapterResponse, error)

	ListLessons(ctx context.Context, chapterID string) ([]response.LessonResponse, error)
	GetLesson(ctx context.Context, lessonID string) (*response.LessonResponse, error)
	CreateLesson(ctx context.Context, req *request.CreateLessonRequest) (*response.LessonResponse, error)
	UpdateLesson(ctx context.Context, lessonID string, req *request.UpdateLessonRequest) (*response.LessonResponse, error)
	DeleteLesson(ctx context.Context, lessonID string) error
}

type courseService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  clock
}

func NewCourseService(repo *repository.Repository, log *zap.Logger) CourseService {
	return &courseService{
		repo: repo,
		log:  log.With(zap.String("service", "course")),
		now:  time.Now,
	}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fieldError(field, "Invalid "+field)
	}
	return id, nil
}

// resolveStreams loads the streams named by raw ids. Every id must exist.
func (cs *courseService) resolveStreams(ctx context.Context, raw []string) ([]entity.AcademicStream, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := parseID("academic_streams", r)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	found, err := cs.repo.AcademicStream.FindByIDs(ctx, ids)
	if err != nil {
		cs.log.Error("Failed to load academic streams", zap.Error(err))
		return nil, fmt.Errorf("load academic streams: %w", err)
	}
	if len(found) != len(ids) {
		return nil, fieldError("academic_streams", "Unknown academic stream")
	}

	streams := make([]entity.AcademicStream, 0, len(found))
	for _, s := range found {
		streams = append(streams, *s)
	}
	return streams, nil
}

// ==================== MODULES ====================

func (cs *courseService) ListModules(ctx context.Context) ([]response.ModuleResponse, error) {
	modules, err := cs.repo.Course.FindModules(ctx)
	if err != nil {
		cs.log.Error("Failed to list modules", zap.Error(err))
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return response.ModulesToResponse(modules), nil
}

func (cs *courseService) findModule(ctx context.Context, rawID string) (*entity.Module, error) {
	id, err := parseID("module_id", rawID)
	if err != nil {
		return nil, err
	}

	module, err := cs.repo.Course.FindModuleByID(ctx, id)
	if err != nil {
		cs.log.Error("Failed to find module", zap.Error(err), zap.String("module_id", rawID))
		return nil, fmt.Errorf("find module: %w", err)
	}
	if module == nil {
		return nil, fmt.Errorf("%w: module %s", ErrNotFound, rawID)
	}
	return module, nil
}

func (cs *courseService) GetModule(ctx context.Context, moduleID string) (*response.ModuleResponse, error) {
	module, err := cs.findModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	resp := response.ModuleToResponse(module)
	return &resp, nil
}

func (cs *courseService) CreateModule(ctx context.Context, req *request.CreateModuleRequest) (*response.ModuleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	streams, err := cs.resolveStreams(ctx, req.AcademicStreams)
	if err != nil {
		return nil, err
	}

	now := cs.now()
	module := &entity.Module{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CustomID:    req.CustomID,
		Name:        req.Name,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		Color:       req.Color,
		Streams:     streams,
	}
	if err := cs.repo.Course.CreateModule(ctx, module); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}

	cs.log.Info("Module created", zap.String("module_id", module.ID.String()))
	resp := response.ModuleToResponse(module)
	return &resp, nil
}

// ==================== CHAPTERS ====================

func (cs *courseService) ListChapters(ctx context.Context, moduleID string) ([]response.ChapterResponse, error) {
	module, err := cs.findModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	chapters, err := cs.repo.Course.FindChaptersByModule(ctx, module.ID)
	if err != nil {
		cs.log.Error("Failed to list chapters", zap.Error(err), zap.String("module_id", moduleID))
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return response.ChaptersToResponse(chapters), nil
}

func (cs *courseService) findChapter(ctx context.Context, rawID string) (*entity.Chapter, error) {
	id, err := parseID("chapter_id", rawID)
	if err != nil {
		return nil, err
	}

	chapter, err := cs.repo.Course.FindChapterByID(ctx, id)
	if err != nil {
		cs.log.Error("Failed to find chapter", zap.Error(err), zap.String("chapter_id", rawID))
		return nil, fmt.Errorf("find chapter: %w", err)
	}
	if chapter == nil {
		return nil, fmt.Errorf("%w: chapter %s", ErrNotFound, rawID)
	}
	return chapter, nil
}

func (cs *courseService) GetChapter(ctx context.Context, chapterID string) (*response.ChapterResponse, error) {
	chapter, err := cs.findChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	resp := response.ChapterToResponse(chapter)
	return &resp, nil
}

func (cs *courseService) CreateChapter(ctx context.Context, req *request.CreateChapterRequest) (*response.ChapterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	module, err := cs.findModule(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}
	streams, err := cs.resolveStreams(ctx, req.AcademicStreams)
	if err != nil {
		return nil, err
	}

	chapter := &entity.Chapter{
		ID:          uuid.New(),
		ModuleID:    module.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Streams:     streams,
	}
	if err := cs.repo.Course.CreateChapter(ctx, chapter); err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}

	cs.log.Info("Chapter created",
		zap.String("chapter_id", chapter.ID.String()),
		zap.String("module_id", module.ID.String()),
	)
	resp := response.ChapterToResponse(chapter)
	return &resp, nil
}

func (cs *courseService) UpdateChapter(ctx context.Context, chapterID string, req *request.UpdateChapterRequest) (*response.ChapterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	chapter, err := cs.findChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		chapter.Name = *req.Name
	}
	if req.Description != nil {
		chapter.Description = *req.Description
	}
	if req.Price != nil {
		chapter.Price = *req.Price
	}
	if req.AcademicStreams != nil {
		if chapter.Streams, err = cs.resolveStreams(ctx, req.AcademicStreams); err != nil {
			return nil, err
		}
	}

	if err := cs.repo.Course.UpdateChapter(ctx, chapter); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: chapter %s", ErrNotFound, chapterID)
		}
		return nil, fmt.Errorf("update chapter: %w", err)
	}

	cs.log.Info("Chapter updated", zap.String("chapter_id", chapterID))
	resp := response.ChapterToResponse(chapter)
	return &resp, nil
}

// AddChapterStream links one more stream to a chapter. Linking a stream that
// is already present is a no-op.
func (cs *courseService) AddChapterStream(ctx context.Context, chapterID, streamID string) (*response.ChapterResponse, error) {
	chapter, err := cs.findChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	sid, err := parseID("stream_id", streamID)
	if err != nil {
		return nil, err
	}

	found, err := cs.repo.AcademicStream.FindByIDs(ctx, []uuid.UUID{sid})
	if err != nil {
		cs.log.Error("Failed to load academic stream", zap.Error(err), zap.String("stream_id", streamID))
		return nil, fmt.Errorf("load academic stream: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: academic stream %s", ErrNotFound, streamID)
	}

	if err := cs.repo.Course.AddChapterStream(ctx, chapter.ID, sid); err != nil {
		return nil, fmt.Errorf("add chapter stream: %w", err)
	}

	chapter, err = cs.findChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	resp := response.ChapterToResponse(chapter)
	return &resp, nil
}

// ==================== LESSONS ====================

func (cs *courseService) ListLessons(ctx context.Context, chapterID string) ([]response.LessonResponse, error) {
	chapter, err := cs.findChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	lessons, err := cs.repo.Course.FindLessonsByChapter(ctx, chapter.ID)
	if err != nil {
		cs.log.Error("Failed to list lessons", zap.Error(err), zap.String("chapter_id", chapterID))
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return response.LessonsToResponse(lessons), nil
}

func (cs *courseService) findLesson(ctx context.Context, rawID string) (*entity.Lesson, error) {
	id, err := parseID("lesson_id", rawID)
	if err != nil {
		return nil, err
	}

	lesson, err := cs.repo.Course.FindLessonByID(ctx, id)
	if err != nil {
		cs.log.Error("Failed to find lesson", zap.Error(err), zap.String("lesson_id", rawID))
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %s", ErrNotFound, rawID)
	}
	return lesson, nil
}

func (cs *courseService) GetLesson(ctx context.Context, lessonID string) (*response.LessonResponse, error) {
	lesson, err := cs.findLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	resp := response.LessonToResponse(lesson)
	return &resp, nil
}

func (cs *courseService) CreateLesson(ctx context.Context, req *request.CreateLessonRequest) (*response.LessonResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	chapter, err := cs.findChapter(ctx, req.ChapterID)
	if err != nil {
		return nil, err
	}
	streams, err := cs.resolveStreams(ctx, req.AcademicStreams)
	if err != nil {
		return nil, err
	}

	now := cs.now()
	lesson := &entity.Lesson{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		ChapterID:         chapter.ID,
		Title:             req.Title,
		Description:       req.Description,
		Image:             req.Image,
		Duration:          defaultLessonDuration,
		Order:             defaultLessonOrder,
		VideoURL:          req.VideoURL,
		PDFURL:            req.PDFURL,
		ExerciseTotalMark: req.ExerciseTotalMark,
		ExerciseTotalXP:   req.ExerciseTotalXP,
		Streams:           streams,
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}

	if err := cs.repo.Course.CreateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	cs.log.Info("Lesson created",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("chapter_id", chapter.ID.String()),
	)
	resp := response.LessonToResponse(lesson)
	return &resp, nil
}

func (cs *courseService) UpdateLesson(ctx context.Context, lessonID string, req *request.UpdateLessonRequest) (*response.LessonResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	lesson, err := cs.findLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.Image != nil {
		lesson.Image = req.Image
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.VideoURL != nil {
		lesson.VideoURL = req.VideoURL
	}
	if req.PDFURL != nil {
		lesson.PDFURL = req.PDFURL
	}
	if req.ExerciseTotalMark != nil {
		lesson.ExerciseTotalMark = *req.ExerciseTotalMark
	}
	if req.ExerciseTotalXP != nil {
		lesson.ExerciseTotalXP = *req.ExerciseTotalXP
	}
	if req.AcademicStreams != nil {
		if lesson.Streams, err = cs.resolveStreams(ctx, req.AcademicStreams); err != nil {
			return nil, err
		}
	}
	lesson.UpdatedAt = cs.now()

	if err := cs.repo.Course.UpdateLesson(ctx, lesson); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: lesson %s", ErrNotFound, lessonID)
		}
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	cs.log.Info("Lesson updated", zap.String("lesson_id", lessonID))
	resp := response.LessonToResponse(lesson)
	return &resp, nil
}

func (cs *courseService) DeleteLesson(ctx context.Context, lessonID string) error {
	id, err := parseID("lesson_id", lessonID)
	if err != nil {
		return err
	}

	if err := cs.repo.Course.DeleteLesson(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: lesson %s", ErrNotFound, lessonID)
		}
		return fmt.Errorf("delete lesson: %w", err)
	}

	cs.log.Info("Lesson deleted", zap.String("lesson_id", lessonID))
	return nil
}
