package repotest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
)

func cloneStreams(in []entity.AcademicStream) []entity.AcademicStream {
	out := append([]entity.AcademicStream(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func cloneModule(m *entity.Module) *entity.Module {
	c := *m
	c.Streams = cloneStreams(m.Streams)
	return &c
}

func cloneChapter(ch *entity.Chapter) *entity.Chapter {
	c := *ch
	c.Streams = cloneStreams(ch.Streams)
	return &c
}

func cloneLesson(l *entity.Lesson) *entity.Lesson {
	c := *l
	c.Streams = cloneStreams(l.Streams)
	return &c
}

type courseRepo struct{ s *Store }

func (r *courseRepo) CreateModule(_ context.Context, module *entity.Module) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.modules[module.ID] = cloneModule(module)
	return nil
}

func (r *courseRepo) FindModules(_ context.Context) ([]*entity.Module, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Module, 0, len(r.s.modules))
	for _, m := range r.s.modules {
		out = append(out, cloneModule(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *courseRepo) FindModuleByID(_ context.Context, id uuid.UUID) (*entity.Module, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.modules[id]
	if !ok {
		return nil, nil
	}
	return cloneModule(m), nil
}

func (r *courseRepo) CreateChapter(_ context.Context, chapter *entity.Chapter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.modules[chapter.ModuleID]; !ok {
		return fmt.Errorf("create chapter: module %s missing", chapter.ModuleID)
	}
	r.s.chapters[chapter.ID] = cloneChapter(chapter)
	return nil
}

func (r *courseRepo) FindChaptersByModule(_ context.Context, moduleID uuid.UUID) ([]*entity.Chapter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Chapter, 0)
	for _, c := range r.s.chapters {
		if c.ModuleID == moduleID {
			out = append(out, cloneChapter(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *courseRepo) FindChapterByID(_ context.Context, id uuid.UUID) (*entity.Chapter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.chapters[id]
	if !ok {
		return nil, nil
	}
	return cloneChapter(c), nil
}

func (r *courseRepo) UpdateChapter(_ context.Context, chapter *entity.Chapter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.chapters[chapter.ID]; !ok {
		return fmt.Errorf("update chapter %s: %w", chapter.ID, repository.ErrNotFound)
	}
	r.s.chapters[chapter.ID] = cloneChapter(chapter)
	return nil
}

func (r *courseRepo) AddChapterStream(_ context.Context, chapterID, streamID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.chapters[chapterID]
	if !ok {
		return fmt.Errorf("add stream: chapter %s missing", chapterID)
	}
	for _, st := range c.Streams {
		if st.ID == streamID {
			return nil
		}
	}
	for _, st := range r.s.streams {
		if st.ID == streamID {
			c.Streams = cloneStreams(append(c.Streams, *st))
			return nil
		}
	}
	return fmt.Errorf("add stream: stream %s missing", streamID)
}

func (r *courseRepo) CreateLesson(_ context.Context, lesson *entity.Lesson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.chapters[lesson.ChapterID]; !ok {
		return fmt.Errorf("create lesson: chapter %s missing", lesson.ChapterID)
	}
	r.s.lessons[lesson.ID] = cloneLesson(lesson)
	return nil
}

func (r *courseRepo) FindLessonsByChapter(_ context.Context, chapterID uuid.UUID) ([]*entity.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Lesson, 0)
	for _, l := range r.s.lessons {
		if l.ChapterID == chapterID {
			out = append(out, cloneLesson(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *courseRepo) FindLessonByID(_ context.Context, id uuid.UUID) (*entity.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.lessons[id]
	if !ok {
		return nil, nil
	}
	return cloneLesson(l), nil
}

func (r *courseRepo) UpdateLesson(_ context.Context, lesson *entity.Lesson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lessons[lesson.ID]; !ok {
		return fmt.Errorf("update lesson %s: %w", lesson.ID, repository.ErrNotFound)
	}
	r.s.lessons[lesson.ID] = cloneLesson(lesson)
	return nil
}

func (r *courseRepo) DeleteLesson(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lessons[id]; !ok {
		return fmt.Errorf("delete lesson %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.lessons, id)
	return nil
}

type enrollmentKey struct {
	student uuid.UUID
	module  uuid.UUID
}

type enrollmentRepo struct{ s *Store }

func (r *enrollmentRepo) Enroll(_ context.Context, studentID, moduleID uuid.UUID) (*entity.ModuleEnrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := enrollmentKey{studentID, moduleID}
	if e, ok := r.s.enrollments[key]; ok {
		if e.IsActive {
			return nil, fmt.Errorf("enroll %s in %s: %w", studentID, moduleID, repository.ErrAlreadyExists)
		}
		e.IsActive = true
		e.EnrolledAt = time.Now()
		c := *e
		return &c, nil
	}

	e := &entity.ModuleEnrollment{
		ID:         uuid.New(),
		StudentID:  studentID,
		ModuleID:   moduleID,
		EnrolledAt: time.Now(),
		IsActive:   true,
	}
	r.s.enrollments[key] = e
	c := *e
	return &c, nil
}

func (r *enrollmentRepo) Unenroll(_ context.Context, studentID, moduleID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.enrollments[enrollmentKey{studentID, moduleID}]
	if !ok || !e.IsActive {
		return fmt.Errorf("unenroll %s from %s: %w", studentID, moduleID, repository.ErrNotFound)
	}
	e.IsActive = false
	return nil
}

func (r *enrollmentRepo) FindActiveByStudent(_ context.Context, studentID uuid.UUID) ([]*entity.ModuleEnrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.ModuleEnrollment, 0)
	for key, e := range r.s.enrollments {
		if key.student != studentID || !e.IsActive {
			continue
		}
		m, ok := r.s.modules[key.module]
		if !ok {
			continue
		}
		c := *e
		c.Module = cloneModule(m)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out, nil
}

func (r *enrollmentRepo) IsEnrolled(_ context.Context, studentID, moduleID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.enrollments[enrollmentKey{studentID, moduleID}]
	return ok && e.IsActive, nil
}
