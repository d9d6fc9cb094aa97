package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
)

func seedModule(t *testing.T, repo *Repository, streams ...entity.AcademicStream) *entity.Module {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	module := &entity.Module{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:        "Module " + uuid.NewString()[:8],
		Description: "Bac preparation",
		Color:       "#1E88E5",
		Streams:     streams,
	}
	require.NoError(t, repo.Course.CreateModule(context.Background(), module))
	return module
}

func TestPostgres_CourseCatalogue(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db, zap.NewNop())
	ctx := context.Background()

	streams, err := repo.AcademicStream.FindAll(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(streams), 2)

	found, err := repo.AcademicStream.FindByIDs(ctx, []uuid.UUID{streams[0].ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 1)

	module := seedModule(t, repo, *streams[0], *streams[1])
	got, err := repo.Course.FindModuleByID(ctx, module.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Streams, 2)

	chapter := &entity.Chapter{ID: uuid.New(), ModuleID: module.ID, Name: "Limits", Description: "d", Price: 1250.5}
	require.NoError(t, repo.Course.CreateChapter(ctx, chapter))
	require.NoError(t, repo.Course.AddChapterStream(ctx, chapter.ID, streams[0].ID))
	// linking twice is a no-op
	require.NoError(t, repo.Course.AddChapterStream(ctx, chapter.ID, streams[0].ID))

	gotChapter, err := repo.Course.FindChapterByID(ctx, chapter.ID)
	require.NoError(t, err)
	require.NotNil(t, gotChapter)
	assert.Equal(t, 1250.5, gotChapter.Price)
	assert.Len(t, gotChapter.Streams, 1)

	gotChapter.Streams = nil
	require.NoError(t, repo.Course.UpdateChapter(ctx, gotChapter))
	gotChapter, err = repo.Course.FindChapterByID(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Empty(t, gotChapter.Streams)

	now := time.Now().UTC().Truncate(time.Microsecond)
	lessons := []*entity.Lesson{
		{Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}, ChapterID: chapter.ID, Title: "Second", Description: "d", Duration: 30, Order: 2},
		{Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}, ChapterID: chapter.ID, Title: "First", Description: "d", Duration: 30, Order: 1,
			Streams: []entity.AcademicStream{*streams[1]}},
	}
	for _, l := range lessons {
		require.NoError(t, repo.Course.CreateLesson(ctx, l))
	}

	list, err := repo.Course.FindLessonsByChapter(ctx, chapter.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Title)
	assert.Len(t, list[0].Streams, 1)

	list[0].Title = "Intro"
	require.NoError(t, repo.Course.UpdateLesson(ctx, list[0]))
	lesson, err := repo.Course.FindLessonByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro", lesson.Title)

	require.NoError(t, repo.Course.DeleteLesson(ctx, lesson.ID))
	assert.ErrorIs(t, repo.Course.DeleteLesson(ctx, lesson.ID), ErrNotFound)
	lesson.ID = uuid.New()
	assert.ErrorIs(t, repo.Course.UpdateLesson(ctx, lesson), ErrNotFound)

	missing, err := repo.Course.FindLessonByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgres_Enrollment(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db, zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	student := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        uniqueEmail("enrolled"),
		PasswordHash: "hash",
		Role:         entity.RoleStudent,
		IsActive:     true,
		Profile:      entity.Profile{FirstName: "Amina", LastName: "Benali", Wilaya: "Oran", PhoneNumber: "0555111111"},
		Student:      &entity.StudentDetails{AcademicStream: "Mathematics"},
	}
	require.NoError(t, repo.User.Create(ctx, student))
	module := seedModule(t, repo)

	first, err := repo.Enrollment.Enroll(ctx, student.ID, module.ID)
	require.NoError(t, err)
	_, err = repo.Enrollment.Enroll(ctx, student.ID, module.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	list, err := repo.Enrollment.FindActiveByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, module.Name, list[0].Module.Name)

	require.NoError(t, repo.Enrollment.Unenroll(ctx, student.ID, module.ID))
	assert.ErrorIs(t, repo.Enrollment.Unenroll(ctx, student.ID, module.ID), ErrNotFound)

	enrolled, err := repo.Enrollment.IsEnrolled(ctx, student.ID, module.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	again, err := repo.Enrollment.Enroll(ctx, student.ID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	enrolled, err = repo.Enrollment.IsEnrolled(ctx, student.ID, module.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}
