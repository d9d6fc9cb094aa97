package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sauvini-api/internal/dto/request"
	"sauvini-api/internal/dto/response"
)

func ptr[T any](v T) *T { return &v }

func (e *testEnv) createModule(t *testing.T, name string, streams ...string) *response.ModuleResponse {
	t.Helper()
	ids := make([]string, 0, len(streams))
	for _, s := range streams {
		ids = append(ids, e.store.Stream(s).ID.String())
	}
	module, err := e.svc.Course.CreateModule(context.Background(), &request.CreateModuleRequest{
		Name:            name,
		Description:     name + " for the baccalaureate",
		Color:           "#1E88E5",
		AcademicStreams: ids,
	})
	require.NoError(t, err)
	return module
}

func (e *testEnv) createChapter(t *testing.T, moduleID, name string) *response.ChapterResponse {
	t.Helper()
	chapter, err := e.svc.Course.CreateChapter(context.Background(), &request.CreateChapterRequest{
		ModuleID:    moduleID,
		Name:        name,
		Description: "Chapter " + name,
		Price:       1500,
	})
	require.NoError(t, err)
	return chapter
}

func TestCreateModule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	module := env.createModule(t, "Mathematics", "Mathematics", "Math-Technique")
	assert.Equal(t, "Mathematics", module.Name)
	require.Len(t, module.AcademicStreams, 2)

	got, err := env.svc.Course.GetModule(ctx, module.ID)
	require.NoError(t, err)
	assert.Equal(t, module.ID, got.ID)
	assert.Len(t, got.AcademicStreams, 2)

	list, err := env.svc.Course.ListModules(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateModule_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *request.CreateModuleRequest
	}{
		{"missing name", &request.CreateModuleRequest{Description: "d", Color: "#FFFFFF"}},
		{"bad color", &request.CreateModuleRequest{Name: "Physics", Description: "d", Color: "blue"}},
		{"malformed stream id", &request.CreateModuleRequest{
			Name: "Physics", Description: "d", Color: "#FFFFFF", AcademicStreams: []string{"nope"},
		}},
		{"unknown stream", &request.CreateModuleRequest{
			Name: "Physics", Description: "d", Color: "#FFFFFF", AcademicStreams: []string{uuid.NewString()},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Course.CreateModule(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	list, err := env.svc.Course.ListModules(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetModule_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Course.GetModule(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Course.GetModule(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Course.ListChapters(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChapters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	module := env.createModule(t, "Physics")

	chapter := env.createChapter(t, module.ID, "Mechanics")
	assert.Equal(t, module.ID, chapter.Module)
	assert.Equal(t, 1500.0, chapter.Price)
	assert.Empty(t, chapter.AcademicStreams)

	chapters, err := env.svc.Course.ListChapters(ctx, module.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, chapter.ID, chapters[0].ID)

	_, err = env.svc.Course.CreateChapter(ctx, &request.CreateChapterRequest{
		ModuleID: uuid.NewString(), Name: "Optics", Description: "d",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Course.CreateChapter(ctx, &request.CreateChapterRequest{
		ModuleID: module.ID, Name: "Optics", Description: "d", Price: -1,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateChapter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	module := env.createModule(t, "Physics")
	chapter := env.createChapter(t, module.ID, "Mechanics")
	math := env.store.Stream("Mathematics").ID.String()

	updated, err := env.svc.Course.UpdateChapter(ctx, chapter.ID, &request.UpdateChapterRequest{
		Price:           ptr(2000.0),
		AcademicStreams: []string{math},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mechanics", updated.Name)
	assert.Equal(t, 2000.0, updated.Price)
	require.Len(t, updated.AcademicStreams, 1)
	assert.Equal(t, math, updated.AcademicStreams[0].ID)

	// Leaving streams out keeps them.
	updated, err = env.svc.Course.UpdateChapter(ctx, chapter.ID, &request.UpdateChapterRequest{Name: ptr("Dynamics")})
	require.NoError(t, err)
	assert.Equal(t, "Dynamics", updated.Name)
	assert.Len(t, updated.AcademicStreams, 1)

	// An empty list clears them.
	updated, err = env.svc.Course.UpdateChapter(ctx, chapter.ID, &request.UpdateChapterRequest{AcademicStreams: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.AcademicStreams)

	_, err = env.svc.Course.UpdateChapter(ctx, uuid.NewString(), &request.UpdateChapterRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddChapterStream(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	module := env.createModule(t, "Physics")
	chapter := env.createChapter(t, module.ID, "Mechanics")
	sciences := env.store.Stream("Experimental Sciences").ID.String()

	updated, err := env.svc.Course.AddChapterStream(ctx, chapter.ID, sciences)
	require.NoError(t, err)
	require.Len(t, updated.AcademicStreams, 1)

	updated, err = env.svc.Course.AddChapterStream(ctx, chapter.ID, sciences)
	require.NoError(t, err)
	assert.Len(t, updated.AcademicStreams, 1)

	_, err = env.svc.Course.AddChapterStream(ctx, chapter.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.svc.Course.AddChapterStream(ctx, uuid.NewString(), sciences)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessons(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	module := env.createModule(t, "Mathematics")
	chapter := env.createChapter(t, module.ID, "Limits")
	math := env.store.Stream("Mathematics").ID.String()

	second, err := env.svc.Course.CreateLesson(ctx, &request.CreateLessonRequest{
		ChapterID:       chapter.ID,
		Title:           "Limits at infinity",
		Description:     "Horizontal asymptotes",
		Order:           ptr(2),
		AcademicStreams: []string{math},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, second.Duration)
	assert.Equal(t, []string{math}, second.StreamIDs)
	assert.Equal(t, "Mathematics", second.AcademicStreams[0].LabelKey)
	assert.Equal(t, chapter.ID, second.ChapterID)

	first, err := env.svc.Course.CreateLesson(ctx, &request.CreateLessonRequest{
		ChapterID:   chapter.ID,
		Title:       "Definition",
		Description: "Epsilon-delta",
		Duration:    ptr(45),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 45, first.Duration)

	lessons, err := env.svc.Course.ListLessons(ctx, chapter.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, first.ID, lessons[0].ID)
	assert.Equal(t, second.ID, lessons[1].ID)

	updated, err := env.svc.Course.UpdateLesson(ctx, first.ID, &request.UpdateLessonRequest{
		Title:    ptr("Formal definition"),
		VideoURL: ptr("https://cdn.example.com/limits.mp4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Formal definition", updated.Title)
	assert.Equal(t, "Epsilon-delta", updated.Description)
	require.NotNil(t, updated.VideoURL)

	got, err := env.svc.Course.GetLesson(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Formal definition", got.Title)

	require.NoError(t, env.svc.Course.DeleteLesson(ctx, first.ID))
	_, err = env.svc.Course.GetLesson(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.svc.Course.DeleteLesson(ctx, first.ID), ErrNotFound)
}

func TestCreateLesson_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	module := env.createModule(t, "Mathematics")
	chapter := env.createChapter(t, module.ID, "Limits")

	tests := []struct {
		name string
		req  *request.CreateLessonRequest
		want error
	}{
		{"missing title", &request.CreateLessonRequest{ChapterID: chapter.ID, Description: "d"}, ErrValidation},
		{"missing description", &request.CreateLessonRequest{ChapterID: chapter.ID, Title: "t"}, ErrValidation},
		{"missing chapter", &request.CreateLessonRequest{Title: "t", Description: "d"}, ErrValidation},
		{"unknown chapter", &request.CreateLessonRequest{ChapterID: uuid.NewString(), Title: "t", Description: "d"}, ErrNotFound},
		{"bad video url", &request.CreateLessonRequest{
			ChapterID: chapter.ID, Title: "t", Description: "d", VideoURL: ptr("not a url"),
		}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Course.CreateLesson(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
