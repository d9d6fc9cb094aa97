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

// CourseRepository stores the module / chapter / lesson catalogue. Finders
// return nil, nil when the record does not exist. Writes replace the stream
// links of the record with the streams it carries.
type CourseRepository interface {
	CreateModule(ctx context.Context, module *entity.Module) error
	FindModules(ctx context.Context) ([]*entity.Module, error)
	FindModuleByID(ctx context.Context, id uuid.UUID) (*entity.Module, error)

	CreateChapter(ctx context.Context, chapter *entity.Chapter) error
	FindChaptersByModule(ctx context.Context, moduleID uuid.UUID) ([]*entity.Chapter, error)
	FindChapterByID(ctx context.Context, id uuid.UUID) (*entity.Chapter, error)
	UpdateChapter(ctx context.Context, chapter *entity.Chapter) error
	AddChapterStream(ctx context.Context, chapterID, streamID uuid.UUID) error

	CreateLesson(ctx context.Context, lesson *entity.Lesson) error
	FindLessonsByChapter(ctx context.Context, chapterID uuid.UUID) ([]*entity.Lesson, error)
	FindLessonByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error)
	UpdateLesson(ctx context.Context, lesson *entity.Lesson) error
	DeleteLesson(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCourseRepository(db database.PgxIface, log *zap.Logger) CourseRepository {
	return &courseRepository{
		db:  db,
		log: log.With(zap.String("repository", "course")),
	}
}

// streamLink names a join table between a catalogue record and its streams.
type streamLink struct {
	table  string
	column string
}

var (
	moduleStreams  = streamLink{table: "module_streams", column: "module_id"}
	chapterStreams = streamLink{table: "chapter_streams", column: "chapter_id"}
	lessonStreams  = streamLink{table: "lesson_streams", column: "lesson_id"}
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadStreams returns the streams linked to each owner id, ordered by name.
func loadStreams(ctx context.Context, db querier, link streamLink, ownerIDs []uuid.UUID) (map[uuid.UUID][]entity.AcademicStream, error) {
	out := make(map[uuid.UUID][]entity.AcademicStream, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		ids = append(ids, id.String())
	}

	query := fmt.Sprintf(`
		SELECT l.%[2]s, s.id, s.name, s.name_ar, s.created_at
		FROM %[1]s l
		JOIN academic_streams s ON s.id = l.stream_id
		WHERE l.%[2]s = ANY($1::uuid[])
		ORDER BY s.name
	`, link.table, link.column)

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", link.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner uuid.UUID
		var s entity.AcademicStream
		if err := rows.Scan(&owner, &s.ID, &s.Name, &s.NameAr, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", link.table, err)
		}
		out[owner] = append(out[owner], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", link.table, err)
	}
	return out, nil
}

func replaceStreams(ctx context.Context, tx pgx.Tx, link streamLink, ownerID uuid.UUID, streams []entity.AcademicStream) error {
	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, link.table, link.column)
	if _, err := tx.Exec(ctx, del, ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", link.table, err)
	}

	ins := fmt.Sprintf(`INSERT INTO %s (%s, stream_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, link.table, link.column)
	for _, s := range streams {
		if _, err := tx.Exec(ctx, ins, ownerID, s.ID); err != nil {
			return fmt.Errorf("link %s: %w", link.table, err)
		}
	}
	return nil
}

// inTx runs fn in a transaction and commits when it returns nil.
func inTx(ctx context.Context, db database.PgxIface, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ==================== MODULES ====================

const moduleColumns = `id, custom_id, name, description, image_path, color, created_at, updated_at`

func scanModule(row pgx.Row) (*entity.Module, error) {
	var m entity.Module
	err := row.Scan(&m.ID, &m.CustomID, &m.Name, &m.Description, &m.ImagePath, &m.Color, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (cr *courseRepository) CreateModule(ctx context.Context, module *entity.Module) error {
	query := `
		INSERT INTO modules (` + moduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	err := inTx(ctx, cr.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			module.ID, module.CustomID, module.Name, module.Description,
			module.ImagePath, module.Color, module.CreatedAt, module.UpdatedAt,
		); err != nil {
			return err
		}
		return replaceStreams(ctx, tx, moduleStreams, module.ID, module.Streams)
	})
	if err != nil {
		cr.log.Error("Failed to create module", zap.Error(err), zap.String("name", module.Name))
		return fmt.Errorf("create module %s: %w", module.Name, err)
	}

	cr.log.Info("Module created", zap.String("module_id", module.ID.String()))
	return nil
}

func (cr *courseRepository) FindModules(ctx context.Context) ([]*entity.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules ORDER BY name`

	rows, err := cr.db.Query(ctx, query)
	if err != nil {
		cr.log.Error("Failed to get modules", zap.Error(err))
		return nil, fmt.Errorf("find modules: %w", err)
	}
	defer rows.Close()

	modules := make([]*entity.Module, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			cr.log.Error("Failed to scan module row", zap.Error(err))
			return nil, fmt.Errorf("scan module row: %w", err)
		}
		modules = append(modules, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate module rows: %w", err)
	}

	streams, err := loadStreams(ctx, cr.db, moduleStreams, ids)
	if err != nil {
		cr.log.Error("Failed to load module streams", zap.Error(err))
		return nil, err
	}
	for _, m := range modules {
		m.Streams = streams[m.ID]
	}
	return modules, nil
}

func (cr *courseRepository) FindModuleByID(ctx context.Context, id uuid.UUID) (*entity.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = $1`

	m, err := scanModule(cr.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		cr.log.Error("Failed to find module", zap.Error(err), zap.String("module_id", id.String()))
		return nil, fmt.Errorf("find module %s: %w", id.String(), err)
	}

	streams, err := loadStreams(ctx, cr.db, moduleStreams, []uuid.UUID{m.ID})
	if err != nil {
		return nil, err
	}
	m.Streams = streams[m.ID]
	return m, nil
}

// ==================== CHAPTERS ====================

const chapterColumns = `id, module_id, name, description, price`

func scanChapter(row pgx.Row) (*entity.Chapter, error) {
	var c entity.Chapter
	if err := row.Scan(&c.ID, &c.ModuleID, &c.Name, &c.Description, &c.Price); err != nil {
		return nil, err
	}
	return &c, nil
}

func (cr *courseRepository) CreateChapter(ctx context.Context, chapter *entity.Chapter) error {
	query := `INSERT INTO chapters (` + chapterColumns + `) VALUES ($1, $2, $3, $4, $5)`

	err := inTx(ctx, cr.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			chapter.ID, chapter.ModuleID, chapter.Name, chapter.Description, chapter.Price,
		); err != nil {
			return err
		}
		return replaceStreams(ctx, tx, chapterStreams, chapter.ID, chapter.Streams)
	})
	if err != nil {
		cr.log.Error("Failed to create chapter",
			zap.Error(err),
			zap.String("module_id", chapter.ModuleID.String()),
		)
		return fmt.Errorf("create chapter %s: %w", chapter.Name, err)
	}
	return nil
}

func (cr *courseRepository) FindChaptersByModule(ctx context.Context, moduleID uuid.UUID) ([]*entity.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE module_id = $1 ORDER BY name`

	rows, err := cr.db.Query(ctx, query, moduleID)
	if err != nil {
		cr.log.Error("Failed to get chapters", zap.Error(err), zap.String("module_id", moduleID.String()))
		return nil, fmt.Errorf("find chapters: %w", err)
	}
	defer rows.Close()

	chapters := make([]*entity.Chapter, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter row: %w", err)
		}
		chapters = append(chapters, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chapter rows: %w", err)
	}

	streams, err := loadStreams(ctx, cr.db, chapterStreams, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range chapters {
		c.Streams = streams[c.ID]
	}
	return chapters, nil
}

func (cr *courseRepository) FindChapterByID(ctx context.Context, id uuid.UUID) (*entity.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE id = $1`

	c, err := scanChapter(cr.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		cr.log.Error("Failed to find chapter", zap.Error(err), zap.String("chapter_id", id.String()))
		return nil, fmt.Errorf("find chapter %s: %w", id.String(), err)
	}

	streams, err := loadStreams(ctx, cr.db, chapterStreams, []uuid.UUID{c.ID})
	if err != nil {
		return nil, err
	}
	c.Streams = streams[c.ID]
	return c, nil
}

func (cr *courseRepository) UpdateChapter(ctx context.Context, chapter *entity.Chapter) error {
	query := `UPDATE chapters SET name = $2, description = $3, price = $4 WHERE id = $1`

	err := inTx(ctx, cr.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query, chapter.ID, chapter.Name, chapter.Description, chapter.Price)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return replaceStreams(ctx, tx, chapterStreams, chapter.ID, chapter.Streams)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			cr.log.Error("Failed to update chapter", zap.Error(err), zap.String("chapter_id", chapter.ID.String()))
		}
		return fmt.Errorf("update chapter %s: %w", chapter.ID.String(), err)
	}
	return nil
}

func (cr *courseRepository) AddChapterStream(ctx context.Context, chapterID, streamID uuid.UUID) error {
	query := `INSERT INTO chapter_streams (chapter_id, stream_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := cr.db.Exec(ctx, query, chapterID, streamID); err != nil {
		cr.log.Error("Failed to add stream to chapter",
			zap.Error(err),
			zap.String("chapter_id", chapterID.String()),
			zap.String("stream_id", streamID.String()),
		)
		return fmt.Errorf("add stream to chapter %s: %w", chapterID.String(), err)
	}
	return nil
}

// ==================== LESSONS ====================

const lessonColumns = `id, chapter_id, title, description, image, duration, sort_order, video_url, pdf_url,
	exercise_total_mark, exercise_total_xp, created_at, updated_at`

func scanLesson(row pgx.Row) (*entity.Lesson, error) {
	var l entity.Lesson
	err := row.Scan(
		&l.ID, &l.ChapterID, &l.Title, &l.Description, &l.Image, &l.Duration, &l.Order,
		&l.VideoURL, &l.PDFURL, &l.ExerciseTotalMark, &l.ExerciseTotalXP, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (cr *courseRepository) CreateLesson(ctx context.Context, lesson *entity.Lesson) error {
	query := `
		INSERT INTO lessons (` + lessonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	err := inTx(ctx, cr.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			lesson.ID, lesson.ChapterID, lesson.Title, lesson.Description, lesson.Image,
			lesson.Duration, lesson.Order, lesson.VideoURL, lesson.PDFURL,
			lesson.ExerciseTotalMark, lesson.ExerciseTotalXP, lesson.CreatedAt, lesson.UpdatedAt,
		); err != nil {
			return err
		}
		return replaceStreams(ctx, tx, lessonStreams, lesson.ID, lesson.Streams)
	})
	if err != nil {
		cr.log.Error("Failed to create lesson",
			zap.Error(err),
			zap.String("chapter_id", lesson.ChapterID.String()),
		)
		return fmt.Errorf("create lesson %s: %w", lesson.Title, err)
	}

	cr.log.Info("Lesson created",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("chapter_id", lesson.ChapterID.String()),
	)
	return nil
}

func (cr *courseRepository) FindLessonsByChapter(ctx context.Context, chapterID uuid.UUID) ([]*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE chapter_id = $1 ORDER BY sort_order, created_at`

	rows, err := cr.db.Query(ctx, query, chapterID)
	if err != nil {
		cr.log.Error("Failed to get lessons", zap.Error(err), zap.String("chapter_id", chapterID.String()))
		return nil, fmt.Errorf("find lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]*entity.Lesson, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson row: %w", err)
		}
		lessons = append(lessons, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lesson rows: %w", err)
	}

	streams, err := loadStreams(ctx, cr.db, lessonStreams, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range lessons {
		l.Streams = streams[l.ID]
	}
	return lessons, nil
}

func (cr *courseRepository) FindLessonByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	l, err := scanLesson(cr.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		cr.log.Error("Failed to find lesson", zap.Error(err), zap.String("lesson_id", id.String()))
		return nil, fmt.Errorf("find lesson %s: %w", id.String(), err)
	}

	streams, err := loadStreams(ctx, cr.db, lessonStreams, []uuid.UUID{l.ID})
	if err != nil {
		return nil, err
	}
	l.Streams = streams[l.ID]
	return l, nil
}

func (cr *courseRepository) UpdateLesson(ctx context.Context, lesson *entity.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $2, description = $3, image = $4, duration = $5, sort_order = $6,
		    video_url = $7, pdf_url = $8, exercise_total_mark = $9, exercise_total_xp = $10,
		    updated_at = $11
		WHERE id = $1
	`

	err := inTx(ctx, cr.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query,
			lesson.ID, lesson.Title, lesson.Description, lesson.Image, lesson.Duration, lesson.Order,
			lesson.VideoURL, lesson.PDFURL, lesson.ExerciseTotalMark, lesson.ExerciseTotalXP, lesson.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return replaceStreams(ctx, tx, lessonStreams, lesson.ID, lesson.Streams)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			cr.log.Error("Failed to update lesson", zap.Error(err), zap.String("lesson_id", lesson.ID.String()))
		}
		return fmt.Errorf("update lesson %s: %w", lesson.ID.String(), err)
	}
	return nil
}

func (cr *courseRepository) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM lessons WHERE id = $1`

	result, err := cr.db.Exec(ctx, query, id)
	if err != nil {
		cr.log.Error("Failed to delete lesson", zap.Error(err), zap.String("lesson_id", id.String()))
		return fmt.Errorf("delete lesson %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete lesson %s: %w", id.String(), ErrNotFound)
	}

	cr.log.Info("Lesson deleted", zap.String("lesson_id", id.String()))
	return nil
}
