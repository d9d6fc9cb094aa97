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

type AcademicStreamRepository interface {
	FindAll(ctx context.Context) ([]*entity.AcademicStream, error)
	FindByName(ctx context.Context, name string) (*entity.AcademicStream, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.AcademicStream, error)
}

type academicStreamRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAcademicStreamRepository(db database.PgxIface, log *zap.Logger) AcademicStreamRepository {
	return &academicStreamRepository{
		db:  db,
		log: log.With(zap.String("repository", "academic_stream")),
	}
}

func (ar *academicStreamRepository) FindAll(ctx context.Context) ([]*entity.AcademicStream, error) {
	query := `SELECT id, name, name_ar, created_at FROM academic_streams ORDER BY name`

	rows, err := ar.db.Query(ctx, query)
	if err != nil {
		ar.log.Error("Failed to get academic streams", zap.Error(err))
		return nil, fmt.Errorf("find academic streams: %w", err)
	}
	defer rows.Close()

	streams := make([]*entity.AcademicStream, 0)
	for rows.Next() {
		var s entity.AcademicStream
		if err := rows.Scan(&s.ID, &s.Name, &s.NameAr, &s.CreatedAt); err != nil {
			ar.log.Error("Failed to scan academic stream row", zap.Error(err))
			return nil, fmt.Errorf("scan academic stream row: %w", err)
		}
		streams = append(streams, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate academic stream rows: %w", err)
	}

	return streams, nil
}

// FindByName matches case-insensitively; nil, nil when absent.
func (ar *academicStreamRepository) FindByName(ctx context.Context, name string) (*entity.AcademicStream, error) {
	query := `SELECT id, name, name_ar, created_at FROM academic_streams WHERE lower(name) = lower($1)`

	var s entity.AcademicStream
	err := ar.db.QueryRow(ctx, query, name).Scan(&s.ID, &s.Name, &s.NameAr, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ar.log.Error("Failed to find academic stream",
			zap.Error(err),
			zap.String("name", name),
		)
		return nil, fmt.Errorf("find academic stream %s: %w", name, err)
	}

	return &s, nil
}

// FindByIDs returns the streams that exist among ids, ordered by name.
func (ar *academicStreamRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.AcademicStream, error) {
	streams := make([]*entity.AcademicStream, 0, len(ids))
	if len(ids) == 0 {
		return streams, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	query := `SELECT id, name, name_ar, created_at FROM academic_streams WHERE id = ANY($1::uuid[]) ORDER BY name`

	rows, err := ar.db.Query(ctx, query, raw)
	if err != nil {
		ar.log.Error("Failed to find academic streams by id", zap.Error(err))
		return nil, fmt.Errorf("find academic streams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s entity.AcademicStream
		if err := rows.Scan(&s.ID, &s.Name, &s.NameAr, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan academic stream row: %w", err)
		}
		streams = append(streams, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate academic stream rows: %w", err)
	}
	return streams, nil
}
