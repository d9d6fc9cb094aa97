package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/dto/response"
)

type StreamService interface {
	ListAcademicStreams(ctx context.Context) ([]response.AcademicStreamResponse, error)
}

type streamService struct {
	repo repository.AcademicStreamRepository
	log  *zap.Logger
}

func NewStreamService(repo repository.AcademicStreamRepository, log *zap.Logger) StreamService {
	return &streamService{
		repo: repo,
		log:  log.With(zap.String("service", "stream")),
	}
}

func (ss *streamService) ListAcademicStreams(ctx context.Context) ([]response.AcademicStreamResponse, error) {
	streams, err := ss.repo.FindAll(ctx)
	if err != nil {
		ss.log.Error("Failed to list academic streams", zap.Error(err))
		return nil, fmt.Errorf("list academic streams: %w", err)
	}
	return response.StreamsToResponse(streams), nil
}
