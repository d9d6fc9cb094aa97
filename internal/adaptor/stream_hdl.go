package adaptor

import (
	"net/http"

	"go.uber.org/zap"

	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/utils"
)

type StreamHandler struct {
	service usecase.StreamService
	log     *zap.Logger
}

func NewStreamHandler(service usecase.StreamService, log *zap.Logger) *StreamHandler {
	return &StreamHandler{
		service: service,
		log:     log.With(zap.String("handler", "stream")),
	}
}

// List handles GET /courses/academic-streams
func (h *StreamHandler) List(w http.ResponseWriter, r *http.Request) {
	streams, err := h.service.ListAcademicStreams(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list academic streams")
		return
	}

	utils.ResponseSuccess(w, "Academic streams retrieved successfully", streams)
}
