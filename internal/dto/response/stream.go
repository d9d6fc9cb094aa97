package response

import "sauvini-api/internal/data/entity"

type AcademicStreamResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
}

func StreamsToResponse(streams []*entity.AcademicStream) []AcademicStreamResponse {
	out := make([]AcademicStreamResponse, 0, len(streams))
	for _, s := range streams {
		out = append(out, AcademicStreamResponse{ID: s.ID.String(), Name: s.Name, NameAr: s.NameAr})
	}
	return out
}
