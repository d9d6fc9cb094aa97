package request

// ProfessorDecisionRequest accepts the professor id as professor_id or id.
type ProfessorDecisionRequest struct {
	ProfessorID string `json:"professor_id"`
	ID          string `json:"id"`
}

func (r ProfessorDecisionRequest) TargetID() string {
	if r.ProfessorID != "" {
		return r.ProfessorID
	}
	return r.ID
}

type StudentListRequest struct {
	PaginatedRequest
	Search         string
	Wilaya         string
	AcademicStream string
	EmailVerified  *bool
}
