package request

// UpdateStudentProfileRequest is a partial update; nil fields are unchanged.
type UpdateStudentProfileRequest struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,min=2,max=50"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,min=2,max=50"`
	Wilaya         *string `json:"wilaya,omitempty" validate:"omitempty,min=1,max=100"`
	PhoneNumber    *string `json:"phone_number,omitempty" validate:"omitempty,min=10,max=20"`
	AcademicStream *string `json:"academic_stream,omitempty" validate:"omitempty,min=1,max=100"`
}
