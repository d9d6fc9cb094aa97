package response

import (
	"time"

	"sauvini-api/internal/data/entity"
)

type StudentResponse struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phone_number"`
	Wilaya             string    `json:"wilaya"`
	AcademicStream     string    `json:"academic_stream"`
	ProfilePicturePath *string   `json:"profile_picture_path"`
	EmailVerified      bool      `json:"email_verified"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type StudentRegisterResponse struct {
	StudentResponse
	VerificationEmailSent bool `json:"verification_email_sent"`
}

type ProfessorResponse struct {
	ID                 string                `json:"id"`
	FirstName          string                `json:"first_name"`
	LastName           string                `json:"last_name"`
	Email              string                `json:"email"`
	PhoneNumber        string                `json:"phone_number"`
	Wilaya             string                `json:"wilaya"`
	Gender             entity.Gender         `json:"gender"`
	DateOfBirth        time.Time             `json:"date_of_birth"`
	ExpSchool          bool                  `json:"exp_school"`
	ExpSchoolYears     *int                  `json:"exp_school_years"`
	ExpOffSchool       bool                  `json:"exp_off_school"`
	ExpOnline          bool                  `json:"exp_online"`
	CVPath             *string               `json:"cv_path"`
	ProfilePicturePath *string               `json:"profile_picture_path"`
	EmailVerified      bool                  `json:"email_verified"`
	Status             entity.ApprovalStatus `json:"status"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type ProfessorRegisterResponse struct {
	ProfessorID        string                `json:"professor_id"`
	FirstName          string                `json:"first_name"`
	LastName           string                `json:"last_name"`
	Email              string                `json:"email"`
	EmailVerified      bool                  `json:"email_verified"`
	Status             entity.ApprovalStatus `json:"status"`
	CVPath             *string               `json:"cv_path"`
	ProfilePicturePath *string               `json:"profile_picture_path"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type AdminResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfessorDecisionResponse struct {
	ProfessorID      string                `json:"professor_id"`
	Status           entity.ApprovalStatus `json:"status"`
	NotificationSent bool                  `json:"notification_sent"`
}

type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
	PaginationMeta
}

func StudentToResponse(user *entity.User) StudentResponse {
	resp := StudentResponse{
		ID:                 user.ID.String(),
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Email:              user.Email,
		PhoneNumber:        user.PhoneNumber,
		Wilaya:             user.Wilaya,
		ProfilePicturePath: user.ProfilePicturePath,
		EmailVerified:      user.EmailVerified,
		IsActive:           user.IsActive,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
	if user.Student != nil {
		resp.AcademicStream = user.Student.AcademicStream
	}
	return resp
}

func StudentsToResponse(users []*entity.User) []StudentResponse {
	out := make([]StudentResponse, 0, len(users))
	for _, u := range users {
		out = append(out, StudentToResponse(u))
	}
	return out
}

func ProfessorToResponse(user *entity.User) ProfessorResponse {
	resp := ProfessorResponse{
		ID:                 user.ID.String(),
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Email:              user.Email,
		PhoneNumber:        user.PhoneNumber,
		Wilaya:             user.Wilaya,
		ProfilePicturePath: user.ProfilePicturePath,
		EmailVerified:      user.EmailVerified,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
	if p := user.Professor; p != nil {
		resp.Gender = p.Gender
		resp.DateOfBirth = p.DateOfBirth
		resp.ExpSchool = p.ExpSchool
		resp.ExpSchoolYears = p.ExpSchoolYears
		resp.ExpOffSchool = p.ExpOffSchool
		resp.ExpOnline = p.ExpOnline
		resp.CVPath = p.CVPath
		resp.Status = p.ApprovalStatus
	}
	return resp
}

func ProfessorsToResponse(users []*entity.User) []ProfessorResponse {
	out := make([]ProfessorResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ProfessorToResponse(u))
	}
	return out
}

func ProfessorRegisterToResponse(user *entity.User) ProfessorRegisterResponse {
	p := ProfessorToResponse(user)
	return ProfessorRegisterResponse{
		ProfessorID:        p.ID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		EmailVerified:      p.EmailVerified,
		Status:             p.Status,
		CVPath:             p.CVPath,
		ProfilePicturePath: p.ProfilePicturePath,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func AdminToResponse(user *entity.User) AdminResponse {
	return AdminResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
