package request

type StudentRegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=2,max=50"`
	LastName        string `json:"last_name" validate:"required,min=2,max=50"`
	Wilaya          string `json:"wilaya" validate:"required,max=100"`
	PhoneNumber     string `json:"phone_number" validate:"required,min=10,max=20"`
	AcademicStream  string `json:"academic_stream" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// ProfessorRegisterRequest arrives either as a JSON body or as the
// professor_data field of a multipart form.
type ProfessorRegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=2,max=50"`
	LastName        string `json:"last_name" validate:"required,min=2,max=50"`
	Wilaya          string `json:"wilaya" validate:"required,max=100"`
	PhoneNumber     string `json:"phone_number" validate:"required,min=10,max=20"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`
	DateOfBirth     string `json:"date_of_birth" validate:"required"`
	ExpSchool       bool   `json:"exp_school"`
	ExpSchoolYears  *int   `json:"exp_school_years,omitempty" validate:"omitempty,min=0,max=60"`
	ExpOffSchool    bool   `json:"exp_off_school"`
	ExpOnline       bool   `json:"exp_online"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginRequest.UserType is optional in the body; the route decides the role.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"user_type,omitempty" validate:"omitempty,oneof=student professor admin"`
}

type SendVerificationEmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	UserType string `json:"user_type,omitempty" validate:"omitempty,oneof=student professor"`
}

type VerifyEmailRequest struct {
	Token    string `json:"token" validate:"required"`
	UserType string `json:"user_type,omitempty" validate:"omitempty,oneof=student professor"`
}

type ForgotPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	UserType string `json:"user_type,omitempty" validate:"omitempty,oneof=student professor admin"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	UserType        string `json:"user_type,omitempty" validate:"omitempty,oneof=student professor admin"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
