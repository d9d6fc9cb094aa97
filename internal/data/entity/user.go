package entity

import "time"

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleProfessor UserRole = "professor"
	RoleAdmin     UserRole = "admin"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Profile holds the personal fields shared by students and professors.
type Profile struct {
	FirstName          string  `db:"first_name"`
	LastName           string  `db:"last_name"`
	Wilaya             string  `db:"wilaya"`
	PhoneNumber        string  `db:"phone_number"`
	ProfilePicturePath *string `db:"profile_picture_path"`
}

func (p Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

type StudentDetails struct {
	AcademicStream string `db:"academic_stream"`
}

type ProfessorDetails struct {
	Gender         Gender         `db:"gender"`
	DateOfBirth    time.Time      `db:"date_of_birth"`
	ExpSchool      bool           `db:"exp_school"`
	ExpSchoolYears *int           `db:"exp_school_years"`
	ExpOffSchool   bool           `db:"exp_off_school"`
	ExpOnline      bool           `db:"exp_online"`
	CVPath         *string        `db:"cv_path"`
	ApprovalStatus ApprovalStatus `db:"approval_status"`
}

// User is a single account record. Role selects which payload is set:
// Student for students, Professor for professors, neither for admins.
type User struct {
	Base
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Role          UserRole `db:"role"`
	EmailVerified bool     `db:"email_verified"`
	IsActive      bool     `db:"is_active"`
	Profile
	Student   *StudentDetails
	Professor *ProfessorDetails
}

func (u *User) IsStudent() bool   { return u.Role == RoleStudent }
func (u *User) IsProfessor() bool { return u.Role == RoleProfessor }

// Age returns the age in whole years at the given instant.
func Age(dob, at time.Time) int {
	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	return years
}
