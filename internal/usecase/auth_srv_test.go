package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/dto/request"
	"sauvini-api/pkg/utils"
)

func TestRegisterStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Auth.RegisterStudent(ctx, studentRequest("  Amina@Example.COM "))
	require.NoError(t, err)

	assert.Equal(t, "amina@example.com", resp.Email)
	assert.Equal(t, "Mathematics", resp.AcademicStream)
	assert.False(t, resp.EmailVerified)
	assert.True(t, resp.VerificationEmailSent)

	msg, ok := env.mail.Last()
	require.True(t, ok)
	assert.Equal(t, "amina@example.com", msg.To)
	assert.Contains(t, msg.TextBody, "/verify-email?")

	user, ok := env.store.Get(uuidOf(t, resp.ID))
	require.True(t, ok)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash(testPassword, user.PasswordHash))
	assert.True(t, user.IsActive)
}

func TestRegisterStudent_DuplicateEmailIgnoresCase(t *testing.T) {
	env := newTestEnv(t)
	env.registerStudent(t, "a@x.com")

	_, err := env.svc.Auth.RegisterStudent(context.Background(), studentRequest("A@X.com"))
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")

	// a professor cannot reuse it either
	_, err = env.svc.Auth.RegisterProfessor(context.Background(), professorRequest("a@x.com"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterStudent_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *request.StudentRegisterRequest)
		want   error
	}{
		{"weak password", func(r *request.StudentRegisterRequest) {
			r.Password, r.PasswordConfirm = "onlyletters", "onlyletters"
		}, ErrWeakPassword},
		{"short password", func(r *request.StudentRegisterRequest) {
			r.Password, r.PasswordConfirm = "a1", "a1"
		}, ErrWeakPassword},
		{"password over bcrypt limit", func(r *request.StudentRegisterRequest) {
			long := strings.Repeat("a1", 40)
			r.Password, r.PasswordConfirm = long, long
		}, ErrWeakPassword},
		{"confirm mismatch", func(r *request.StudentRegisterRequest) {
			r.PasswordConfirm = "different1"
		}, ErrValidation},
		{"bad email", func(r *request.StudentRegisterRequest) { r.Email = "nope" }, ErrValidation},
		{"unknown stream", func(r *request.StudentRegisterRequest) { r.AcademicStream = "Astrology" }, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := studentRequest("s@x.com")
			tt.mutate(req)

			_, err := env.svc.Auth.RegisterStudent(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, env.mail.Sent())
		})
	}
}

func TestRegisterStudent_MailFailureKeepsAccount(t *testing.T) {
	env := newTestEnv(t)
	env.mail.SetErr(errors.New("smtp down"))

	resp, err := env.svc.Auth.RegisterStudent(context.Background(), studentRequest("s@x.com"))
	require.NoError(t, err)
	assert.False(t, resp.VerificationEmailSent)

	_, ok := env.store.Get(uuidOf(t, resp.ID))
	assert.True(t, ok)
}

func TestRegisterProfessor(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Auth.RegisterProfessor(context.Background(), professorRequest("P@x.com"))
	require.NoError(t, err)

	assert.Equal(t, "p@x.com", resp.Email)
	assert.Equal(t, entity.ApprovalPending, resp.Status)
	assert.True(t, resp.EmailVerified)
	assert.Empty(t, env.mail.Sent())

	user, ok := env.store.Get(uuidOf(t, resp.ProfessorID))
	require.True(t, ok)
	assert.Equal(t, time.Date(1985, 4, 12, 0, 0, 0, 0, time.UTC), user.Professor.DateOfBirth)
	require.NotNil(t, user.Professor.ExpSchoolYears)
	assert.Equal(t, 5, *user.Professor.ExpSchoolYears)
}

func TestRegisterProfessor_DateOfBirth(t *testing.T) {
	tests := []struct {
		name    string
		dob     string
		wantErr bool
	}{
		{"rfc3339", "1990-06-01T00:00:00Z", false},
		{"too young", time.Now().AddDate(-17, 0, 0).Format("2006-01-02"), true},
		{"too old", "1900-01-01", true},
		{"garbage", "12/04/1985", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := professorRequest("p@x.com")
			req.DateOfBirth = tt.dob

			_, err := env.svc.Auth.RegisterProfessor(context.Background(), req)
			if tt.wantErr {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Contains(t, verr.Fields, "date_of_birth")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLogin_Student(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerStudent(t, "s@x.com")

	resp, err := env.svc.Auth.Login(context.Background(), entity.RoleStudent, login("S@X.com"))
	require.NoError(t, err)

	assert.Equal(t, id.String(), resp.User.ID)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)

	claims, err := env.tokens.Verify(resp.Token.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, "student", claims.Role)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	studentID := env.registerStudent(t, "s@x.com")
	professorID := env.registerProfessor(t, "p@x.com")

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, entity.RoleStudent, &request.LoginRequest{Email: "s@x.com", Password: "wrongpass1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, entity.RoleStudent, login("nobody@x.com"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("role mismatch", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, entity.RoleProfessor, login("s@x.com"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("body user_type disagrees with route", func(t *testing.T) {
		req := login("s@x.com")
		req.UserType = "professor"
		_, err := env.svc.Auth.Login(ctx, entity.RoleStudent, req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("pending professor", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, entity.RoleProfessor, login("p@x.com"))
		assert.ErrorIs(t, err, ErrAccountNotApproved)
	})

	t.Run("rejected professor", func(t *testing.T) {
		env.setApproval(t, professorID, entity.ApprovalRejected)
		_, err := env.svc.Auth.Login(ctx, entity.RoleProfessor, login("p@x.com"))
		assert.ErrorIs(t, err, ErrAccountNotApproved)
	})

	t.Run("deactivated student", func(t *testing.T) {
		require.NoError(t, env.svc.Admin.DeactivateStudent(ctx, studentID.String()))
		_, err := env.svc.Auth.Login(ctx, entity.RoleStudent, login("s@x.com"))
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})
}

func TestLogin_ApprovedProfessor(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerProfessor(t, "p@x.com")
	env.setApproval(t, id, entity.ApprovalApproved)

	resp, err := env.svc.Auth.Login(context.Background(), entity.RoleProfessor, login("p@x.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleProfessor, resp.User.Role)
}

func TestLogin_RequireEmailVerification(t *testing.T) {
	env := newTestEnv(t)
	env.config.Auth.RequireEmailVerification = true
	env.registerStudent(t, "s@x.com")

	_, err := env.svc.Auth.Login(context.Background(), entity.RoleStudent, login("s@x.com"))
	require.ErrorIs(t, err, ErrEmailNotVerified)

	code := env.lastCode(t)
	require.NoError(t, env.svc.Verification.VerifyEmail(context.Background(), entity.RoleStudent, &request.VerifyEmailRequest{Token: code}))

	_, err = env.svc.Auth.Login(context.Background(), entity.RoleStudent, login("s@x.com"))
	assert.NoError(t, err)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.registerStudent(t, "s@x.com")

	session, err := env.svc.Auth.Login(ctx, entity.RoleStudent, login("s@x.com"))
	require.NoError(t, err)

	env.now = env.now.Add(10 * time.Minute)
	resp, err := env.svc.Auth.RefreshToken(ctx, entity.RoleStudent, &request.RefreshTokenRequest{RefreshToken: session.Token.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, session.Token.AccessToken, resp.Token.AccessToken)

	claims, err := env.tokens.Verify(resp.Token.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "student", claims.Role)

	t.Run("access token rejected", func(t *testing.T) {
		_, err := env.svc.Auth.RefreshToken(ctx, entity.RoleStudent, &request.RefreshTokenRequest{RefreshToken: session.Token.AccessToken})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other role endpoint", func(t *testing.T) {
		_, err := env.svc.Auth.RefreshToken(ctx, entity.RoleProfessor, &request.RefreshTokenRequest{RefreshToken: session.Token.RefreshToken})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := env.svc.Auth.RefreshToken(ctx, entity.RoleStudent, &request.RefreshTokenRequest{RefreshToken: "not.a.jwt"})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("deactivated after login", func(t *testing.T) {
		require.NoError(t, env.svc.Admin.DeactivateStudent(ctx, id.String()))
		_, err := env.svc.Auth.RefreshToken(ctx, entity.RoleStudent, &request.RefreshTokenRequest{RefreshToken: session.Token.RefreshToken})
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})

	t.Run("expired", func(t *testing.T) {
		env.now = env.now.Add(8 * 24 * time.Hour)
		_, err := env.svc.Auth.RefreshToken(ctx, entity.RoleStudent, &request.RefreshTokenRequest{RefreshToken: session.Token.RefreshToken})
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.registerStudent(t, "s@x.com")
	otherID := env.registerStudent(t, "o@x.com")

	session, err := env.svc.Auth.Login(ctx, entity.RoleStudent, login("s@x.com"))
	require.NoError(t, err)
	req := &request.LogoutRequest{RefreshToken: session.Token.RefreshToken}

	assert.NoError(t, env.svc.Auth.Logout(ctx, id, req))
	assert.ErrorIs(t, env.svc.Auth.Logout(ctx, otherID, req), ErrInvalidToken)
	assert.ErrorIs(t, env.svc.Auth.Logout(ctx, id, &request.LogoutRequest{}), ErrValidation)

	env.now = env.now.Add(30 * 24 * time.Hour)
	assert.NoError(t, env.svc.Auth.Logout(ctx, id, req))
}
