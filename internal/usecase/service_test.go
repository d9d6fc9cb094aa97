package usecase

import (
	"context"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository/repotest"
	"sauvini-api/internal/dto/request"
	"sauvini-api/pkg/mailer"
	"sauvini-api/pkg/mailer/mailertest"
	"sauvini-api/pkg/throttle"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

const testPassword = "pw12345678"

type testEnv struct {
	store  *repotest.Store
	mail   *mailertest.Recorder
	redis  *miniredis.Miniredis
	tokens token.Service
	config *utils.Config
	now    time.Time
	svc    *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store: repotest.NewStore(),
		mail:  &mailertest.Recorder{},
		redis: miniredis.RunT(t),
		now:   time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		config: &utils.Config{
			Auth: utils.AuthConfig{
				VerifyCodeExpiry: time.Hour,
				ResetCodeExpiry:  time.Hour,
				ResendCooldown:   time.Minute,
				FrontendURL:      "http://localhost:3000",
			},
		},
	}

	tokens, err := token.NewService(token.Config{
		Secret:           "0123456789abcdef0123456789abcdef",
		Issuer:           "sauvini-test",
		VerifyCodeExpiry: env.config.Auth.VerifyCodeExpiry,
		ResetCodeExpiry:  env.config.Auth.ResetCodeExpiry,
	}, token.WithClock(func() time.Time { return env.now }))
	require.NoError(t, err)
	env.tokens = tokens

	client := redis.NewClient(&redis.Options{Addr: env.redis.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env.svc = NewService(
		env.store.Repository(),
		tokens,
		env.mail,
		throttle.NewRedis(client, "throttle:"),
		env.config,
		zap.NewNop(),
	)
	return env
}

var codePattern = regexp.MustCompile(`token=([^&\s]+)`)

// codeFrom extracts the code from a verification or reset link.
func codeFrom(t *testing.T, msg mailer.Message) string {
	t.Helper()
	m := codePattern.FindStringSubmatch(msg.TextBody)
	require.Len(t, m, 2, "no code in %q", msg.TextBody)
	code, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return code
}

func (e *testEnv) lastCode(t *testing.T) string {
	t.Helper()
	msg, ok := e.mail.Last()
	require.True(t, ok, "no mail sent")
	return codeFrom(t, msg)
}

func studentRequest(email string) *request.StudentRegisterRequest {
	return &request.StudentRegisterRequest{
		FirstName:       "Amina",
		LastName:        "Benali",
		Wilaya:          "Algiers",
		PhoneNumber:     "0555123456",
		AcademicStream:  "Mathematics",
		Email:           email,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	}
}

func professorRequest(email string) *request.ProfessorRegisterRequest {
	years := 5
	return &request.ProfessorRegisterRequest{
		FirstName:       "Karim",
		LastName:        "Haddad",
		Wilaya:          "Oran",
		PhoneNumber:     "0666123456",
		Gender:          "male",
		DateOfBirth:     "1985-04-12",
		ExpSchool:       true,
		ExpSchoolYears:  &years,
		Email:           email,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	}
}

func (e *testEnv) registerStudent(t *testing.T, email string) uuid.UUID {
	t.Helper()
	resp, err := e.svc.Auth.RegisterStudent(context.Background(), studentRequest(email))
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func (e *testEnv) registerProfessor(t *testing.T, email string) uuid.UUID {
	t.Helper()
	resp, err := e.svc.Auth.RegisterProfessor(context.Background(), professorRequest(email))
	require.NoError(t, err)
	return uuid.MustParse(resp.ProfessorID)
}

func (e *testEnv) setApproval(t *testing.T, id uuid.UUID, status entity.ApprovalStatus) {
	t.Helper()
	user, ok := e.store.Get(id)
	require.True(t, ok)
	user.Professor.ApprovalStatus = status
	e.store.Put(user)
}

func login(email string) *request.LoginRequest {
	return &request.LoginRequest{Email: email, Password: testPassword}
}

func uuidOf(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
