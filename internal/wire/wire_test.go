package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sauvini-api/internal/adaptor"
	"sauvini-api/internal/data/repository/repotest"
	"sauvini-api/pkg/mailer/mailertest"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

const password = "pw12345678"

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

type testServer struct {
	t      *testing.T
	app    *App
	mail   *mailertest.Recorder
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := token.NewService(token.Config{Secret: "0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	mail := &mailertest.Recorder{}
	config := &utils.Config{
		App:  utils.AppConfig{APIPrefix: "/api/v1", CORSOrigins: []string{"http://localhost:3000"}},
		Auth: utils.AuthConfig{FrontendURL: "http://localhost:3000"},
	}

	app := Wiring(repotest.NewStore().Repository(), Infra{
		Tokens: tokens,
		Mailer: mail,
		Checks: map[string]adaptor.Pinger{
			"database": adaptor.PingFunc(func(context.Context) error { return nil }),
		},
	}, config, zap.NewNop())
	require.NoError(t, app.Service.Admin.EnsureAdmin(context.Background(), "admin@sauvini.com", password))

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	return &testServer{t: t, app: app, mail: mail, server: srv}
}

func (s *testServer) do(method, path, bearer string, body any) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(role, email string) string {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/v1/auth/"+role+"/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(s.t, http.StatusOK, status, env.Message)

	var data struct {
		Token struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data.Token.AccessToken
}

func studentBody(email string) map[string]any {
	return map[string]any{
		"first_name":       "Amina",
		"last_name":        "Benali",
		"wilaya":           "Algiers",
		"phone_number":     "0555123456",
		"academic_stream":  "Mathematics",
		"email":            email,
		"password":         password,
		"password_confirm": password,
	}
}

func professorBody(email string) map[string]any {
	return map[string]any{
		"first_name":       "Karim",
		"last_name":        "Haddad",
		"wilaya":           "Oran",
		"phone_number":     "0666123456",
		"gender":           "male",
		"date_of_birth":    "1985-04-12",
		"email":            email,
		"password":         password,
		"password_confirm": password,
	}
}

func TestStudentJourney(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodPost, "/api/v1/auth/student/register", "", studentBody("a@x.com"))
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)

	status, env = s.do(http.MethodPost, "/api/v1/auth/student/register", "", studentBody("A@x.com"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ValidationError", env.Error)

	access := s.login("student", "a@x.com")

	status, env = s.do(http.MethodGet, "/api/v1/student/profile", access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"email":"a@x.com"`)

	status, env = s.do(http.MethodPut, "/api/v1/student/profile/update", access, map[string]string{"wilaya": "Blida"})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Data), `"wilaya":"Blida"`)

	// wrong endpoint for the role
	status, env = s.do(http.MethodPost, "/api/v1/auth/professor/login", "", map[string]string{"email": "a@x.com", "password": password})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "InvalidCredentials", env.Error)

	status, env = s.do(http.MethodGet, "/api/v1/professor/profile", access, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden", env.Error)

	status, env = s.do(http.MethodPost, "/api/v1/auth/admin/approve-professor", access, map[string]string{"professor_id": "x"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestEmailVerificationOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodPost, "/api/v1/auth/student/register", "", studentBody("a@x.com"))
	require.Equal(t, http.StatusCreated, status)

	msg, ok := s.mail.Last()
	require.True(t, ok)
	start := strings.Index(msg.TextBody, "/verify-email?")
	require.NotEqual(t, -1, start)
	link := strings.Fields(msg.TextBody[start:])[0]

	status, env := s.do(http.MethodGet, "/api/v1/auth/student"+link, "", nil)
	assert.Equal(t, http.StatusOK, status, env.Message)

	status, env = s.do(http.MethodPost, "/api/v1/auth/student/verify-email", "", map[string]string{"token": "garbage"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidCode", env.Error)

	// admins have no verification route
	status, _ = s.do(http.MethodPost, "/api/v1/auth/admin/send-verification-email", "", map[string]string{"email": "admin@sauvini.com"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProfessorApprovalJourney(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodPost, "/api/v1/auth/professor/register", "", professorBody("p@x.com"))
	require.Equal(t, http.StatusCreated, status, env.Message)

	var registered struct {
		ProfessorID string `json:"professor_id"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "pending", registered.Status)

	status, env = s.do(http.MethodPost, "/api/v1/auth/professor/login", "", map[string]string{"email": "p@x.com", "password": password})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AccountNotApproved", env.Error)

	admin := s.login("admin", "admin@sauvini.com")

	status, env = s.do(http.MethodGet, "/api/v1/auth/admin/all-professors?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), registered.ProfessorID)

	status, env = s.do(http.MethodPost, "/api/v1/auth/admin/approve-professor", admin, map[string]string{"professor_id": registered.ProfessorID})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Data), `"status":"approved"`)
	assert.Contains(t, string(env.Data), `"notification_sent":true`)

	status, env = s.do(http.MethodPost, "/api/v1/auth/admin/reject-professor", admin, map[string]string{"professor_id": registered.ProfessorID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "InvalidTransition", env.Error)

	professor := s.login("professor", "p@x.com")
	status, _ = s.do(http.MethodGet, "/api/v1/professor/profile", professor, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminStudentManagement(t *testing.T) {
	s := newTestServer(t)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		status, _ := s.do(http.MethodPost, "/api/v1/auth/student/register", "", studentBody(email))
		require.Equal(t, http.StatusCreated, status)
	}
	admin := s.login("admin", "admin@sauvini.com")

	status, env := s.do(http.MethodGet, "/api/v1/auth/admin/students?page=1&per_page=2", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var list struct {
		Students []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"students"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Students, 2)
	assert.Equal(t, int64(3), list.Total)
	assert.Equal(t, 2, list.TotalPages)

	status, env = s.do(http.MethodGet, "/api/v1/auth/admin/students?email_verified=maybe", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	target := list.Students[0]
	access := s.login("student", target.Email)

	status, _ = s.do(http.MethodDelete, "/api/v1/auth/admin/students/"+target.ID, admin, nil)
	require.Equal(t, http.StatusOK, status)

	// the existing access token stops working and login is refused
	status, _ = s.do(http.MethodGet, "/api/v1/student/profile", access, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(http.MethodPost, "/api/v1/auth/student/login", "", map[string]string{"email": target.Email, "password": password})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AccountDeactivated", env.Error)

	status, env = s.do(http.MethodGet, "/api/v1/auth/admin/students/"+target.ID, admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"is_active":false`)
}

func TestPublicAndOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/api/v1/courses/academic-streams", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Mathematics")

	for _, path := range []string{"/health", "/health/live", "/api/v1/health", "/api/v1/health/live"} {
		status, _ = s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, status, path)
	}

	status, env = s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NotFound", env.Error)

	status, _ = s.do(http.MethodGet, "/api/v1/student/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	resp, err := s.server.Client().Get(s.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshAndLogoutOverHTTP(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(http.MethodPost, "/api/v1/auth/student/register", "", studentBody("a@x.com"))
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(http.MethodPost, "/api/v1/auth/student/login", "", map[string]string{"email": "a@x.com", "password": password})
	require.Equal(t, http.StatusOK, status)
	var session struct {
		Token struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	status, env = s.do(http.MethodPost, "/api/v1/auth/student/refresh-token", "", map[string]string{"refresh_token": session.Token.RefreshToken})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Data), "access_token")

	status, env = s.do(http.MethodPost, "/api/v1/auth/admin/refresh-token", "", map[string]string{"refresh_token": session.Token.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "InvalidToken", env.Error)

	status, _ = s.do(http.MethodPost, "/api/v1/auth/logout", session.Token.AccessToken, map[string]string{"refresh_token": session.Token.RefreshToken})
	assert.Equal(t, http.StatusOK, status)
}
