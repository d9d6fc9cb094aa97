package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/dto/request"
)

func decision(id uuid.UUID) *request.ProfessorDecisionRequest {
	return &request.ProfessorDecisionRequest{ProfessorID: id.String()}
}

func TestApproveProfessor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.registerProfessor(t, "p@x.com")

	resp, err := env.svc.Admin.ApproveProfessor(ctx, decision(id))
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, resp.Status)
	assert.True(t, resp.NotificationSent)

	msg, ok := env.mail.Last()
	require.True(t, ok)
	assert.Equal(t, "p@x.com", msg.To)
	assert.Contains(t, msg.Subject, "approved")

	_, err = env.svc.Auth.Login(ctx, entity.RoleProfessor, login("p@x.com"))
	assert.NoError(t, err)

	// terminal
	_, err = env.svc.Admin.ApproveProfessor(ctx, decision(id))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = env.svc.Admin.RejectProfessor(ctx, decision(id))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectProfessor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.registerProfessor(t, "p@x.com")
	env.mail.SetErr(errors.New("smtp down"))

	resp, err := env.svc.Admin.RejectProfessor(ctx, &request.ProfessorDecisionRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalRejected, resp.Status)
	assert.False(t, resp.NotificationSent)

	user, _ := env.store.Get(id)
	assert.Equal(t, entity.ApprovalRejected, user.Professor.ApprovalStatus)

	_, err = env.svc.Admin.ApproveProfessor(ctx, decision(id))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProfessorDecision_Target(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	studentID := env.registerStudent(t, "s@x.com")

	_, err := env.svc.Admin.ApproveProfessor(ctx, &request.ProfessorDecisionRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Admin.ApproveProfessor(ctx, &request.ProfessorDecisionRequest{ProfessorID: "not-a-uuid"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Admin.ApproveProfessor(ctx, decision(uuid.New()))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Admin.ApproveProfessor(ctx, decision(studentID))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfessorDecision_ConcurrentOnlyOneWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.registerProfessor(t, "p@x.com")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = env.svc.Admin.ApproveProfessor(ctx, decision(id))
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = env.svc.Admin.RejectProfessor(ctx, decision(id))
	}()
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, 1, won)

	user, _ := env.store.Get(id)
	assert.True(t, user.Professor.ApprovalStatus.IsTerminal())
}

func TestListProfessors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pending := env.registerProfessor(t, "p1@x.com")
	approved := env.registerProfessor(t, "p2@x.com")
	env.setApproval(t, approved, entity.ApprovalApproved)
	env.registerStudent(t, "s@x.com")

	all, err := env.svc.Admin.ListProfessors(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	list, err := env.svc.Admin.ListProfessors(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.String(), list[0].ID)

	_, err = env.svc.Admin.ListProfessors(ctx, "archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		env.registerStudent(t, email)
	}
	env.registerProfessor(t, "p@x.com")

	resp, err := env.svc.Admin.ListStudents(ctx, &request.StudentListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Students, 2)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.True(t, resp.HasNext)

	resp, err = env.svc.Admin.ListStudents(ctx, &request.StudentListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Students, 1)
	assert.False(t, resp.HasNext)

	resp, err = env.svc.Admin.ListStudents(ctx, &request.StudentListRequest{Search: "b@x"})
	require.NoError(t, err)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "b@x.com", resp.Students[0].Email)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.PerPage)

	verified := true
	resp, err = env.svc.Admin.ListStudents(ctx, &request.StudentListRequest{EmailVerified: &verified})
	require.NoError(t, err)
	assert.Empty(t, resp.Students)
}

func TestGetAndDeactivateStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.registerStudent(t, "s@x.com")
	profID := env.registerProfessor(t, "p@x.com")

	student, err := env.svc.Admin.GetStudent(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, "s@x.com", student.Email)
	assert.True(t, student.IsActive)

	_, err = env.svc.Admin.GetStudent(ctx, profID.String())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.svc.Admin.DeactivateStudent(ctx, profID.String()), ErrNotFound)
	assert.ErrorIs(t, env.svc.Admin.DeactivateStudent(ctx, "bad"), ErrValidation)

	require.NoError(t, env.svc.Admin.DeactivateStudent(ctx, id.String()))
	student, err = env.svc.Admin.GetStudent(ctx, id.String())
	require.NoError(t, err)
	assert.False(t, student.IsActive)
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Admin.EnsureAdmin(ctx, "", ""))
	require.NoError(t, env.svc.Admin.EnsureAdmin(ctx, "Admin@x.com", testPassword))
	// second run keeps the existing account
	require.NoError(t, env.svc.Admin.EnsureAdmin(ctx, "admin@x.com", "changed123"))

	resp, err := env.svc.Auth.Login(ctx, entity.RoleAdmin, login("admin@x.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)

	env.registerStudent(t, "s@x.com")
	assert.Error(t, env.svc.Admin.EnsureAdmin(ctx, "s@x.com", testPassword))
}
