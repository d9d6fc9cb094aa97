// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
)

// DefaultStreams mirrors the seeded academic streams.
var DefaultStreams = []string{"Mathematics", "Experimental Sciences", "Literature", "Math-Technique"}

// Store holds users, academic streams and the course catalogue behind a
// mutex. It enforces the same case-insensitive email uniqueness, conditional
// password and approval updates and enrollment rules as the Postgres
// implementation.
type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*entity.User
	streams     []*entity.AcademicStream
	modules     map[uuid.UUID]*entity.Module
	chapters    map[uuid.UUID]*entity.Chapter
	lessons     map[uuid.UUID]*entity.Lesson
	enrollments map[enrollmentKey]*entity.ModuleEnrollment
}

func NewStore() *Store {
	s := &Store{
		users:       make(map[uuid.UUID]*entity.User),
		modules:     make(map[uuid.UUID]*entity.Module),
		chapters:    make(map[uuid.UUID]*entity.Chapter),
		lessons:     make(map[uuid.UUID]*entity.Lesson),
		enrollments: make(map[enrollmentKey]*entity.ModuleEnrollment),
	}
	for _, name := range DefaultStreams {
		s.streams = append(s.streams, &entity.AcademicStream{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			Name:       name,
			NameAr:     name,
		})
	}
	return s
}

// Repository wires the store into a repository.Repository.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:           &userRepo{s},
		AcademicStream: &streamRepo{s},
		Course:         &courseRepo{s},
		Enrollment:     &enrollmentRepo{s},
	}
}

// Stream returns the seeded stream with the given name.
func (s *Store) Stream(name string) entity.AcademicStream {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.streams {
		if st.Name == name {
			return *st
		}
	}
	panic("repotest: unknown stream " + name)
}

// Put stores a copy of user, bypassing the email check.
func (s *Store) Put(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = clone(user)
}

// Get returns a copy of the stored user.
func (s *Store) Get(id uuid.UUID) (*entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return clone(u), true
}

func clone(u *entity.User) *entity.User {
	c := *u
	if u.Student != nil {
		st := *u.Student
		c.Student = &st
	}
	if u.Professor != nil {
		p := *u.Professor
		c.Professor = &p
	}
	return &c
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user %s: %w", user.Email, repository.ErrDuplicateEmail)
		}
	}
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return clone(u), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *userRepo) matchingStudents(filter repository.StudentFilter) []*entity.User {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.Role != entity.RoleStudent {
			continue
		}
		if q := strings.TrimSpace(filter.Search); q != "" &&
			!containsFold(u.FirstName, q) && !containsFold(u.LastName, q) && !containsFold(u.Email, q) {
			continue
		}
		if w := strings.TrimSpace(filter.Wilaya); w != "" && !containsFold(u.Wilaya, w) {
			continue
		}
		if a := strings.TrimSpace(filter.AcademicStream); a != "" && (u.Student == nil || !containsFold(u.Student.AcademicStream, a)) {
			continue
		}
		if filter.EmailVerified != nil && u.EmailVerified != *filter.EmailVerified {
			continue
		}
		out = append(out, clone(u))
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(users []*entity.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}

func (r *userRepo) FindStudents(_ context.Context, filter repository.StudentFilter, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.matchingStudents(filter)
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *userRepo) CountStudents(_ context.Context, filter repository.StudentFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.matchingStudents(filter))), nil
}

func (r *userRepo) FindProfessors(_ context.Context, status *entity.ApprovalStatus) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if u.Role != entity.RoleProfessor || u.Professor == nil {
			continue
		}
		if status != nil && u.Professor.ApprovalStatus != *status {
			continue
		}
		out = append(out, clone(u))
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("update user %s: %w", user.ID, repository.ErrNotFound)
	}
	u.Profile = user.Profile
	if user.Student != nil && u.Student != nil {
		u.Student.AcademicStream = user.Student.AcademicStream
	}
	u.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *userRepo) mutate(id uuid.UUID, op string, fn func(u *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", op, id, repository.ErrNotFound)
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id uuid.UUID, oldHash, newHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.PasswordHash != oldHash {
		return fmt.Errorf("update password %s: %w", id, repository.ErrStaleState)
	}
	u.PasswordHash = newHash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *userRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, "mark email verified", func(u *entity.User) { u.EmailVerified = true })
}

func (r *userRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, "deactivate user", func(u *entity.User) { u.IsActive = false })
}

func (r *userRepo) UpdateApprovalStatus(_ context.Context, id uuid.UUID, from, to entity.ApprovalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.Role != entity.RoleProfessor || u.Professor == nil || u.Professor.ApprovalStatus != from {
		return fmt.Errorf("update approval status %s from %s: %w", id, from, repository.ErrStaleState)
	}
	u.Professor.ApprovalStatus = to
	u.UpdatedAt = time.Now()
	return nil
}

type streamRepo struct{ s *Store }

func (r *streamRepo) FindAll(_ context.Context) ([]*entity.AcademicStream, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.AcademicStream, 0, len(r.s.streams))
	for _, st := range r.s.streams {
		c := *st
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *streamRepo) FindByName(_ context.Context, name string) (*entity.AcademicStream, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, st := range r.s.streams {
		if strings.EqualFold(st.Name, name) {
			c := *st
			return &c, nil
		}
	}
	return nil, nil
}

func (r *streamRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.AcademicStream, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.AcademicStream, 0, len(ids))
	for _, st := range r.s.streams {
		for _, id := range ids {
			if st.ID == id {
				c := *st
				out = append(out, &c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
