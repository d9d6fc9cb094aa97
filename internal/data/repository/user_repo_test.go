package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestStudentWhere(t *testing.T) {
	verified := true

	tests := []struct {
		name     string
		filter   StudentFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filters",
			filter:  StudentFilter{},
			wantSQL: "role = 'student'",
		},
		{
			name:     "search matches name or email",
			filter:   StudentFilter{Search: " amina "},
			wantSQL:  "role = 'student' AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1)",
			wantArgs: []any{"%amina%"},
		},
		{
			name:     "all filters",
			filter:   StudentFilter{Search: "a", Wilaya: "Oran", AcademicStream: "Math", EmailVerified: &verified},
			wantSQL:  "role = 'student' AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1) AND wilaya ILIKE $2 AND academic_stream ILIKE $3 AND email_verified = $4",
			wantArgs: []any{"%a%", "%Oran%", "%Math%", true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := studentWhere(tt.filter)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"})
	other := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(dup))
	assert.False(t, isUniqueViolation(other))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}
