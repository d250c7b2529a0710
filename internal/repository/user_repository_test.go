package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"john.doe", "John Doe"},
		{"jane.van.dyk", "Jane Van Dyk"},
		{"admin", "admin"},
		{"", ""},
		{"john..doe", "John  Doe"},
		{"a.b", "A B"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDisplayName(tc.in), "input %q", tc.in)
	}
}

func TestResolveByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM users u\s+JOIN user_group g`).
		WithArgs("john.doe@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_name", "user_code", "user_email", "profile_name"}).
			AddRow("john.doe", "jdoe", "john.doe@example.com", "NOC OTT"))

	row, err := NewUserRepo(db).ResolveByEmail(context.Background(), "john.doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", row.Name)
	assert.Equal(t, "jdoe", row.Username)
	assert.Equal(t, "NOC OTT", row.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExecutors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)WHERE p\.profile_name = 'NOC OTT'`).
		WillReturnRows(sqlmock.NewRows([]string{"user_name", "user_email"}).
			AddRow("jane.roe", "jane.roe@example.com").
			AddRow("john.doe", "john.doe@example.com"))

	execs, err := NewUserRepo(db).ListExecutors(context.Background())
	require.NoError(t, err)
	require.Len(t, execs, 2)
	assert.Equal(t, "Jane Roe", execs[0].UserName)
	assert.Equal(t, "John Doe", execs[1].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCodeTrimsInput(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM users WHERE user_code = \? LIMIT 1`).
		WithArgs("jdoe").
		WillReturnRows(sqlmock.NewRows([]string{"user_code", "user_name", "user_email", "user_password"}).
			AddRow("jdoe", "john.doe", "john.doe@example.com", "$2a$10$hash"))

	a, err := NewUserRepo(db).GetByCode(context.Background(), "  jdoe ")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", a.Code)
	assert.Equal(t, "john.doe", a.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
