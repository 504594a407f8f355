package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements_Schema(t *testing.T) {
	stmts := statements(schema)
	require.NotEmpty(t, stmts)

	for _, s := range stmts {
		assert.True(t, strings.HasPrefix(s, "CREATE "), "unexpected statement start: %.40q", s)
		assert.NotContains(t, s, ";\n")
	}

	joined := strings.Join(stmts, "\n")
	assert.Contains(t, joined, "tills_one_open_per_operator")
	assert.Contains(t, joined, "close_notifications")
}

func TestStatements_SkipsComments(t *testing.T) {
	got := statements("-- header; with semicolon\nCREATE TABLE a (id INT);\n\n-- tail\nCREATE INDEX b ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX b ON a (id)"}, got)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "tills_one_open_per_operator"}

	assert.True(t, IsUniqueViolation(fmt.Errorf("inserting till: %w", pgErr)))
	assert.Equal(t, "tills_one_open_per_operator", ConstraintName(pgErr))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
