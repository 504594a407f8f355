// Package databasetest connects integration tests to a disposable Postgres database.
package databasetest

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/database"
)

// EnvURL names the variable holding the connection string. Tests skip when it is unset.
const EnvURL = "CDAPOS_TEST_DATABASE_URL"

// Open connects and applies the schema. Tests share the database, so each one creates its own users.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set", EnvURL)
	}

	db, err := database.New(url)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	return db
}

// User inserts an active account with a unique email.
func User(t *testing.T, db *sql.DB, role auth.Role) auth.User {
	t.Helper()

	u := auth.User{
		Email:        uuid.NewString() + "@cda.test",
		Name:         "Test " + string(role),
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}

	err := db.QueryRowContext(context.Background(),
		`INSERT INTO users (email, name, password_hash, role, active) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		u.Email, u.Name, u.PasswordHash, u.Role, u.Active,
	).Scan(&u.ID, &u.CreatedAt)
	require.NoError(t, err)

	return u
}
