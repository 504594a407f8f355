package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/auth"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := auth.NewTokenManager("test-secret", 30*time.Minute)
	actor := auth.Actor{ID: uuid.New(), Email: "caja1@cda.test", Name: "Caja 1", Role: auth.RoleCashier}

	token, expiresAt, err := m.Issue(actor)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestTokenManager_Parse_Rejects(t *testing.T) {
	actor := auth.Actor{ID: uuid.New(), Email: "admin@cda.test", Role: auth.RoleAdmin}

	expired, _, err := auth.NewTokenManager("test-secret", -time.Minute).Issue(actor)
	require.NoError(t, err)

	otherSecret, _, err := auth.NewTokenManager("other-secret", time.Minute).Issue(actor)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  actor.ID.String(),
		"iss":  "cdapos",
		"role": "admin",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	m := auth.NewTokenManager("test-secret", time.Minute)

	tests := map[string]string{
		"Expired":     expired,
		"WrongSecret": otherSecret,
		"AlgNone":     unsigned,
		"Garbage":     "not-a-token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
