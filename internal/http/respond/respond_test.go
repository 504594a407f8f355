package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
)

type body struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   body
	}{
		{
			name:       "ValidationWithDetails",
			err:        apperr.Validation("not enough denominations in the safe").WithDetails("line one"),
			wantStatus: http.StatusBadRequest,
			wantBody:   body{Error: "not enough denominations in the safe", Details: []string{"line one"}},
		},
		{
			name:       "Conflict",
			err:        apperr.Conflict("till already closed"),
			wantStatus: http.StatusConflict,
			wantBody:   body{Error: "till already closed"},
		},
		{
			name:       "NotFound",
			err:        apperr.NotFound("sale not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   body{Error: "sale not found"},
		},
		{
			name:       "Forbidden",
			err:        apperr.Forbidden("admins only"),
			wantStatus: http.StatusForbidden,
			wantBody:   body{Error: "admins only"},
		},
		{
			name:       "Unauthenticated",
			err:        apperr.Unauthenticated("invalid email or password"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   body{Error: "invalid email or password"},
		},
		{
			name:       "InternalHidesCause",
			err:        apperr.Internal("listing sales", errors.New("pq: password authentication failed")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   body{Error: "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got body
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Shift    string `json:"shift" validate:"omitempty,oneof=morning afternoon night"`
}

func TestDecode(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"caja1@cda.test","password":"x"}`))

		var req loginRequest
		require.NoError(t, respond.Decode(httptest.NewRecorder(), r, &req))
		assert.Equal(t, "caja1@cda.test", req.Email)
	})

	t.Run("FieldErrorsUseJSONNames", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","shift":"late"}`))

		var req loginRequest
		err := respond.Decode(httptest.NewRecorder(), r, &req)
		require.True(t, errors.Is(err, apperr.ErrValidation))

		_, details := apperr.Message(err)
		assert.Equal(t, []string{
			"email must be a valid email",
			"password is required",
			"shift must be one of: morning afternoon night",
		}, details)
	})

	t.Run("UnknownField", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"x","role":"admin"}`))

		var req loginRequest
		assert.True(t, errors.Is(respond.Decode(httptest.NewRecorder(), r, &req), apperr.ErrValidation))
	})
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=25&bad=x", nil)

	n, err := respond.QueryInt(r, "limit", 10)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	n, err = respond.QueryInt(r, "missing", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = respond.QueryInt(r, "bad", 10)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
