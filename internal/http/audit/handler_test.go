package audit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	audithttp "github.com/MrJamesThe3rd/cdapos/internal/http/audit"
)

func serve(t *testing.T, target string, setup func(svc *audithttp.MockService)) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := audithttp.NewMockService(ctrl)
	setup(svc)

	router := chi.NewRouter()
	router.Route("/audit", audithttp.NewHandler(svc).Routes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_List(t *testing.T) {
	actorID := uuid.New()
	tillID := uuid.New()

	rec := serve(t, "/audit?action=close_till&actor_id="+actorID.String()+"&limit=10", func(svc *audithttp.MockService) {
		svc.EXPECT().
			List(gomock.Any(), audit.ListFilter{
				Action:  new(audit.ActionCloseTill),
				ActorID: &actorID,
				Limit:   10,
			}).
			Return([]*audit.Event{{
				ID:          uuid.New(),
				Action:      audit.ActionCloseTill,
				Description: "closed till",
				Actor:       auth.Actor{ID: actorID, Email: "caja1@cda.test", Role: auth.RoleCashier},
				Fields:      []audit.Field{audit.UUID("till_id", tillID)},
				Success:     true,
			}}, nil)
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "close_till", got[0]["action"])
	assert.Equal(t, map[string]any{"till_id": tillID.String()}, got[0]["fields"])
	assert.Equal(t, "cashier", got[0]["actor"].(map[string]any)["role"])
}

func TestHandler_List_InvalidActor(t *testing.T) {
	rec := serve(t, "/audit?actor_id=caja1", func(*audithttp.MockService) {})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
