package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=audit
type Service interface {
	List(ctx context.Context, filter audit.ListFilter) ([]*audit.Event, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type actorResponse struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

type eventResponse struct {
	ID           string            `json:"id"`
	Action       audit.Action      `json:"action"`
	Description  string            `json:"description"`
	Actor        actorResponse     `json:"actor"`
	Fields       map[string]string `json:"fields,omitempty"`
	Success      bool              `json:"success"`
	ErrorMessage string            `json:"error_message,omitempty"`
	IP           string            `json:"ip,omitempty"`
	UserAgent    string            `json:"user_agent,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func toResponse(e *audit.Event) eventResponse {
	out := eventResponse{
		ID:          e.ID.String(),
		Action:      e.Action,
		Description: e.Description,
		Actor: actorResponse{
			Email: e.Actor.Email,
			Name:  e.Actor.Name,
			Role:  string(e.Actor.Role),
		},
		Success:      e.Success,
		ErrorMessage: e.ErrorMessage,
		IP:           e.IP,
		UserAgent:    e.UserAgent,
		CreatedAt:    e.CreatedAt,
	}

	if e.Actor.ID != uuid.Nil {
		out.Actor.ID = e.Actor.ID.String()
	}

	if len(e.Fields) > 0 {
		out.Fields = make(map[string]string, len(e.Fields))
		for _, f := range e.Fields {
			out.Fields[f.Key] = f.Value
		}
	}

	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, err := respond.QueryInt(r, "limit", 100)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter := audit.ListFilter{Limit: limit}

	if v := r.URL.Query().Get("action"); v != "" {
		filter.Action = new(audit.Action(v))
	}

	if v := r.URL.Query().Get("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respond.Error(w, r, apperr.Validation("invalid actor_id"))
			return
		}

		filter.ActorID = &id
	}

	events, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toResponse(e))
	}

	respond.JSON(w, http.StatusOK, out)
}
