package notification

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=notification
type Service interface {
	List(ctx context.Context, state notification.State, limit int) ([]*notification.Notification, error)
	Get(ctx context.Context, id uuid.UUID) (*notification.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*notification.Notification, error)
	Archive(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*notification.Notification, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/read", h.markRead)
	r.Delete("/{id}", h.archive)
}

type notificationResponse struct {
	ID              string             `json:"id"`
	TillID          string             `json:"till_id"`
	Shift           string             `json:"shift"`
	OperatorName    string             `json:"operator_name"`
	ClosedAt        time.Time          `json:"closed_at"`
	CashToDeliver   decimal.Decimal    `json:"cash_to_deliver"`
	SystemBalance   decimal.Decimal    `json:"system_balance"`
	PhysicalBalance decimal.Decimal    `json:"physical_balance"`
	Difference      decimal.Decimal    `json:"difference"`
	Notes           string             `json:"notes,omitempty"`
	State           notification.State `json:"state"`
	ReadAt          *time.Time         `json:"read_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func toResponse(n *notification.Notification) notificationResponse {
	return notificationResponse{
		ID:              n.ID.String(),
		TillID:          n.TillID.String(),
		Shift:           n.Shift,
		OperatorName:    n.OperatorName,
		ClosedAt:        n.ClosedAt,
		CashToDeliver:   n.CashToDeliver,
		SystemBalance:   n.SystemBalance,
		PhysicalBalance: n.PhysicalBalance,
		Difference:      n.Difference,
		Notes:           n.Notes,
		State:           n.State,
		ReadAt:          n.ReadAt,
		CreatedAt:       n.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, err := respond.QueryInt(r, "limit", 50)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ns, err := h.svc.List(r.Context(), notification.State(r.URL.Query().Get("state")), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toResponse(n))
	}

	respond.JSON(w, http.StatusOK, out)
}

func notificationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid notification id"))
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := notificationID(w, r)
	if !ok {
		return
	}

	n, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(n))
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.MarkRead)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Archive)
}

type transitionFunc func(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*notification.Notification, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	id, ok := notificationID(w, r)
	if !ok {
		return
	}

	n, err := fn(r.Context(), id, actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(n))
}
