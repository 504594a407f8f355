package till

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/encoding"
	"github.com/MrJamesThe3rd/cdapos/internal/export"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=till
type Service interface {
	Open(ctx context.Context, params till.OpenParams) (*till.Till, error)
	Active(ctx context.Context, operator auth.Actor) (*till.Till, error)
	Summary(ctx context.Context, operator auth.Actor) (*till.Summary, error)
	RecordMovement(ctx context.Context, params till.MovementParams) (*till.Movement, error)
	Close(ctx context.Context, params till.CloseParams) (*till.Till, error)
	LastClosed(ctx context.Context, operator auth.Actor) (*till.Summary, error)
	History(ctx context.Context, actor auth.Actor, limit int) ([]*till.Till, error)
	Get(ctx context.Context, id uuid.UUID, actor auth.Actor) (*till.Detail, error)
}

type Receipts interface {
	TillReport(ctx context.Context, tillID uuid.UUID, actor auth.Actor) (*export.Report, error)
	WriteTillCSV(w io.Writer, report *export.Report, charset encoding.Charset) error
}

type Handler struct {
	svc      Service
	receipts Receipts
}

func NewHandler(svc Service, receipts Receipts) *Handler {
	return &Handler{svc: svc, receipts: receipts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/open", h.open)
	r.Get("/active", h.active)
	r.Get("/active/summary", h.summary)
	r.Post("/active/movements", h.recordMovement)
	r.Post("/active/close", h.close)
	r.Get("/last-closed", h.lastClosed)
	r.Get("/history", h.history)
	r.Get("/{id}", h.get)
	r.Get("/{id}/receipt", h.receipt)
	r.Get("/{id}/receipt.csv", h.receiptCSV)
}

type openRequest struct {
	OpeningAmount *decimal.Decimal `json:"opening_amount" validate:"required"`
	Shift         till.Shift       `json:"shift" validate:"required,oneof=morning afternoon night"`
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	var req openRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.Open(r.Context(), till.OpenParams{
		Operator:      actor,
		OpeningAmount: *req.OpeningAmount,
		Shift:         req.Shift,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toTillResponse(t))
}

func (h *Handler) active(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Active(r.Context(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTillResponse(t))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	s, err := h.svc.Summary(r.Context(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(s))
}

type movementRequest struct {
	Category    till.Category    `json:"category" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Method      payment.Method   `json:"method" validate:"required"`
	Description string           `json:"description" validate:"required"`
	AffectsCash *bool            `json:"affects_cash"`
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	var req movementRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.svc.RecordMovement(r.Context(), till.MovementParams{
		Operator:    actor,
		Category:    req.Category,
		Amount:      *req.Amount,
		Method:      req.Method,
		Description: req.Description,
		AffectsCash: req.AffectsCash,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toMovementResponse(m))
}

type closeRequest struct {
	Breakdown     *denomination.Breakdown `json:"breakdown" validate:"required,dive,min=0,max=1000000"`
	DeclaredTotal *decimal.Decimal        `json:"declared_total" validate:"required"`
	Notes         string                  `json:"notes" validate:"max=1000"`
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	var req closeRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.Close(r.Context(), till.CloseParams{
		Operator:      actor,
		Breakdown:     *req.Breakdown,
		DeclaredTotal: *req.DeclaredTotal,
		Notes:         req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTillResponse(t))
}

func (h *Handler) lastClosed(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	s, err := h.svc.LastClosed(r.Context(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if s == nil {
		respond.JSON(w, http.StatusOK, nil)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(s))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	limit, err := respond.QueryInt(r, "limit", 10)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tills, err := h.svc.History(r.Context(), actor, limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	out := make([]tillResponse, 0, len(tills))
	for _, t := range tills {
		out = append(out, toTillResponse(t))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid till id"))
		return
	}

	d, err := h.svc.Get(r.Context(), id, actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDetailResponse(d))
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) (*export.Report, bool) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid till id"))
		return nil, false
	}

	rep, err := h.receipts.TillReport(r.Context(), id, actor)
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return rep, true
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toReceiptResponse(rep))
}

func (h *Handler) receiptCSV(w http.ResponseWriter, r *http.Request) {
	charset, err := encoding.ParseCharset(r.URL.Query().Get("charset"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rep, ok := h.report(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset="+string(charset))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="till-%s.csv"`, rep.Till.ID.String()[:8]))

	if err := h.receipts.WriteTillCSV(w, rep, charset); err != nil {
		respond.Error(w, r, apperr.Internal("writing till receipt", err))
	}
}
