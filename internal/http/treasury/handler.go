package treasury

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/encoding"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=treasury
type Service interface {
	Record(ctx context.Context, params treasury.RecordParams) (*treasury.Movement, error)
	List(ctx context.Context, filter treasury.ListFilter) ([]*treasury.Movement, error)
	Get(ctx context.Context, id uuid.UUID) (*treasury.Movement, error)
	Balance(ctx context.Context) (*treasury.Balance, error)
	BalanceByMethod(ctx context.Context) (*treasury.Balance, error)
	Availability(ctx context.Context) (*treasury.Cash, error)
	Suggest(ctx context.Context, target decimal.Decimal) (denomination.Suggestion, error)
	Summary(ctx context.Context, from, to *time.Time) (*treasury.Summary, error)
	Stats(ctx context.Context, from, to time.Time) (*treasury.Stats, error)
	Config(ctx context.Context) (*treasury.Config, error)
	UpdateConfig(ctx context.Context, actor auth.Actor, update treasury.ConfigUpdate) (*treasury.Config, error)
}

type Exporter interface {
	WriteTreasuryCSV(w io.Writer, movements []*treasury.Movement, charset encoding.Charset) error
}

type Handler struct {
	svc    Service
	export Exporter
	loc    *time.Location
}

// NewHandler reads date query parameters as days in loc.
func NewHandler(svc Service, exporter Exporter, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{svc: svc, export: exporter, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/movements", h.record)
	r.Get("/movements", h.list)
	r.Get("/movements/export.csv", h.exportCSV)
	r.Get("/movements/{id}", h.get)
	r.Get("/balance", h.balance)
	r.Get("/balance/by-method", h.balanceByMethod)
	r.Get("/cash", h.cash)
	r.Get("/cash/suggest", h.suggest)
	r.Get("/summary", h.summary)
	r.Get("/stats", h.stats)
	r.Get("/config", h.config)
	r.Put("/config", h.updateConfig)
	r.Get("/categories", h.categories)
}

type recordRequest struct {
	Type          treasury.Type           `json:"type" validate:"required,oneof=ingress egress"`
	Category      treasury.Category       `json:"category" validate:"required"`
	Amount        *decimal.Decimal        `json:"amount" validate:"required"`
	Description   string                  `json:"description" validate:"required,max=500"`
	Method        treasury.Method         `json:"method" validate:"required,oneof=cash transfer check bank_deposit"`
	OriginTillID  *uuid.UUID              `json:"origin_till_id"`
	VoucherNumber string                  `json:"voucher_number" validate:"max=50"`
	MovementAt    *time.Time              `json:"movement_at"`
	Breakdown     *denomination.Breakdown `json:"breakdown" validate:"omitempty,dive,min=0,max=1000000"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	var req recordRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := treasury.RecordParams{
		Operator:      actor,
		Type:          req.Type,
		Category:      req.Category,
		Amount:        *req.Amount,
		Description:   req.Description,
		Method:        req.Method,
		OriginTillID:  req.OriginTillID,
		VoucherNumber: req.VoucherNumber,
		Breakdown:     req.Breakdown,
	}
	if req.MovementAt != nil {
		params.MovementAt = *req.MovementAt
	}

	m, err := h.svc.Record(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toMovementResponse(m))
}

// day parses a YYYY-MM-DD query parameter as midnight in the handler's zone.
func (h *Handler) day(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
	if err != nil {
		return nil, apperr.Validation("%s must be a date like 2026-03-31", name)
	}

	return &t, nil
}

func (h *Handler) period(r *http.Request) (*time.Time, *time.Time, error) {
	from, err := h.day(r, "from")
	if err != nil {
		return nil, nil, err
	}

	to, err := h.day(r, "to")
	if err != nil {
		return nil, nil, err
	}

	return from, to, nil
}

func (h *Handler) filter(r *http.Request) (treasury.ListFilter, error) {
	q := r.URL.Query()

	limit, err := respond.QueryInt(r, "limit", 100)
	if err != nil {
		return treasury.ListFilter{}, err
	}

	filter := treasury.ListFilter{Limit: limit}

	if s := q.Get("type"); s != "" {
		filter.Type = new(treasury.Type(s))
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(treasury.Category(s))
	}

	if s := q.Get("method"); s != "" {
		filter.Method = new(treasury.Method(s))
	}

	from, to, err := h.period(r)
	if err != nil {
		return treasury.ListFilter{}, err
	}

	filter.From = from

	if to != nil {
		filter.To = new(to.AddDate(0, 0, 1))
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ms, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	out := make([]movementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovementResponse(m))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	charset, err := encoding.ParseCharset(r.URL.Query().Get("charset"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter, err := h.filter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ms, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset="+string(charset))
	w.Header().Set("Content-Disposition", `attachment; filename="treasury.csv"`)

	if err := h.export.WriteTreasuryCSV(w, ms, charset); err != nil {
		respond.Error(w, r, apperr.Internal("writing treasury export", err))
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid movement id"))
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toMovementResponse(m))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Balance(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, b)
}

func (h *Handler) balanceByMethod(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.BalanceByMethod(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, b)
}

func (h *Handler) cash(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Availability(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, cashResponse{
		Counts:     c.Counts.Map(),
		Total:      c.Total,
		ComputedAt: c.ComputedAt,
	})
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	s := r.URL.Query().Get("amount")
	if s == "" {
		respond.Error(w, r, apperr.Validation("amount is required"))
		return
	}

	target, err := decimal.NewFromString(s)
	if err != nil {
		respond.Error(w, r, apperr.Validation("amount must be a number"))
		return
	}

	sg, err := h.svc.Suggest(r.Context(), target)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := suggestionResponse{
		Target:    sg.Target,
		OK:        sg.OK(),
		Remainder: sg.Remainder,
		Lines:     sg.Lines(),
	}
	if sg.OK() {
		resp.Breakdown = sg.Breakdown
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.svc.Summary(r.Context(), from, to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(s))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if from == nil || to == nil {
		respond.Error(w, r, apperr.Validation("from and to are required"))
		return
	}

	s, err := h.svc.Stats(r.Context(), *from, *to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toStatsResponse(s))
}

func (h *Handler) config(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Config(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toConfigResponse(cfg))
}

type configRequest struct {
	MinBalance        *decimal.Decimal `json:"min_balance"`
	NotifyLowBalance  *bool            `json:"notify_low_balance"`
	NotificationEmail *string          `json:"notification_email"`
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	var req configRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	cfg, err := h.svc.UpdateConfig(r.Context(), actor, treasury.ConfigUpdate{
		MinBalance:        req.MinBalance,
		NotifyLowBalance:  req.NotifyLowBalance,
		NotificationEmail: req.NotificationEmail,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toConfigResponse(cfg))
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, treasury.Categories())
}
