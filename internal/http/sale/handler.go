package sale

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/sale"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=sale
type Service interface {
	Register(ctx context.Context, params sale.RegisterParams) (*sale.Sale, error)
	ListPending(ctx context.Context) ([]*sale.Sale, error)
	ChargedToday(ctx context.Context, operator auth.Actor) ([]*sale.Sale, error)
	Get(ctx context.Context, id uuid.UUID) (*sale.Sale, error)
	Charge(ctx context.Context, params sale.ChargeParams) (*sale.Sale, error)
	ChangePaymentMethod(ctx context.Context, params sale.ChangeParams) (*sale.Sale, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	cashier := authhttp.RequireRole(auth.RoleCashier)

	r.With(authhttp.RequireRole(auth.RoleReceptionist)).Post("/", h.register)
	r.Get("/pending", h.listPending)
	r.With(cashier).Get("/charged-today", h.chargedToday)
	r.Get("/{id}", h.get)
	r.With(cashier).Post("/{id}/charge", h.charge)
	r.With(cashier).Put("/{id}/payment-method", h.changePaymentMethod)
}

type registerRequest struct {
	Plate          string             `json:"plate" validate:"required"`
	VehicleType    tariff.VehicleType `json:"vehicle_type" validate:"required"`
	ModelYear      int                `json:"model_year" validate:"required,min=1900"`
	ClientName     string             `json:"client_name" validate:"required"`
	ClientDocument string             `json:"client_document" validate:"required"`
	ClientPhone    string             `json:"client_phone"`
	HasInsurance   bool               `json:"has_insurance"`
	TillID         *uuid.UUID         `json:"till_id"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	var req registerRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	vt, ok := tariff.ParseVehicleType(string(req.VehicleType))
	if !ok {
		respond.Error(w, r, apperr.Validation("unknown vehicle type %q", req.VehicleType))
		return
	}

	s, err := h.svc.Register(r.Context(), sale.RegisterParams{
		Operator:       actor,
		Plate:          req.Plate,
		VehicleType:    vt,
		ModelYear:      req.ModelYear,
		ClientName:     req.ClientName,
		ClientDocument: req.ClientDocument,
		ClientPhone:    req.ClientPhone,
		HasInsurance:   req.HasInsurance,
		TillID:         req.TillID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSaleResponse(s))
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListPending(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSaleList(sales))
}

func (h *Handler) chargedToday(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	sales, err := h.svc.ChargedToday(r.Context(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSaleList(sales))
}

func saleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid sale id"))
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := saleID(w, r)
	if !ok {
		return
	}

	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSaleResponse(s))
}

type allocationRequest struct {
	Method payment.Method   `json:"method" validate:"required"`
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

type chargeRequest struct {
	Allocations   []allocationRequest `json:"allocations" validate:"required,min=1,dive"`
	InvoiceNumber string              `json:"invoice_number" validate:"max=50"`
	PreventiveFee *decimal.Decimal    `json:"preventive_fee"`
}

func (h *Handler) charge(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	id, ok := saleID(w, r)
	if !ok {
		return
	}

	var req chargeRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	allocations := make([]sale.Allocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocations = append(allocations, sale.Allocation{Method: a.Method, Amount: *a.Amount})
	}

	s, err := h.svc.Charge(r.Context(), sale.ChargeParams{
		Operator:      actor,
		SaleID:        id,
		Allocations:   allocations,
		InvoiceNumber: req.InvoiceNumber,
		PreventiveFee: req.PreventiveFee,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSaleResponse(s))
}

type changeMethodRequest struct {
	NewMethod string `json:"new_method" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

func (h *Handler) changePaymentMethod(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	id, ok := saleID(w, r)
	if !ok {
		return
	}

	var req changeMethodRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.svc.ChangePaymentMethod(r.Context(), sale.ChangeParams{
		Operator:  actor,
		SaleID:    id,
		NewMethod: req.NewMethod,
		Reason:    req.Reason,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSaleResponse(s))
}
