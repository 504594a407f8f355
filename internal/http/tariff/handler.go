package tariff

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
)

const maxUploadBytes = 5 << 20

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=tariff
type Service interface {
	Quote(ctx context.Context, vehicleType tariff.VehicleType, modelYear int, hasInsurance bool) (*tariff.Quote, error)
	List(ctx context.Context, year int) ([]*tariff.Tariff, error)
	Import(ctx context.Context, actor auth.Actor, r io.Reader, year int) (int, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/fee", h.fee)
	r.With(authhttp.RequireRole(auth.RoleAdmin)).Post("/import", h.importSheet)
}

func (h *Handler) fee(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	vt, ok := tariff.ParseVehicleType(q.Get("vehicle_type"))
	if !ok {
		respond.Error(w, r, apperr.Validation("unknown vehicle type %q", q.Get("vehicle_type")))
		return
	}

	modelYear, err := respond.QueryInt(r, "model_year", 0)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if modelYear == 0 {
		respond.Error(w, r, apperr.Validation("model_year is required"))
		return
	}

	hasInsurance, _ := strconv.ParseBool(q.Get("has_insurance"))

	quote, err := h.svc.Quote(r.Context(), vt, modelYear, hasInsurance)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, quote)
}

type tariffResponse struct {
	ID            string             `json:"id"`
	Year          int                `json:"year"`
	VehicleType   tariff.VehicleType `json:"vehicle_type"`
	AgeMin        int                `json:"age_min"`
	AgeMax        *int               `json:"age_max,omitempty"`
	InspectionFee decimal.Decimal    `json:"inspection_fee"`
	ThirdParty    decimal.Decimal    `json:"third_party"`
	Total         decimal.Decimal    `json:"total"`
	ValidFrom     time.Time          `json:"valid_from"`
	ValidTo       time.Time          `json:"valid_to"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	year, err := respond.QueryInt(r, "year", 0)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tariffs, err := h.svc.List(r.Context(), year)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	out := make([]tariffResponse, 0, len(tariffs))
	for _, t := range tariffs {
		out = append(out, tariffResponse{
			ID:            t.ID.String(),
			Year:          t.Year,
			VehicleType:   t.VehicleType,
			AgeMin:        t.AgeMin,
			AgeMax:        t.AgeMax,
			InspectionFee: t.InspectionFee,
			ThirdParty:    t.ThirdParty,
			Total:         t.Total,
			ValidFrom:     t.ValidFrom,
			ValidTo:       t.ValidTo,
		})
	}

	respond.JSON(w, http.StatusOK, out)
}

type importResponse struct {
	Year     int `json:"year"`
	Imported int `json:"imported"`
}

// importSheet takes the CSV as the raw request body, in any charset encoding.Detect knows.
func (h *Handler) importSheet(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhttp.Actor(w, r)
	if !ok {
		return
	}

	year, err := respond.QueryInt(r, "year", 0)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if year == 0 {
		respond.Error(w, r, apperr.Validation("year is required"))
		return
	}

	n, err := h.svc.Import(r.Context(), actor, http.MaxBytesReader(w, r.Body, maxUploadBytes), year)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, importResponse{Year: year, Imported: n})
}
