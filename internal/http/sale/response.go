package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/sale"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
)

type saleResponse struct {
	ID             string             `json:"id"`
	Plate          string             `json:"plate"`
	VehicleType    tariff.VehicleType `json:"vehicle_type"`
	ModelYear      int                `json:"model_year"`
	ClientName     string             `json:"client_name"`
	ClientDocument string             `json:"client_document"`
	ClientPhone    string             `json:"client_phone,omitempty"`
	InspectionFee  decimal.Decimal    `json:"inspection_fee"`
	HasInsurance   bool               `json:"has_insurance"`
	Commission     decimal.Decimal    `json:"commission"`
	Total          decimal.Decimal    `json:"total"`
	State          sale.State         `json:"state"`
	TillID         *string            `json:"till_id,omitempty"`
	InvoiceNumber  string             `json:"invoice_number,omitempty"`
	Allocations    []sale.Allocation  `json:"allocations"`
	RegisteredAt   time.Time          `json:"registered_at"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
}

func toSaleResponse(s *sale.Sale) saleResponse {
	resp := saleResponse{
		ID:             s.ID.String(),
		Plate:          s.Plate,
		VehicleType:    s.VehicleType,
		ModelYear:      s.ModelYear,
		ClientName:     s.ClientName,
		ClientDocument: s.ClientDocument,
		ClientPhone:    s.ClientPhone,
		InspectionFee:  s.InspectionFee,
		HasInsurance:   s.HasInsurance,
		Commission:     s.Commission,
		Total:          s.Total,
		State:          s.State,
		InvoiceNumber:  s.InvoiceNumber,
		Allocations:    s.Allocations,
		RegisteredAt:   s.RegisteredAt,
		PaidAt:         s.PaidAt,
	}

	if resp.Allocations == nil {
		resp.Allocations = []sale.Allocation{}
	}

	if s.TillID != nil {
		id := s.TillID.String()
		resp.TillID = &id
	}

	return resp
}

func toSaleList(sales []*sale.Sale) []saleResponse {
	out := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}

	return out
}
