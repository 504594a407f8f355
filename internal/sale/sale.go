package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

type State string

const (
	StateRegistered State = "registered"
	StatePaid       State = "paid"
)

// Sale is one vehicle inspection from reception to payment.
type Sale struct {
	ID             uuid.UUID
	Plate          string
	VehicleType    tariff.VehicleType
	ModelYear      int
	ClientName     string
	ClientDocument string
	ClientPhone    string
	InspectionFee  decimal.Decimal
	HasInsurance   bool
	Commission     decimal.Decimal
	Total          decimal.Decimal
	State          State
	TillID         *uuid.UUID
	InvoiceNumber  string
	Allocations    []Allocation
	RegisteredBy   uuid.UUID
	ChargedBy      *uuid.UUID
	RegisteredAt   time.Time
	PaidAt         *time.Time
}

// Allocation is the part of a sale paid with one method.
type Allocation struct {
	Method payment.Method  `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// ValidateAllocations checks that allocations are well formed and cover total exactly.
func ValidateAllocations(allocations []Allocation, total decimal.Decimal) error {
	if len(allocations) == 0 {
		return apperr.Validation("at least one payment allocation is required")
	}

	seen := make(map[payment.Method]bool, len(allocations))
	sum := decimal.Zero

	for _, a := range allocations {
		if !a.Method.Valid() {
			return apperr.Validation("invalid payment method %q", a.Method)
		}

		if seen[a.Method] {
			return apperr.Validation("payment method %s appears more than once", a.Method)
		}

		if !a.Amount.IsPositive() {
			return apperr.Validation("amount for %s must be greater than 0", a.Method)
		}

		seen[a.Method] = true
		sum = sum.Add(a.Amount)
	}

	if !sum.Equal(total) {
		return apperr.Validation("payments add up to %s but the sale total is %s", sum.StringFixed(2), total.StringFixed(2))
	}

	return nil
}

// Methods lists the allocation methods in order.
func (s *Sale) Methods() []payment.Method {
	out := make([]payment.Method, 0, len(s.Allocations))
	for _, a := range s.Allocations {
		out = append(out, a.Method)
	}

	return out
}

type part struct {
	category    till.Category
	amount      decimal.Decimal
	description string
}

// Movements splits the allocations over the sale's charges into till movements.
// The inspection fee is filled first, then the insurance commission. Each
// (charge, method) slice becomes one movement.
func Movements(s *Sale, tillID, operatorID uuid.UUID) []*till.Movement {
	parts := []part{
		{till.CategoryServiceFee, s.InspectionFee, fmt.Sprintf("Inspection fee %s", s.Plate)},
		{till.CategoryInsuranceCommission, s.Commission, fmt.Sprintf("Insurance commission %s", s.Plate)},
	}

	var (
		out       []*till.Movement
		saleID    = s.ID
		allocIdx  int
		allocLeft decimal.Decimal
	)

	if len(s.Allocations) > 0 {
		allocLeft = s.Allocations[0].Amount
	}

	for _, p := range parts {
		partLeft := p.amount

		for partLeft.IsPositive() && allocIdx < len(s.Allocations) {
			take := decimal.Min(partLeft, allocLeft)
			method := s.Allocations[allocIdx].Method

			out = append(out, &till.Movement{
				TillID:      tillID,
				SaleID:      &saleID,
				Category:    p.category,
				Amount:      take,
				Method:      method,
				Description: p.description,
				AffectsCash: method.AffectsCash(),
				CreatedBy:   operatorID,
			})

			partLeft = partLeft.Sub(take)
			allocLeft = allocLeft.Sub(take)

			if !allocLeft.IsPositive() {
				allocIdx++
				if allocIdx < len(s.Allocations) {
					allocLeft = s.Allocations[allocIdx].Amount
				}
			}
		}
	}

	return out
}
