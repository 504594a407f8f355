package till

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
)

type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}

	return false
}

type Category string

const (
	CategoryServiceFee          Category = "service_fee"
	CategoryInsuranceCommission Category = "insurance_commission"
	CategoryExpense             Category = "expense"
	CategoryRefund              Category = "refund"
	CategoryAdjustment          Category = "adjustment"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryServiceFee, CategoryInsuranceCommission, CategoryExpense, CategoryRefund, CategoryAdjustment:
		return true
	}

	return false
}

// Till is a cashier's drawer session. The close figures are zero while it is open.
type Till struct {
	ID              uuid.UUID
	OperatorID      uuid.UUID
	OperatorName    string
	Shift           Shift
	State           State
	OpeningAmount   decimal.Decimal
	OpenedAt        time.Time
	ClosedAt        *time.Time
	SystemBalance   decimal.Decimal
	PhysicalBalance decimal.Decimal
	Difference      decimal.Decimal
	Notes           string
	Breakdown       *denomination.Breakdown
	MovementCount   int
}

func (t *Till) IsOpen() bool {
	return t.State == StateOpen
}

// Movement is a signed till ledger entry: positive amounts are ingress, negative are egress.
type Movement struct {
	ID          uuid.UUID
	TillID      uuid.UUID
	SaleID      *uuid.UUID
	Category    Category
	Amount      decimal.Decimal
	Method      payment.Method
	Description string
	AffectsCash bool
	CreatedAt   time.Time
	CreatedBy   uuid.UUID
}

// ExpectedBalance is the cash the drawer should hold: the opening amount plus cash
// ingress, minus every egress regardless of its method. Expenses always leave the drawer.
func ExpectedBalance(openingAmount decimal.Decimal, movements []*Movement) decimal.Decimal {
	balance := openingAmount

	for _, m := range movements {
		switch {
		case m.Amount.IsPositive() && m.AffectsCash:
			balance = balance.Add(m.Amount)
		case m.Amount.IsNegative():
			balance = balance.Sub(m.Amount.Abs())
		}
	}

	return balance
}

// Summary groups a till's ledger for pre-close review. Only ingress is grouped.
type Summary struct {
	TillID           uuid.UUID
	Shift            Shift
	OpenedAt         time.Time
	OpeningAmount    decimal.Decimal
	ByMethod         map[payment.Method]decimal.Decimal
	ByCategory       map[Category]decimal.Decimal
	TotalIngress     decimal.Decimal
	TotalCashIngress decimal.Decimal
	TotalEgress      decimal.Decimal
	ExpectedBalance  decimal.Decimal
	SalesCharged     int
	MovementCount    int
}

func Summarize(t *Till, movements []*Movement) *Summary {
	s := &Summary{
		TillID:        t.ID,
		Shift:         t.Shift,
		OpenedAt:      t.OpenedAt,
		OpeningAmount: t.OpeningAmount,
		ByMethod:      make(map[payment.Method]decimal.Decimal),
		ByCategory:    make(map[Category]decimal.Decimal),
		MovementCount: len(movements),
	}

	sales := make(map[uuid.UUID]struct{})

	for _, m := range movements {
		if m.SaleID != nil {
			sales[*m.SaleID] = struct{}{}
		}

		if !m.Amount.IsPositive() {
			s.TotalEgress = s.TotalEgress.Add(m.Amount.Abs())
			continue
		}

		s.TotalIngress = s.TotalIngress.Add(m.Amount)
		if m.AffectsCash {
			s.TotalCashIngress = s.TotalCashIngress.Add(m.Amount)
		}

		s.ByMethod[m.Method] = s.ByMethod[m.Method].Add(m.Amount)
		s.ByCategory[m.Category] = s.ByCategory[m.Category].Add(m.Amount)
	}

	s.SalesCharged = len(sales)
	s.ExpectedBalance = ExpectedBalance(t.OpeningAmount, movements)

	return s
}
