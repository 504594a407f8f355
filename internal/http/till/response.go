package till

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/export"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

type tillResponse struct {
	ID              string                  `json:"id"`
	OperatorID      string                  `json:"operator_id"`
	OperatorName    string                  `json:"operator_name"`
	Shift           till.Shift              `json:"shift"`
	State           till.State              `json:"state"`
	OpeningAmount   decimal.Decimal         `json:"opening_amount"`
	OpenedAt        time.Time               `json:"opened_at"`
	ClosedAt        *time.Time              `json:"closed_at,omitempty"`
	SystemBalance   *decimal.Decimal        `json:"system_balance,omitempty"`
	PhysicalBalance *decimal.Decimal        `json:"physical_balance,omitempty"`
	Difference      *decimal.Decimal        `json:"difference,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Breakdown       *denomination.Breakdown `json:"breakdown,omitempty"`
	MovementCount   int                     `json:"movement_count"`
}

func toTillResponse(t *till.Till) tillResponse {
	resp := tillResponse{
		ID:            t.ID.String(),
		OperatorID:    t.OperatorID.String(),
		OperatorName:  t.OperatorName,
		Shift:         t.Shift,
		State:         t.State,
		OpeningAmount: t.OpeningAmount,
		OpenedAt:      t.OpenedAt,
		ClosedAt:      t.ClosedAt,
		Notes:         t.Notes,
		Breakdown:     t.Breakdown,
		MovementCount: t.MovementCount,
	}

	if !t.IsOpen() {
		resp.SystemBalance = &t.SystemBalance
		resp.PhysicalBalance = &t.PhysicalBalance
		resp.Difference = &t.Difference
	}

	return resp
}

type movementResponse struct {
	ID          string          `json:"id"`
	SaleID      *string         `json:"sale_id,omitempty"`
	Category    till.Category   `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Method      payment.Method  `json:"method"`
	Description string          `json:"description"`
	AffectsCash bool            `json:"affects_cash"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toMovementResponse(m *till.Movement) movementResponse {
	resp := movementResponse{
		ID:          m.ID.String(),
		Category:    m.Category,
		Amount:      m.Amount,
		Method:      m.Method,
		Description: m.Description,
		AffectsCash: m.AffectsCash,
		CreatedAt:   m.CreatedAt,
	}

	if m.SaleID != nil {
		id := m.SaleID.String()
		resp.SaleID = &id
	}

	return resp
}

func toMovementList(ms []*till.Movement) []movementResponse {
	out := make([]movementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovementResponse(m))
	}

	return out
}

type summaryResponse struct {
	TillID           string                             `json:"till_id"`
	Shift            till.Shift                         `json:"shift"`
	OpenedAt         time.Time                          `json:"opened_at"`
	OpeningAmount    decimal.Decimal                    `json:"opening_amount"`
	ByMethod         map[payment.Method]decimal.Decimal `json:"by_method"`
	ByCategory       map[till.Category]decimal.Decimal  `json:"by_category"`
	TotalIngress     decimal.Decimal                    `json:"total_ingress"`
	TotalCashIngress decimal.Decimal                    `json:"total_cash_ingress"`
	TotalEgress      decimal.Decimal                    `json:"total_egress"`
	ExpectedBalance  decimal.Decimal                    `json:"expected_balance"`
	SalesCharged     int                                `json:"sales_charged"`
	MovementCount    int                                `json:"movement_count"`
}

func toSummaryResponse(s *till.Summary) summaryResponse {
	return summaryResponse{
		TillID:           s.TillID.String(),
		Shift:            s.Shift,
		OpenedAt:         s.OpenedAt,
		OpeningAmount:    s.OpeningAmount,
		ByMethod:         s.ByMethod,
		ByCategory:       s.ByCategory,
		TotalIngress:     s.TotalIngress,
		TotalCashIngress: s.TotalCashIngress,
		TotalEgress:      s.TotalEgress,
		ExpectedBalance:  s.ExpectedBalance,
		SalesCharged:     s.SalesCharged,
		MovementCount:    s.MovementCount,
	}
}

type detailResponse struct {
	Till      tillResponse       `json:"till"`
	Summary   summaryResponse    `json:"summary"`
	Movements []movementResponse `json:"movements"`
}

func toDetailResponse(d *till.Detail) detailResponse {
	return detailResponse{
		Till:      toTillResponse(d.Till),
		Summary:   toSummaryResponse(d.Summary),
		Movements: toMovementList(d.Movements),
	}
}

type receiptResponse struct {
	Till        tillResponse           `json:"till"`
	Summary     summaryResponse        `json:"summary"`
	Movements   []movementResponse     `json:"movements"`
	Breakdown   []export.BreakdownLine `json:"breakdown"`
	GeneratedAt time.Time              `json:"generated_at"`
}

func toReceiptResponse(r *export.Report) receiptResponse {
	return receiptResponse{
		Till:        toTillResponse(r.Till),
		Summary:     toSummaryResponse(r.Summary),
		Movements:   toMovementList(r.Movements),
		Breakdown:   r.Breakdown,
		GeneratedAt: r.GeneratedAt,
	}
}
