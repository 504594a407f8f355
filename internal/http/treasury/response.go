package treasury

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/export"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

type movementResponse struct {
	ID            string                  `json:"id"`
	Type          treasury.Type           `json:"type"`
	Category      treasury.Category       `json:"category"`
	Amount        decimal.Decimal         `json:"amount"`
	Description   string                  `json:"description"`
	Method        treasury.Method         `json:"method"`
	OriginTillID  *string                 `json:"origin_till_id,omitempty"`
	VoucherNumber string                  `json:"voucher_number,omitempty"`
	MovementAt    time.Time               `json:"movement_at"`
	CreatedAt     time.Time               `json:"created_at"`
	CreatedBy     string                  `json:"created_by"`
	Breakdown     *denomination.Breakdown `json:"breakdown,omitempty"`
}

func toMovementResponse(m *treasury.Movement) movementResponse {
	resp := movementResponse{
		ID:            m.ID.String(),
		Type:          m.Type,
		Category:      m.Category,
		Amount:        m.Amount,
		Description:   m.Description,
		Method:        m.Method,
		VoucherNumber: export.VoucherNumber(m),
		MovementAt:    m.MovementAt,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy.String(),
		Breakdown:     m.Breakdown,
	}

	if m.OriginTillID != nil {
		id := m.OriginTillID.String()
		resp.OriginTillID = &id
	}

	return resp
}

type cashResponse struct {
	Counts     map[string]int64 `json:"counts"`
	Total      decimal.Decimal  `json:"total"`
	ComputedAt time.Time        `json:"computed_at"`
}

type suggestionResponse struct {
	Target    int64                  `json:"target"`
	OK        bool                   `json:"ok"`
	Breakdown denomination.Breakdown `json:"breakdown,omitzero"`
	Remainder int64                  `json:"remainder"`
	Lines     []string               `json:"lines"`
}

type summaryResponse struct {
	From              string                     `json:"from"`
	To                string                     `json:"to"`
	TotalIngress      decimal.Decimal            `json:"total_ingress"`
	TotalEgress       decimal.Decimal            `json:"total_egress"`
	IngressByCategory map[string]decimal.Decimal `json:"ingress_by_category"`
	EgressByCategory  map[string]decimal.Decimal `json:"egress_by_category"`
	MovementCount     int                        `json:"movement_count"`
	Balance           decimal.Decimal            `json:"balance"`
	Threshold         decimal.Decimal            `json:"threshold"`
	LowBalance        bool                       `json:"low_balance"`
}

func toSummaryResponse(s *treasury.Summary) summaryResponse {
	return summaryResponse{
		From:              s.From.Format(time.DateOnly),
		To:                s.To.Format(time.DateOnly),
		TotalIngress:      s.TotalIngress,
		TotalEgress:       s.TotalEgress,
		IngressByCategory: s.IngressByCategory,
		EgressByCategory:  s.EgressByCategory,
		MovementCount:     s.MovementCount,
		Balance:           s.Balance,
		Threshold:         s.Threshold,
		LowBalance:        s.LowBalance,
	}
}

type statsResponse struct {
	From              string          `json:"from"`
	To                string          `json:"to"`
	TotalIngress      decimal.Decimal `json:"total_ingress"`
	TotalEgress       decimal.Decimal `json:"total_egress"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	ClosingBalance    decimal.Decimal `json:"closing_balance"`
	MovementCount     int             `json:"movement_count"`
	TopEgressCategory string          `json:"top_egress_category,omitempty"`
	TopEgressAmount   decimal.Decimal `json:"top_egress_amount"`
}

func toStatsResponse(s *treasury.Stats) statsResponse {
	return statsResponse{
		From:              s.From.Format(time.DateOnly),
		To:                s.To.Format(time.DateOnly),
		TotalIngress:      s.TotalIngress,
		TotalEgress:       s.TotalEgress,
		OpeningBalance:    s.OpeningBalance,
		ClosingBalance:    s.ClosingBalance,
		MovementCount:     s.MovementCount,
		TopEgressCategory: s.TopEgressCategory,
		TopEgressAmount:   s.TopEgressAmount,
	}
}

type configResponse struct {
	MinBalance        decimal.Decimal `json:"min_balance"`
	NotifyLowBalance  bool            `json:"notify_low_balance"`
	NotificationEmail string          `json:"notification_email"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

func toConfigResponse(c *treasury.Config) configResponse {
	return configResponse{
		MinBalance:        c.MinBalance,
		NotifyLowBalance:  c.NotifyLowBalance,
		NotificationEmail: c.NotificationEmail,
		UpdatedAt:         c.UpdatedAt,
	}
}
