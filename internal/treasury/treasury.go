package treasury

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
)

type Type string

const (
	TypeIngress Type = "ingress"
	TypeEgress  Type = "egress"
)

func (t Type) Valid() bool {
	return t == TypeIngress || t == TypeEgress
}

// Sign is +1 for ingress and -1 for egress.
func (t Type) Sign() int {
	if t == TypeEgress {
		return -1
	}

	return 1
}

type Category string

const (
	CategoryTillTransfer        Category = "till_transfer"
	CategoryLoan                Category = "loan"
	CategoryPartnerContribution Category = "partner_contribution"
	CategoryExternalIncome      Category = "external_income"
	CategoryOtherIncome         Category = "other_income"

	CategoryPayroll      Category = "payroll"
	CategoryUtilities    Category = "utilities"
	CategoryRent         Category = "rent"
	CategorySuppliers    Category = "suppliers"
	CategoryInventory    Category = "inventory"
	CategoryMaintenance  Category = "maintenance"
	CategoryTaxes        Category = "taxes"
	CategoryOtherExpense Category = "other_expense"
)

// Uncategorized labels totals of rows that predate categories.
const Uncategorized = "uncategorized"

var categories = map[Type][]Category{
	TypeIngress: {
		CategoryTillTransfer,
		CategoryLoan,
		CategoryPartnerContribution,
		CategoryExternalIncome,
		CategoryOtherIncome,
	},
	TypeEgress: {
		CategoryPayroll,
		CategoryUtilities,
		CategoryRent,
		CategorySuppliers,
		CategoryInventory,
		CategoryMaintenance,
		CategoryTaxes,
		CategoryOtherExpense,
	},
}

// Categories returns the categories allowed for each movement type.
func Categories() map[Type][]Category {
	out := make(map[Type][]Category, len(categories))
	for t, cs := range categories {
		out[t] = append([]Category(nil), cs...)
	}

	return out
}

// BelongsTo reports whether c may be used with movements of type t.
func (c Category) BelongsTo(t Type) bool {
	for _, v := range categories[t] {
		if v == c {
			return true
		}
	}

	return false
}

// Method is how money enters or leaves the safe. It differs from till payment methods.
type Method string

const (
	MethodCash        Method = "cash"
	MethodTransfer    Method = "transfer"
	MethodCheck       Method = "check"
	MethodBankDeposit Method = "bank_deposit"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCheck, MethodBankDeposit:
		return true
	}

	return false
}

// Movement is one entry of the safe ledger. Amount is signed: egress is negative.
// Cash movements carry the counted breakdown.
type Movement struct {
	ID            uuid.UUID
	Type          Type
	Category      Category
	Amount        decimal.Decimal
	Description   string
	Method        Method
	OriginTillID  *uuid.UUID
	VoucherNumber string
	MovementAt    time.Time
	CreatedAt     time.Time
	CreatedBy     uuid.UUID
	Breakdown     *denomination.Breakdown
}

// Cash is the physical content of the safe derived from the ledger.
type Cash struct {
	Counts     denomination.Availability `json:"counts"`
	Total      decimal.Decimal           `json:"total"`
	ComputedAt time.Time                 `json:"computed_at"`
}

// Balance is the ledger total over full history, optionally split by method.
type Balance struct {
	Total      decimal.Decimal            `json:"total"`
	ByMethod   map[Method]decimal.Decimal `json:"by_method,omitempty"`
	ComputedAt time.Time                  `json:"computed_at"`
}

// CategoryTotal aggregates one category of a period. Total is unsigned.
type CategoryTotal struct {
	Type     Type
	Category string
	Total    decimal.Decimal
	Count    int
}

type Summary struct {
	From              time.Time
	To                time.Time
	TotalIngress      decimal.Decimal
	TotalEgress       decimal.Decimal
	IngressByCategory map[string]decimal.Decimal
	EgressByCategory  map[string]decimal.Decimal
	MovementCount     int
	Balance           decimal.Decimal
	Threshold         decimal.Decimal
	LowBalance        bool
}

type Stats struct {
	From              time.Time
	To                time.Time
	TotalIngress      decimal.Decimal
	TotalEgress       decimal.Decimal
	OpeningBalance    decimal.Decimal
	ClosingBalance    decimal.Decimal
	MovementCount     int
	TopEgressCategory string
	TopEgressAmount   decimal.Decimal
}

// Config holds the low-balance alert settings.
type Config struct {
	MinBalance        decimal.Decimal
	NotifyLowBalance  bool
	NotificationEmail string
	UpdatedAt         *time.Time
	UpdatedBy         *uuid.UUID
}

// Settings are the defaults injected at construction.
type Settings struct {
	MinBalance decimal.Decimal
	CacheTTL   time.Duration
	Location   *time.Location
}
