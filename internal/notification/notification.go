package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
)

type State string

const (
	StatePending  State = "pending"
	StateRead     State = "read"
	StateArchived State = "archived"
)

func (s State) Valid() bool {
	switch s {
	case StatePending, StateRead, StateArchived:
		return true
	}

	return false
}

// Transition reports whether a notification may move from one state to another.
// Pending may become read or archived, read may become archived, archived is terminal.
func Transition(from, to State) error {
	switch {
	case from == StateArchived:
		return apperr.Conflict("notification is archived")
	case from == StatePending && (to == StateRead || to == StateArchived):
		return nil
	case from == StateRead && to == StateArchived:
		return nil
	}

	return apperr.Conflict("cannot move notification from %s to %s", from, to)
}

// Notification is the back-office snapshot of a till close.
type Notification struct {
	ID              uuid.UUID
	TillID          uuid.UUID
	Shift           string
	OperatorName    string
	ClosedAt        time.Time
	CashToDeliver   decimal.Decimal
	SystemBalance   decimal.Decimal
	PhysicalBalance decimal.Decimal
	Difference      decimal.Decimal
	Notes           string
	State           State
	ReadBy          *uuid.UUID
	ReadAt          *time.Time
	CreatedAt       time.Time
}
