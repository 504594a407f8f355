package till

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
)

var (
	ErrNotFound      = fmt.Errorf("till %w", apperr.ErrNotFound)
	ErrAlreadyOpen   = fmt.Errorf("till already open: %w", apperr.ErrConflict)
	ErrAlreadyClosed = fmt.Errorf("till already closed: %w", apperr.ErrConflict)
)

// closeTolerance absorbs rounding between the counted breakdown and the declared total.
var closeTolerance = decimal.RequireFromString("0.01")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=till
type Repository interface {
	ActiveTill(ctx context.Context, operatorID uuid.UUID) (*Till, error)
	CreateTill(ctx context.Context, t *Till) error
	GetTill(ctx context.Context, id uuid.UUID) (*Till, error)
	LastClosed(ctx context.Context, operatorID uuid.UUID) (*Till, error)
	History(ctx context.Context, filter HistoryFilter) ([]*Till, error)

	CreateMovement(ctx context.Context, movement *Movement) error
	ListMovements(ctx context.Context, tillID uuid.UUID) ([]*Movement, error)

	BeginClose(ctx context.Context, tillID uuid.UUID) (CloseTx, error)
}

// CloseTx holds the till row locked until Commit or Rollback.
type CloseTx interface {
	Movements(ctx context.Context) ([]*Movement, error)
	CloseTill(ctx context.Context, t *Till) error
	InsertBreakdown(ctx context.Context, tillID uuid.UUID, breakdown denomination.Breakdown, total decimal.Decimal) error
	InsertNotification(ctx context.Context, n *notification.Notification) error
	Commit() error
	Rollback() error
}

// PendingCharges counts sales queued at a till that have not been charged yet.
type PendingCharges interface {
	PendingCharges(ctx context.Context, tillID uuid.UUID) (int, error)
}

type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Metrics interface {
	TillOpened()
	TillClosed(difference decimal.Decimal)
}

type Service struct {
	repo    Repository
	pending PendingCharges
	audit   Auditor
	metrics Metrics
	now     func() time.Time
}

func NewService(repo Repository, pending PendingCharges, auditor Auditor, metrics Metrics, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{repo: repo, pending: pending, audit: auditor, metrics: metrics, now: now}
}

type OpenParams struct {
	Operator      auth.Actor
	OpeningAmount decimal.Decimal
	Shift         Shift
}

func (s *Service) Open(ctx context.Context, params OpenParams) (*Till, error) {
	if params.OpeningAmount.IsNegative() {
		return nil, apperr.Validation("opening amount cannot be negative")
	}

	if !params.Shift.Valid() {
		return nil, apperr.Validation("invalid shift %q", params.Shift)
	}

	_, err := s.repo.ActiveTill(ctx, params.Operator.ID)
	switch {
	case err == nil:
		return nil, apperr.Conflict("you already have an open till, close it before opening a new one")
	case !errors.Is(err, ErrNotFound):
		return nil, apperr.Internal("checking active till", err)
	}

	t := &Till{
		OperatorID:    params.Operator.ID,
		OperatorName:  params.Operator.Name,
		Shift:         params.Shift,
		State:         StateOpen,
		OpeningAmount: params.OpeningAmount,
	}

	if err := s.repo.CreateTill(ctx, t); err != nil {
		if errors.Is(err, ErrAlreadyOpen) {
			return nil, apperr.Conflict("you already have an open till, close it before opening a new one")
		}

		return nil, apperr.Internal("creating till", err)
	}

	s.metrics.TillOpened()
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionOpenTill,
		Actor:  params.Operator,
		Description: fmt.Sprintf("Till opened, shift %s, opening amount %s",
			t.Shift, denomination.FormatAmount(t.OpeningAmount)),
		Fields: []audit.Field{
			audit.UUID("till_id", t.ID),
			audit.String("shift", string(t.Shift)),
			audit.Decimal("opening_amount", t.OpeningAmount),
		},
	})

	return t, nil
}

// Active returns the operator's open till or a NotFound error.
func (s *Service) Active(ctx context.Context, operator auth.Actor) (*Till, error) {
	t, err := s.repo.ActiveTill(ctx, operator.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("no open till")
		}

		return nil, apperr.Internal("getting active till", err)
	}

	return t, nil
}

type MovementParams struct {
	Operator    auth.Actor
	Category    Category
	Amount      decimal.Decimal
	Method      payment.Method
	Description string
	// AffectsCash overrides the method's default when set.
	AffectsCash *bool
}

// RecordMovement appends a manual entry (expense, refund, adjustment) to the operator's open till.
// Balances are only reconciled at close.
func (s *Service) RecordMovement(ctx context.Context, params MovementParams) (*Movement, error) {
	t, err := s.Active(ctx, params.Operator)
	if err != nil {
		return nil, err
	}

	desc := strings.TrimSpace(params.Description)

	switch {
	case !params.Category.Valid():
		return nil, apperr.Validation("invalid movement category %q", params.Category)
	case !params.Method.Valid():
		return nil, apperr.Validation("invalid payment method %q", params.Method)
	case params.Amount.IsZero():
		return nil, apperr.Validation("amount cannot be zero")
	case len([]rune(desc)) < 5:
		return nil, apperr.Validation("description must be at least 5 characters")
	}

	affectsCash := params.Method.AffectsCash()
	if params.AffectsCash != nil {
		affectsCash = *params.AffectsCash
	}

	m := &Movement{
		TillID:      t.ID,
		Category:    params.Category,
		Amount:      params.Amount,
		Method:      params.Method,
		Description: desc,
		AffectsCash: affectsCash,
		CreatedBy:   params.Operator.ID,
	}

	if err := s.repo.CreateMovement(ctx, m); err != nil {
		if errors.Is(err, ErrAlreadyClosed) || errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("no open till")
		}

		return nil, apperr.Internal("creating movement", err)
	}

	action, verb := audit.ActionRegisterExtraIncome, "Extra income"
	if m.Amount.IsNegative() {
		action, verb = audit.ActionRegisterExpense, "Expense"
	}

	s.audit.Record(ctx, audit.Event{
		Action:      action,
		Actor:       params.Operator,
		Description: fmt.Sprintf("%s registered: %s, %s", verb, m.Description, denomination.FormatAmount(m.Amount.Abs())),
		Fields: []audit.Field{
			audit.UUID("till_id", t.ID),
			audit.UUID("movement_id", m.ID),
			audit.String("category", string(m.Category)),
			audit.Decimal("amount", m.Amount),
			audit.String("method", string(m.Method)),
		},
	})

	return m, nil
}

// Movements returns a till's ledger, newest first.
func (s *Service) Movements(ctx context.Context, tillID uuid.UUID) ([]*Movement, error) {
	out, err := s.repo.ListMovements(ctx, tillID)
	if err != nil {
		return nil, apperr.Internal("listing movements", err)
	}

	return out, nil
}

// Summary returns the grouped figures of the operator's open till.
func (s *Service) Summary(ctx context.Context, operator auth.Actor) (*Summary, error) {
	t, err := s.Active(ctx, operator)
	if err != nil {
		return nil, err
	}

	movements, err := s.Movements(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	return Summarize(t, movements), nil
}

type CloseParams struct {
	Operator      auth.Actor
	Breakdown     denomination.Breakdown
	DeclaredTotal decimal.Decimal
	Notes         string
}

// Close reconciles the operator's open till against a physical count. The till update,
// its breakdown and the back-office notification commit together or not at all.
func (s *Service) Close(ctx context.Context, params CloseParams) (*Till, error) {
	t, err := s.Active(ctx, params.Operator)
	if err != nil {
		return nil, err
	}

	counted, err := params.Breakdown.Total()
	if err != nil {
		return nil, err
	}

	if counted.Sub(params.DeclaredTotal).Abs().GreaterThan(closeTolerance) {
		return nil, apperr.Validation("the cash breakdown (%s) does not match the declared total (%s)",
			denomination.FormatAmount(counted), denomination.FormatAmount(params.DeclaredTotal))
	}

	tx, err := s.repo.BeginClose(ctx, t.ID)
	if err != nil {
		if errors.Is(err, ErrAlreadyClosed) {
			return nil, apperr.Conflict("till already closed")
		}

		return nil, apperr.Internal("beginning close", err)
	}
	defer tx.Rollback()

	// Registering a sale at this till takes a share lock on its row, so the count is
	// stable once BeginClose holds the row.
	pending, err := s.pending.PendingCharges(ctx, t.ID)
	if err != nil {
		return nil, apperr.Internal("counting pending charges", err)
	}

	if pending > 0 {
		return nil, apperr.Conflict("cannot close the till: %d sale(s) registered but not charged", pending)
	}

	movements, err := tx.Movements(ctx)
	if err != nil {
		return nil, apperr.Internal("reading movements", err)
	}

	expected := ExpectedBalance(t.OpeningAmount, movements)
	if expected.IsPositive() && counted.IsZero() {
		return nil, apperr.Validation("%s in cash is expected but the breakdown is empty, count the bills and coins",
			denomination.FormatAmount(expected))
	}

	closedAt := s.now()
	closed := *t
	closed.State = StateClosed
	closed.ClosedAt = &closedAt
	closed.SystemBalance = expected
	closed.PhysicalBalance = params.DeclaredTotal
	closed.Difference = params.DeclaredTotal.Sub(expected)
	closed.Notes = strings.TrimSpace(params.Notes)
	closed.Breakdown = &params.Breakdown
	closed.MovementCount = len(movements)

	if err := tx.CloseTill(ctx, &closed); err != nil {
		if errors.Is(err, ErrAlreadyClosed) {
			return nil, apperr.Conflict("till already closed")
		}

		return nil, apperr.Internal("closing till", err)
	}

	if err := tx.InsertBreakdown(ctx, closed.ID, params.Breakdown, counted); err != nil {
		return nil, apperr.Internal("saving cash breakdown", err)
	}

	if err := tx.InsertNotification(ctx, &notification.Notification{
		TillID:          closed.ID,
		Shift:           string(closed.Shift),
		OperatorName:    closed.OperatorName,
		ClosedAt:        closedAt,
		CashToDeliver:   closed.PhysicalBalance,
		SystemBalance:   closed.SystemBalance,
		PhysicalBalance: closed.PhysicalBalance,
		Difference:      closed.Difference,
		Notes:           closed.Notes,
		State:           notification.StatePending,
	}); err != nil {
		return nil, apperr.Internal("creating close notification", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("committing close", err)
	}

	s.metrics.TillClosed(closed.Difference)
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionCloseTill,
		Actor:  params.Operator,
		Description: fmt.Sprintf("Till closed, system %s, physical %s, difference %s",
			denomination.FormatAmount(closed.SystemBalance),
			denomination.FormatAmount(closed.PhysicalBalance),
			denomination.FormatAmount(closed.Difference)),
		Fields: []audit.Field{
			audit.UUID("till_id", closed.ID),
			audit.Decimal("system_balance", closed.SystemBalance),
			audit.Decimal("physical_balance", closed.PhysicalBalance),
			audit.Decimal("difference", closed.Difference),
			audit.String("notes", closed.Notes),
		},
	})

	return &closed, nil
}

// Detail is a till with its ledger and grouped figures.
type Detail struct {
	Till      *Till
	Movements []*Movement
	Summary   *Summary
}

// Get returns any till to an admin, and only their own tills to everyone else.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Detail, error) {
	t, err := s.repo.GetTill(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("till %s not found", id)
		}

		return nil, apperr.Internal("getting till", err)
	}

	if !actor.IsAdmin() && t.OperatorID != actor.ID {
		return nil, apperr.NotFound("till %s not found", id)
	}

	movements, err := s.Movements(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	t.MovementCount = len(movements)

	return &Detail{Till: t, Movements: movements, Summary: Summarize(t, movements)}, nil
}

// LastClosed returns the operator's most recently closed till, or nil when there is none.
func (s *Service) LastClosed(ctx context.Context, operator auth.Actor) (*Summary, error) {
	t, err := s.repo.LastClosed(ctx, operator.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, apperr.Internal("getting last closed till", err)
	}

	movements, err := s.Movements(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	return Summarize(t, movements), nil
}

type HistoryFilter struct {
	OperatorID *uuid.UUID
	Limit      int
}

// History lists tills newest first: every till for admins, the actor's own otherwise.
func (s *Service) History(ctx context.Context, actor auth.Actor, limit int) ([]*Till, error) {
	if limit <= 0 {
		limit = 10
	}

	if limit > 100 {
		limit = 100
	}

	filter := HistoryFilter{Limit: limit}
	if !actor.IsAdmin() {
		filter.OperatorID = &actor.ID
	}

	out, err := s.repo.History(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("listing till history", err)
	}

	return out, nil
}
