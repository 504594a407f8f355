package sale

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

var (
	ErrNotFound      = fmt.Errorf("sale %w", apperr.ErrNotFound)
	ErrPlateInUse    = fmt.Errorf("plate already in process: %w", apperr.ErrConflict)
	ErrNotRegistered = fmt.Errorf("sale is no longer registered: %w", apperr.ErrConflict)
)

const minReasonLength = 10

var platePattern = regexp.MustCompile(`^[A-Z0-9]{5,7}$`)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindInProcess(ctx context.Context, plate string, paidSince time.Time) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
	CountPending(ctx context.Context, tillID uuid.UUID) (int, error)
	CountMovements(ctx context.Context, saleID uuid.UUID) (int, error)
	Begin(ctx context.Context, saleID uuid.UUID) (Tx, error)
}

// Tx holds the sale row locked until Commit or Rollback.
type Tx interface {
	LockOpenTill(ctx context.Context, tillID uuid.UUID) error
	MarkPaid(ctx context.Context, sale *Sale) error
	ReplaceAllocations(ctx context.Context, saleID uuid.UUID, allocations []Allocation) error
	InsertMovement(ctx context.Context, movement *till.Movement) error
	UpdateMovementMethods(ctx context.Context, saleID uuid.UUID, method payment.Method, affectsCash bool) (int64, error)
	Commit() error
	Rollback() error
}

type ListFilter struct {
	State     State
	TillID    *uuid.UUID
	ChargedBy *uuid.UUID
	PaidSince *time.Time
	Limit     int
}

// Tills resolves the till a sale is charged at.
type Tills interface {
	ActiveTill(ctx context.Context, operatorID uuid.UUID) (*till.Till, error)
	GetTill(ctx context.Context, id uuid.UUID) (*till.Till, error)
}

// Pricer returns the listed fees of a vehicle.
type Pricer interface {
	Fee(ctx context.Context, vehicleType tariff.VehicleType, modelYear int, on time.Time) (decimal.Decimal, error)
	Commission(ctx context.Context, vehicleType tariff.VehicleType, on time.Time) (decimal.Decimal, error)
}

type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	repo  Repository
	tills Tills
	price Pricer
	audit Auditor
	loc   *time.Location
	now   func() time.Time
}

// NewService builds the sale service. loc is the business timezone that decides
// what "today" means for same-day corrections.
func NewService(repo Repository, tills Tills, price Pricer, auditor Auditor, loc *time.Location, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, tills: tills, price: price, audit: auditor, loc: loc, now: now}
}

func (s *Service) startOfDay() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func (s *Service) sameDay(t time.Time) bool {
	y1, m1, d1 := t.In(s.loc).Date()
	y2, m2, d2 := s.now().In(s.loc).Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}

// NormalizePlate upper-cases a plate and drops separators.
func NormalizePlate(plate string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(plate)))
}

type RegisterParams struct {
	Operator       auth.Actor
	Plate          string
	VehicleType    tariff.VehicleType
	ModelYear      int
	ClientName     string
	ClientDocument string
	ClientPhone    string
	HasInsurance   bool
	// TillID queues the sale at a till. That till cannot close until it is charged.
	TillID *uuid.UUID
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*Sale, error) {
	plate := NormalizePlate(params.Plate)
	if !platePattern.MatchString(plate) {
		return nil, apperr.Validation("invalid plate %q", params.Plate)
	}

	if !params.VehicleType.Valid() {
		return nil, apperr.Validation("invalid vehicle type %q", params.VehicleType)
	}

	if strings.TrimSpace(params.ClientName) == "" || strings.TrimSpace(params.ClientDocument) == "" {
		return nil, apperr.Validation("client name and document are required")
	}

	existing, err := s.repo.FindInProcess(ctx, plate, s.startOfDay())
	switch {
	case err == nil:
		return nil, apperr.Conflict("plate %s is already %s", plate, existing.State)
	case !errors.Is(err, ErrNotFound):
		return nil, apperr.Internal("checking plate", err)
	}

	if params.TillID != nil {
		t, err := s.tills.GetTill(ctx, *params.TillID)
		if err != nil {
			if errors.Is(err, till.ErrNotFound) {
				return nil, apperr.Validation("till %s does not exist", *params.TillID)
			}

			return nil, apperr.Internal("getting till", err)
		}

		if !t.IsOpen() {
			return nil, apperr.Validation("till %s is closed", t.ID)
		}
	}

	now := s.now()

	fee, err := s.price.Fee(ctx, params.VehicleType, params.ModelYear, now)
	if err != nil {
		return nil, err
	}

	commission := decimal.Zero
	if params.HasInsurance {
		commission, err = s.price.Commission(ctx, params.VehicleType, now)
		if err != nil {
			return nil, err
		}
	}

	sale := &Sale{
		Plate:          plate,
		VehicleType:    params.VehicleType,
		ModelYear:      params.ModelYear,
		ClientName:     strings.TrimSpace(params.ClientName),
		ClientDocument: strings.TrimSpace(params.ClientDocument),
		ClientPhone:    strings.TrimSpace(params.ClientPhone),
		InspectionFee:  fee,
		HasInsurance:   params.HasInsurance,
		Commission:     commission,
		Total:          fee.Add(commission),
		State:          StateRegistered,
		TillID:         params.TillID,
		RegisteredBy:   params.Operator.ID,
	}

	if err := s.repo.CreateSale(ctx, sale); err != nil {
		switch {
		case errors.Is(err, ErrPlateInUse):
			return nil, apperr.Conflict("plate %s is already registered", plate)
		case errors.Is(err, till.ErrAlreadyClosed):
			return nil, apperr.Validation("till %s is closed", *params.TillID)
		case errors.Is(err, till.ErrNotFound):
			return nil, apperr.Validation("till %s does not exist", *params.TillID)
		}

		return nil, apperr.Internal("creating sale", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionRegisterSale,
		Actor:       params.Operator,
		Description: fmt.Sprintf("registered %s", plate),
		Fields: []audit.Field{
			audit.UUID("sale_id", sale.ID),
			audit.String("plate", plate),
			audit.Decimal("total", sale.Total),
		},
	})

	return sale, nil
}

type ChargeParams struct {
	Operator      auth.Actor
	SaleID        uuid.UUID
	Allocations   []Allocation
	InvoiceNumber string
	// PreventiveFee is the price agreed at the till for preventive checks.
	PreventiveFee *decimal.Decimal
}

// Charge takes payment for a registered sale at the operator's open till.
func (s *Service) Charge(ctx context.Context, params ChargeParams) (*Sale, error) {
	sale, err := s.Get(ctx, params.SaleID)
	if err != nil {
		return nil, err
	}

	if sale.State != StateRegistered {
		return nil, apperr.Validation("sale %s is %s, only registered sales can be charged", sale.Plate, sale.State)
	}

	active, err := s.tills.ActiveTill(ctx, params.Operator.ID)
	if err != nil {
		if errors.Is(err, till.ErrNotFound) {
			return nil, apperr.Validation("open a till before charging")
		}

		return nil, apperr.Internal("getting active till", err)
	}

	if sale.VehicleType == tariff.VehiclePreventive {
		if params.PreventiveFee == nil || !params.PreventiveFee.IsPositive() {
			return nil, apperr.Validation("preventive inspections need a fee greater than 0")
		}

		sale.InspectionFee = *params.PreventiveFee
		sale.Total = sale.InspectionFee.Add(sale.Commission)
	} else if params.PreventiveFee != nil {
		return nil, apperr.Validation("only preventive inspections take a fee at the till")
	}

	if err := ValidateAllocations(params.Allocations, sale.Total); err != nil {
		return nil, err
	}

	now := s.now()
	operatorID := params.Operator.ID

	sale.State = StatePaid
	sale.TillID = &active.ID
	sale.ChargedBy = &operatorID
	sale.PaidAt = &now
	sale.InvoiceNumber = strings.TrimSpace(params.InvoiceNumber)
	sale.Allocations = params.Allocations

	tx, err := s.repo.Begin(ctx, sale.ID)
	if err != nil {
		return nil, s.txError("starting charge", err)
	}
	defer tx.Rollback()

	if err := tx.LockOpenTill(ctx, active.ID); err != nil {
		return nil, s.txError("locking till", err)
	}

	if err := tx.MarkPaid(ctx, sale); err != nil {
		return nil, s.txError("marking sale paid", err)
	}

	if err := tx.ReplaceAllocations(ctx, sale.ID, sale.Allocations); err != nil {
		return nil, apperr.Internal("saving allocations", err)
	}

	for _, m := range Movements(sale, active.ID, operatorID) {
		if err := tx.InsertMovement(ctx, m); err != nil {
			return nil, s.txError("inserting movement", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("committing charge", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionChargeSale,
		Actor:       params.Operator,
		Description: fmt.Sprintf("charged %s", sale.Plate),
		Fields: []audit.Field{
			audit.UUID("sale_id", sale.ID),
			audit.UUID("till_id", active.ID),
			audit.Decimal("total", sale.Total),
			audit.String("methods", joinMethods(sale.Methods())),
		},
	})

	return sale, nil
}

type ChangeParams struct {
	Operator  auth.Actor
	SaleID    uuid.UUID
	NewMethod string
	Reason    string
}

// ChangePaymentMethod corrects how a sale was paid. Only sales paid today at a till
// that is still open can be corrected, and the whole sale moves to the new method.
func (s *Service) ChangePaymentMethod(ctx context.Context, params ChangeParams) (*Sale, error) {
	reason := strings.TrimSpace(params.Reason)
	if len([]rune(reason)) < minReasonLength {
		return nil, apperr.Validation("a reason of at least %d characters is required", minReasonLength)
	}

	method, err := payment.Parse(params.NewMethod)
	if err != nil {
		return nil, err
	}

	sale, err := s.Get(ctx, params.SaleID)
	if err != nil {
		return nil, err
	}

	if sale.State != StatePaid {
		return nil, apperr.Validation("sale %s is %s, only paid sales can be corrected", sale.Plate, sale.State)
	}

	if sale.TillID == nil {
		return nil, apperr.Validation("sale %s is not linked to a till", sale.Plate)
	}

	if sale.PaidAt == nil || !s.sameDay(*sale.PaidAt) {
		return nil, apperr.Validation("payment method changes are same-day only")
	}

	t, err := s.tills.GetTill(ctx, *sale.TillID)
	if err != nil {
		if errors.Is(err, till.ErrNotFound) {
			return nil, apperr.NotFound("till %s not found", *sale.TillID)
		}

		return nil, apperr.Internal("getting till", err)
	}

	if !t.IsOpen() {
		return nil, apperr.Conflict("till already closed")
	}

	count, err := s.repo.CountMovements(ctx, sale.ID)
	if err != nil {
		return nil, apperr.Internal("counting movements", err)
	}

	if count == 0 {
		return nil, apperr.NotFound("no till movements for sale %s", sale.Plate)
	}

	previous := sale.Methods()
	if len(previous) == 1 && previous[0] == method {
		return nil, apperr.Validation("sale %s is already paid with %s", sale.Plate, method)
	}

	allocations := []Allocation{{Method: method, Amount: sale.Total}}

	tx, err := s.repo.Begin(ctx, sale.ID)
	if err != nil {
		return nil, s.txError("starting correction", err)
	}
	defer tx.Rollback()

	if err := tx.LockOpenTill(ctx, t.ID); err != nil {
		return nil, s.txError("locking till", err)
	}

	if err := tx.ReplaceAllocations(ctx, sale.ID, allocations); err != nil {
		return nil, apperr.Internal("saving allocations", err)
	}

	if _, err := tx.UpdateMovementMethods(ctx, sale.ID, method, method.AffectsCash()); err != nil {
		return nil, apperr.Internal("updating movements", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("committing correction", err)
	}

	sale.Allocations = allocations

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionChangePaymentMethod,
		Actor:       params.Operator,
		Description: fmt.Sprintf("changed payment method of %s to %s", sale.Plate, method),
		Fields: []audit.Field{
			audit.UUID("sale_id", sale.ID),
			audit.UUID("till_id", t.ID),
			audit.String("old_method", joinMethods(previous)),
			audit.String("new_method", string(method)),
			audit.String("reason", reason),
		},
	})

	return sale, nil
}

// txError maps the lock and state errors a charge or correction can hit mid-transaction.
func (s *Service) txError(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("sale not found")
	case errors.Is(err, ErrNotRegistered):
		return apperr.Conflict("sale was charged by someone else")
	case errors.Is(err, till.ErrAlreadyClosed):
		return apperr.Conflict("till already closed")
	}

	return apperr.Internal(op, err)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("sale %s not found", id)
		}

		return nil, apperr.Internal("getting sale", err)
	}

	return sale, nil
}

// PendingCharges counts sales queued at tillID that are still unpaid.
func (s *Service) PendingCharges(ctx context.Context, tillID uuid.UUID) (int, error) {
	n, err := s.repo.CountPending(ctx, tillID)
	if err != nil {
		return 0, apperr.Internal("counting pending charges", err)
	}

	return n, nil
}

// ListPending returns registered sales waiting at the till, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]*Sale, error) {
	out, err := s.repo.ListSales(ctx, ListFilter{State: StateRegistered, Limit: 200})
	if err != nil {
		return nil, apperr.Internal("listing pending sales", err)
	}

	return out, nil
}

// ChargedToday returns the sales the operator charged since midnight, the ones still correctable.
func (s *Service) ChargedToday(ctx context.Context, operator auth.Actor) ([]*Sale, error) {
	since := s.startOfDay()

	out, err := s.repo.ListSales(ctx, ListFilter{
		State:     StatePaid,
		ChargedBy: &operator.ID,
		PaidSince: &since,
		Limit:     200,
	})
	if err != nil {
		return nil, apperr.Internal("listing charged sales", err)
	}

	return out, nil
}

func joinMethods(methods []payment.Method) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = string(m)
	}

	return strings.Join(parts, ",")
}
