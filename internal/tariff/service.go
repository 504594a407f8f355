package tariff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
)

var ErrNotFound = fmt.Errorf("tariff %w", apperr.ErrNotFound)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tariff
type Repository interface {
	FindTariff(ctx context.Context, vehicleType VehicleType, age int, on time.Time) (*Tariff, error)
	ActiveCommission(ctx context.Context, class string, on time.Time) (*Commission, error)
	ListTariffs(ctx context.Context, year int) ([]*Tariff, error)
	ReplaceYear(ctx context.Context, year int, tariffs []*Tariff) error
}

type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	repo  Repository
	audit Auditor
	now   func() time.Time
}

func NewService(repo Repository, auditor Auditor, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{repo: repo, audit: auditor, now: now}
}

// Fee returns the inspection price for a vehicle on the given day.
// Preventive checks have no listed price and return zero.
func (s *Service) Fee(ctx context.Context, vehicleType VehicleType, modelYear int, on time.Time) (decimal.Decimal, error) {
	if !vehicleType.Valid() {
		return decimal.Zero, apperr.Validation("invalid vehicle type %q", vehicleType)
	}

	if vehicleType == VehiclePreventive {
		return decimal.Zero, nil
	}

	age := Age(modelYear, on)
	if modelYear > on.Year()+1 {
		return decimal.Zero, apperr.Validation("model year %d is in the future", modelYear)
	}

	t, err := s.repo.FindTariff(ctx, vehicleType, age, on)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, apperr.NotFound("no tariff for %s vehicles %d years old", vehicleType, age)
		}

		return decimal.Zero, apperr.Internal("finding tariff", err)
	}

	return t.Total, nil
}

// Commission returns the insurance commission in force on the given day, or zero when none is.
func (s *Service) Commission(ctx context.Context, vehicleType VehicleType, on time.Time) (decimal.Decimal, error) {
	c, err := s.repo.ActiveCommission(ctx, vehicleType.CommissionClass(), on)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, nil
		}

		return decimal.Zero, apperr.Internal("finding commission", err)
	}

	return c.Amount, nil
}

// Quote prices a vehicle as of now.
func (s *Service) Quote(ctx context.Context, vehicleType VehicleType, modelYear int, hasInsurance bool) (*Quote, error) {
	now := s.now()

	fee, err := s.Fee(ctx, vehicleType, modelYear, now)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		VehicleType:   vehicleType,
		ModelYear:     modelYear,
		Age:           Age(modelYear, now),
		InspectionFee: fee,
		Commission:    decimal.Zero,
	}

	if hasInsurance {
		q.Commission, err = s.Commission(ctx, vehicleType, now)
		if err != nil {
			return nil, err
		}
	}

	q.Total = q.InspectionFee.Add(q.Commission)

	return q, nil
}

func (s *Service) List(ctx context.Context, year int) ([]*Tariff, error) {
	if year == 0 {
		year = s.now().Year()
	}

	out, err := s.repo.ListTariffs(ctx, year)
	if err != nil {
		return nil, apperr.Internal("listing tariffs", err)
	}

	return out, nil
}

// Import replaces the tariff table of year with the rows of a CSV sheet.
func (s *Service) Import(ctx context.Context, actor auth.Actor, r io.Reader, year int) (int, error) {
	if year < 2000 || year > 2100 {
		return 0, apperr.Validation("invalid tariff year %d", year)
	}

	tariffs, err := Parse(r, year)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return 0, appErr
		}

		return 0, apperr.Validation("reading tariff file: %v", err)
	}

	if err := s.repo.ReplaceYear(ctx, year, tariffs); err != nil {
		return 0, apperr.Internal("replacing tariffs", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionImportTariffs,
		Actor:       actor,
		Description: fmt.Sprintf("imported %d tariff bands for %d", len(tariffs), year),
		Fields: []audit.Field{
			audit.Int("year", int64(year)),
			audit.Int("rows", int64(len(tariffs))),
		},
	})

	return len(tariffs), nil
}
