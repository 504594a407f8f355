package treasury

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
)

var ErrNotFound = fmt.Errorf("treasury movement %w", apperr.ErrNotFound)

// ErrNoConfig is returned by GetConfig before the alert settings are first saved.
var ErrNoConfig = errors.New("treasury config not set")

const (
	cashKey    = "treasury:cash"
	balanceKey = "treasury:balance"

	minDescriptionLength = 5
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=treasury
type Repository interface {
	// BeginRecord starts a transaction that serialises every ledger write.
	BeginRecord(ctx context.Context) (RecordTx, error)
	Availability(ctx context.Context) (denomination.Availability, error)
	Balance(ctx context.Context) (decimal.Decimal, error)
	BalanceByMethod(ctx context.Context) (map[Method]decimal.Decimal, error)
	BalanceBefore(ctx context.Context, at time.Time) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	ListMovements(ctx context.Context, filter ListFilter) ([]*Movement, error)
	GetMovement(ctx context.Context, id uuid.UUID) (*Movement, error)
	GetConfig(ctx context.Context) (*Config, error)
	SaveConfig(ctx context.Context, cfg *Config) error
}

type RecordTx interface {
	Availability(ctx context.Context) (denomination.Availability, error)
	InsertMovement(ctx context.Context, movement *Movement) error
	Commit() error
	Rollback() error
}

type ListFilter struct {
	Type     *Type
	Category *Category
	Method   *Method
	From     *time.Time
	To       *time.Time
	Limit    int
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Metrics interface {
	EgressRejected()
	TreasuryMovement(kind string)
}

type Service struct {
	repo     Repository
	cache    Cache
	audit    Auditor
	metrics  Metrics
	settings Settings
	now      func() time.Time
}

func NewService(repo Repository, cache Cache, auditor Auditor, metrics Metrics, settings Settings, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	if settings.Location == nil {
		settings.Location = time.UTC
	}

	if settings.CacheTTL <= 0 {
		settings.CacheTTL = time.Minute
	}

	return &Service{repo: repo, cache: cache, audit: auditor, metrics: metrics, settings: settings, now: now}
}

type RecordParams struct {
	Operator      auth.Actor
	Type          Type
	Category      Category
	Amount        decimal.Decimal
	Description   string
	Method        Method
	OriginTillID  *uuid.UUID
	VoucherNumber string
	// MovementAt may be backdated. Zero means now.
	MovementAt time.Time
	Breakdown  *denomination.Breakdown
}

// Record appends a movement to the ledger. Cash egress is only accepted when the safe
// physically holds every requested bill and coin.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Movement, error) {
	if !params.Type.Valid() {
		return nil, apperr.Validation("invalid movement type %q", params.Type)
	}

	if !params.Category.BelongsTo(params.Type) {
		return nil, apperr.Validation("category %q is not valid for %s", params.Category, params.Type)
	}

	if !params.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than 0")
	}

	description := strings.TrimSpace(params.Description)
	if len([]rune(description)) < minDescriptionLength {
		return nil, apperr.Validation("description must be at least %d characters", minDescriptionLength)
	}

	if !params.Method.Valid() {
		return nil, apperr.Validation("invalid method %q", params.Method)
	}

	m := &Movement{
		Type:          params.Type,
		Category:      params.Category,
		Amount:        params.Amount.Mul(decimal.NewFromInt(int64(params.Type.Sign()))),
		Description:   description,
		Method:        params.Method,
		OriginTillID:  params.OriginTillID,
		VoucherNumber: strings.TrimSpace(params.VoucherNumber),
		MovementAt:    params.MovementAt,
		CreatedBy:     params.Operator.ID,
	}

	if params.Method == MethodCash {
		if params.Breakdown == nil {
			return nil, apperr.Validation("cash movements need a bill and coin breakdown")
		}

		total, err := params.Breakdown.Total()
		if err != nil {
			return nil, err
		}

		if !total.Equal(params.Amount) {
			return nil, apperr.Validation("breakdown adds up to %s but the amount is %s",
				denomination.FormatAmount(total), denomination.FormatAmount(params.Amount))
		}

		b := *params.Breakdown
		m.Breakdown = &b
	}

	now := s.now()
	if m.MovementAt.IsZero() {
		m.MovementAt = now
	}

	if m.MovementAt.After(now.Add(time.Minute)) {
		return nil, apperr.Validation("movement date cannot be in the future")
	}

	tx, err := s.repo.BeginRecord(ctx)
	if err != nil {
		return nil, apperr.Internal("starting treasury transaction", err)
	}
	defer tx.Rollback()

	if m.Type == TypeEgress && m.Breakdown != nil {
		available, err := tx.Availability(ctx)
		if err != nil {
			return nil, apperr.Internal("computing cash availability", err)
		}

		if err := checkAvailability(*m.Breakdown, available, params.Amount); err != nil {
			s.metrics.EgressRejected()
			s.audit.Record(ctx, audit.Event{
				Action:       audit.ActionCreateTreasuryMovement,
				Actor:        params.Operator,
				Description:  "rejected cash egress",
				ErrorMessage: err.Error(),
				Fields: []audit.Field{
					audit.String("category", string(m.Category)),
					audit.Decimal("amount", params.Amount),
				},
			})

			return nil, err
		}
	}

	if err := tx.InsertMovement(ctx, m); err != nil {
		return nil, apperr.Internal("inserting treasury movement", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("committing treasury movement", err)
	}

	s.invalidate(ctx)
	s.metrics.TreasuryMovement(string(m.Type))

	fields := []audit.Field{
		audit.UUID("movement_id", m.ID),
		audit.String("type", string(m.Type)),
		audit.String("category", string(m.Category)),
		audit.String("method", string(m.Method)),
		audit.Decimal("amount", m.Amount),
	}
	if m.OriginTillID != nil {
		fields = append(fields, audit.UUID("origin_till_id", *m.OriginTillID))
	}

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionCreateTreasuryMovement,
		Actor:       params.Operator,
		Description: fmt.Sprintf("recorded %s of %s", m.Type, denomination.FormatAmount(params.Amount)),
		Fields:      fields,
	})

	return m, nil
}

// checkAvailability rejects a withdrawal that asks for more of any denomination than
// the safe holds. The error lists each shortfall followed by a composition that would work.
func checkAvailability(requested denomination.Breakdown, available denomination.Availability, amount decimal.Decimal) error {
	shortfalls := available.Shortfalls(requested)
	if len(shortfalls) == 0 {
		return nil
	}

	details := make([]string, 0, len(shortfalls)+4)
	for _, sf := range shortfalls {
		details = append(details, sf.String())
	}

	suggestion := denomination.Suggest(amount.IntPart(), available)
	if suggestion.OK() {
		details = append(details, "Suggested composition:")
	}

	details = append(details, suggestion.Lines()...)

	return apperr.Validation("not enough denominations in the safe").WithDetails(details...)
}

func (s *Service) invalidate(ctx context.Context) {
	for _, key := range []string{cashKey, balanceKey} {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("failed to invalidate treasury cache", "key", key, "error", err)
		}
	}
}

// Availability returns what the safe holds per denomination, replayed from the ledger.
func (s *Service) Availability(ctx context.Context) (*Cash, error) {
	var cached Cash
	if ok, err := s.cache.Get(ctx, cashKey, &cached); err != nil {
		slog.Warn("failed to read treasury cache", "key", cashKey, "error", err)
	} else if ok {
		return &cached, nil
	}

	counts, err := s.repo.Availability(ctx)
	if err != nil {
		return nil, apperr.Internal("computing cash availability", err)
	}

	cash := &Cash{
		Counts:     counts,
		Total:      counts.Total(),
		ComputedAt: s.now(),
	}

	if err := s.cache.Set(ctx, cashKey, cash, s.settings.CacheTTL); err != nil {
		slog.Warn("failed to write treasury cache", "key", cashKey, "error", err)
	}

	return cash, nil
}

// Suggest composes target from the bills and coins currently in the safe.
func (s *Service) Suggest(ctx context.Context, target decimal.Decimal) (denomination.Suggestion, error) {
	if !target.IsPositive() || !target.Equal(target.Truncate(0)) {
		return denomination.Suggestion{}, apperr.Validation("target must be a positive whole amount")
	}

	cash, err := s.Availability(ctx)
	if err != nil {
		return denomination.Suggestion{}, err
	}

	return denomination.Suggest(target.IntPart(), cash.Counts), nil
}

// Balance is the sum of every signed movement, cash or not.
func (s *Service) Balance(ctx context.Context) (*Balance, error) {
	var cached Balance
	if ok, err := s.cache.Get(ctx, balanceKey, &cached); err != nil {
		slog.Warn("failed to read treasury cache", "key", balanceKey, "error", err)
	} else if ok {
		return &cached, nil
	}

	total, err := s.repo.Balance(ctx)
	if err != nil {
		return nil, apperr.Internal("computing balance", err)
	}

	b := &Balance{Total: total, ComputedAt: s.now()}

	if err := s.cache.Set(ctx, balanceKey, b, s.settings.CacheTTL); err != nil {
		slog.Warn("failed to write treasury cache", "key", balanceKey, "error", err)
	}

	return b, nil
}

func (s *Service) BalanceByMethod(ctx context.Context) (*Balance, error) {
	byMethod, err := s.repo.BalanceByMethod(ctx)
	if err != nil {
		return nil, apperr.Internal("computing balance by method", err)
	}

	b := &Balance{Total: decimal.Zero, ByMethod: byMethod, ComputedAt: s.now()}
	for _, v := range byMethod {
		b.Total = b.Total.Add(v)
	}

	return b, nil
}

// period resolves an inclusive day range in the business timezone to [from, to).
func (s *Service) period(from, to *time.Time) (time.Time, time.Time, error) {
	loc := s.settings.Location
	y, m, d := s.now().In(loc).Date()

	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	if from != nil {
		fy, fm, fd := from.In(loc).Date()
		start = time.Date(fy, fm, fd, 0, 0, 0, 0, loc)
	}

	end := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	if to != nil {
		ty, tm, td := to.In(loc).Date()
		end = time.Date(ty, tm, td, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, apperr.Validation("period start must not be after its end")
	}

	return start, end, nil
}

// Summary reports period totals by category. The balance always covers full history.
// A nil bound defaults to the current month.
func (s *Service) Summary(ctx context.Context, from, to *time.Time) (*Summary, error) {
	start, end, err := s.period(from, to)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.CategoryTotals(ctx, start, end)
	if err != nil {
		return nil, apperr.Internal("summing categories", err)
	}

	balance, err := s.repo.Balance(ctx)
	if err != nil {
		return nil, apperr.Internal("computing balance", err)
	}

	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		From:              start,
		To:                end.AddDate(0, 0, -1),
		TotalIngress:      decimal.Zero,
		TotalEgress:       decimal.Zero,
		IngressByCategory: map[string]decimal.Decimal{},
		EgressByCategory:  map[string]decimal.Decimal{},
		Balance:           balance,
		Threshold:         cfg.MinBalance,
		LowBalance:        balance.LessThan(cfg.MinBalance),
	}

	for _, ct := range totals {
		category := ct.Category
		if category == "" {
			category = Uncategorized
		}

		sum.MovementCount += ct.Count

		switch ct.Type {
		case TypeIngress:
			sum.TotalIngress = sum.TotalIngress.Add(ct.Total)
			sum.IngressByCategory[category] = sum.IngressByCategory[category].Add(ct.Total)
		case TypeEgress:
			sum.TotalEgress = sum.TotalEgress.Add(ct.Total)
			sum.EgressByCategory[category] = sum.EgressByCategory[category].Add(ct.Total)
		}
	}

	return sum, nil
}

// Stats reports how the balance moved over a period and where most money went.
func (s *Service) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	start, end, err := s.period(&from, &to)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.CategoryTotals(ctx, start, end)
	if err != nil {
		return nil, apperr.Internal("summing categories", err)
	}

	opening, err := s.repo.BalanceBefore(ctx, start)
	if err != nil {
		return nil, apperr.Internal("computing opening balance", err)
	}

	st := &Stats{
		From:            start,
		To:              end.AddDate(0, 0, -1),
		TotalIngress:    decimal.Zero,
		TotalEgress:     decimal.Zero,
		OpeningBalance:  opening,
		TopEgressAmount: decimal.Zero,
	}

	egress := map[string]decimal.Decimal{}

	for _, ct := range totals {
		st.MovementCount += ct.Count

		if ct.Type == TypeIngress {
			st.TotalIngress = st.TotalIngress.Add(ct.Total)
			continue
		}

		category := ct.Category
		if category == "" {
			category = Uncategorized
		}

		st.TotalEgress = st.TotalEgress.Add(ct.Total)
		egress[category] = egress[category].Add(ct.Total)
	}

	for category, total := range egress {
		if total.GreaterThan(st.TopEgressAmount) ||
			(total.Equal(st.TopEgressAmount) && category < st.TopEgressCategory) {
			st.TopEgressCategory = category
			st.TopEgressAmount = total
		}
	}

	st.ClosingBalance = opening.Add(st.TotalIngress).Sub(st.TotalEgress)

	return st, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Movement, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperr.Validation("invalid movement type %q", *filter.Type)
	}

	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	filter.Limit = min(filter.Limit, 500)

	out, err := s.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("listing treasury movements", err)
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Movement, error) {
	m, err := s.repo.GetMovement(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("treasury movement %s not found", id)
		}

		return nil, apperr.Internal("getting treasury movement", err)
	}

	return m, nil
}

// Config returns the stored alert settings, or the injected defaults before any are saved.
func (s *Service) Config(ctx context.Context) (*Config, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			return &Config{MinBalance: s.settings.MinBalance, NotifyLowBalance: true}, nil
		}

		return nil, apperr.Internal("getting treasury config", err)
	}

	return cfg, nil
}

type ConfigUpdate struct {
	MinBalance        *decimal.Decimal
	NotifyLowBalance  *bool
	NotificationEmail *string
}

func (s *Service) UpdateConfig(ctx context.Context, actor auth.Actor, update ConfigUpdate) (*Config, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}

	if update.MinBalance != nil {
		if update.MinBalance.IsNegative() {
			return nil, apperr.Validation("minimum balance cannot be negative")
		}

		cfg.MinBalance = *update.MinBalance
	}

	if update.NotifyLowBalance != nil {
		cfg.NotifyLowBalance = *update.NotifyLowBalance
	}

	if update.NotificationEmail != nil {
		email := strings.TrimSpace(*update.NotificationEmail)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, apperr.Validation("invalid notification email %q", email)
			}
		}

		cfg.NotificationEmail = email
	}

	now := s.now()
	cfg.UpdatedAt = &now
	cfg.UpdatedBy = &actor.ID

	if err := s.repo.SaveConfig(ctx, cfg); err != nil {
		return nil, apperr.Internal("saving treasury config", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionUpdateTreasuryConfig,
		Actor:       actor,
		Description: "updated treasury alert settings",
		Fields: []audit.Field{
			audit.Decimal("min_balance", cfg.MinBalance),
			audit.String("notification_email", cfg.NotificationEmail),
		},
	})

	return cfg, nil
}
