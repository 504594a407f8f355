package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

// ledgerLockKey identifies the advisory lock taken by every treasury write.
const ledgerLockKey = 7_420_001

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// availabilityQuery replays every cash breakdown: ingress adds, egress subtracts.
var availabilityQuery = func() string {
	cols := make([]string, 0, denomination.Count)
	for _, d := range denomination.Table {
		cols = append(cols, fmt.Sprintf(
			"COALESCE(SUM(CASE WHEN m.amount > 0 THEN b.%[1]s ELSE -b.%[1]s END), 0)::bigint", d.Key,
		))
	}

	return `SELECT ` + strings.Join(cols, ", ") + `
		FROM treasury_movements m
		JOIN treasury_breakdowns b ON b.movement_id = m.id
		WHERE m.method = 'cash'`
}()

func availability(ctx context.Context, q queryer) (denomination.Availability, error) {
	var a denomination.Availability

	dest := make([]any, denomination.Count)
	for i := range a {
		dest[i] = &a[i]
	}

	if err := q.QueryRowContext(ctx, availabilityQuery).Scan(dest...); err != nil {
		return a, fmt.Errorf("replaying cash breakdowns: %w", err)
	}

	return a, nil
}

func (s *Store) Availability(ctx context.Context) (denomination.Availability, error) {
	return availability(ctx, s.db)
}

type recordTx struct {
	tx *sql.Tx
}

// BeginRecord takes a transaction-scoped advisory lock so ledger writes run one at a time.
func (s *Store) BeginRecord(ctx context.Context) (treasury.RecordTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("locking treasury ledger: %w", err)
	}

	return &recordTx{tx: dbTx}, nil
}

func (r *recordTx) Commit() error   { return r.tx.Commit() }
func (r *recordTx) Rollback() error { return r.tx.Rollback() }

func (r *recordTx) Availability(ctx context.Context) (denomination.Availability, error) {
	return availability(ctx, r.tx)
}

func (r *recordTx) InsertMovement(ctx context.Context, m *treasury.Movement) error {
	var voucher *string
	if m.VoucherNumber != "" {
		voucher = &m.VoucherNumber
	}

	query := `
		INSERT INTO treasury_movements (type, category, amount, description, method, origin_till_id,
			voucher_number, movement_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.tx.QueryRowContext(ctx, query,
		m.Type,
		m.Category,
		m.Amount,
		m.Description,
		m.Method,
		m.OriginTillID,
		voucher,
		m.MovementAt,
		m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting treasury movement: %w", err)
	}

	if m.Breakdown == nil {
		return nil
	}

	args := []any{m.ID}
	placeholders := []string{"$1"}
	cols := make([]string, 0, denomination.Count)

	for i, n := range m.Breakdown {
		args = append(args, n)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		cols = append(cols, denomination.Table[i].Key)
	}

	_, err = r.tx.ExecContext(ctx,
		`INSERT INTO treasury_breakdowns (movement_id, `+strings.Join(cols, ", ")+`) VALUES (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("inserting treasury breakdown: %w", err)
	}

	return nil
}

func (s *Store) Balance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM treasury_movements`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing treasury: %w", err)
	}

	return total, nil
}

func (s *Store) BalanceBefore(ctx context.Context, at time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM treasury_movements WHERE movement_at < $1`, at,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing treasury before %s: %w", at.Format(time.DateOnly), err)
	}

	return total, nil
}

func (s *Store) BalanceByMethod(ctx context.Context) (map[treasury.Method]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT method, SUM(amount) FROM treasury_movements GROUP BY method`)
	if err != nil {
		return nil, fmt.Errorf("summing treasury by method: %w", err)
	}
	defer rows.Close()

	out := map[treasury.Method]decimal.Decimal{}

	for rows.Next() {
		var (
			method string
			total  decimal.Decimal
		)

		if err := rows.Scan(&method, &total); err != nil {
			return nil, fmt.Errorf("scanning method balance: %w", err)
		}

		out[treasury.Method(method)] = total
	}

	return out, rows.Err()
}

func (s *Store) CategoryTotals(ctx context.Context, from, to time.Time) ([]treasury.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, category, SUM(ABS(amount)), COUNT(*)
		FROM treasury_movements
		WHERE movement_at >= $1 AND movement_at < $2
		GROUP BY type, category
		ORDER BY type, category
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("summing categories: %w", err)
	}
	defer rows.Close()

	var out []treasury.CategoryTotal

	for rows.Next() {
		var (
			ct   treasury.CategoryTotal
			kind string
		)

		if err := rows.Scan(&kind, &ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		ct.Type = treasury.Type(kind)
		out = append(out, ct)
	}

	return out, rows.Err()
}

var selectMovementColumns = `
	m.id, m.type, m.category, m.amount, m.description, m.method, m.origin_till_id,
	COALESCE(m.voucher_number, ''), m.movement_at, m.created_at, m.created_by, b.movement_id, ` + breakdownColumns

var breakdownColumns = func() string {
	cols := make([]string, 0, denomination.Count)
	for _, d := range denomination.Table {
		cols = append(cols, "b."+d.Key)
	}

	return strings.Join(cols, ", ")
}()

func scanMovement(s scanner) (*treasury.Movement, error) {
	var (
		m                 treasury.Movement
		kind, cat, method string
		breakdownID       *uuid.UUID
		counts            [denomination.Count]sql.NullInt64
	)

	dest := []any{
		&m.ID, &kind, &cat, &m.Amount, &m.Description, &method, &m.OriginTillID,
		&m.VoucherNumber, &m.MovementAt, &m.CreatedAt, &m.CreatedBy, &breakdownID,
	}
	for i := range counts {
		dest = append(dest, &counts[i])
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	m.Type = treasury.Type(kind)
	m.Category = treasury.Category(cat)
	m.Method = treasury.Method(method)

	if breakdownID != nil {
		var b denomination.Breakdown
		for i, c := range counts {
			b[i] = c.Int64
		}

		m.Breakdown = &b
	}

	return &m, nil
}

const fromMovements = `
	FROM treasury_movements m
	LEFT JOIN treasury_breakdowns b ON b.movement_id = m.id`

func (s *Store) GetMovement(ctx context.Context, id uuid.UUID) (*treasury.Movement, error) {
	m, err := scanMovement(s.db.QueryRowContext(ctx, `SELECT `+selectMovementColumns+fromMovements+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, treasury.ErrNotFound
		}

		return nil, fmt.Errorf("getting treasury movement: %w", err)
	}

	return m, nil
}

func (s *Store) ListMovements(ctx context.Context, filter treasury.ListFilter) ([]*treasury.Movement, error) {
	query := `SELECT ` + selectMovementColumns + fromMovements + ` WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND m.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND m.category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.Method != nil {
		query += fmt.Sprintf(" AND m.method = $%d", argIdx)

		args = append(args, *filter.Method)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND m.movement_at >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND m.movement_at < $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY m.movement_at DESC, m.created_at DESC LIMIT $%d", argIdx)

	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing treasury movements: %w", err)
	}
	defer rows.Close()

	var out []*treasury.Movement

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning treasury movement: %w", err)
		}

		out = append(out, m)
	}

	return out, rows.Err()
}

func (s *Store) GetConfig(ctx context.Context) (*treasury.Config, error) {
	var cfg treasury.Config

	err := s.db.QueryRowContext(ctx, `
		SELECT min_balance, notify_low_balance, notification_email, updated_at, updated_by
		FROM treasury_config WHERE id = 1
	`).Scan(&cfg.MinBalance, &cfg.NotifyLowBalance, &cfg.NotificationEmail, &cfg.UpdatedAt, &cfg.UpdatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, treasury.ErrNoConfig
		}

		return nil, fmt.Errorf("getting treasury config: %w", err)
	}

	return &cfg, nil
}

func (s *Store) SaveConfig(ctx context.Context, cfg *treasury.Config) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO treasury_config (id, min_balance, notify_low_balance, notification_email, updated_at, updated_by)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			min_balance = EXCLUDED.min_balance,
			notify_low_balance = EXCLUDED.notify_low_balance,
			notification_email = EXCLUDED.notification_email,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`, cfg.MinBalance, cfg.NotifyLowBalance, cfg.NotificationEmail, cfg.UpdatedAt, cfg.UpdatedBy)
	if err != nil {
		return fmt.Errorf("saving treasury config: %w", err)
	}

	return nil
}
