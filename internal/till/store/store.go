package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/database"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// breakdownColumns lists the count columns in table order, prefixed with alias.
func breakdownColumns(alias string) string {
	cols := make([]string, 0, denomination.Count)
	for _, d := range denomination.Table {
		cols = append(cols, alias+d.Key)
	}

	return strings.Join(cols, ", ")
}

var selectTillColumns = `
	t.id, t.operator_id, t.operator_name, t.shift, t.state, t.opening_amount, t.opened_at,
	t.closed_at, t.system_balance, t.physical_balance, t.difference, t.notes,
	(SELECT COUNT(*) FROM till_movements m WHERE m.till_id = t.id),
	b.till_id, ` + breakdownColumns("b.")

const fromTills = `
	FROM tills t
	LEFT JOIN till_breakdowns b ON b.till_id = t.id`

// scanTill expects the column order of selectTillColumns.
func scanTill(s scanner) (*till.Till, error) {
	var (
		t                            till.Till
		shift, state                 string
		system, physical, difference decimal.NullDecimal
		breakdownTill                *uuid.UUID
		counts                       [denomination.Count]sql.NullInt64
	)

	dest := []any{
		&t.ID, &t.OperatorID, &t.OperatorName, &shift, &state, &t.OpeningAmount, &t.OpenedAt,
		&t.ClosedAt, &system, &physical, &difference, &t.Notes,
		&t.MovementCount,
		&breakdownTill,
	}
	for i := range counts {
		dest = append(dest, &counts[i])
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	t.Shift = till.Shift(shift)
	t.State = till.State(state)
	t.SystemBalance = system.Decimal
	t.PhysicalBalance = physical.Decimal
	t.Difference = difference.Decimal

	if breakdownTill != nil {
		var b denomination.Breakdown
		for i, c := range counts {
			b[i] = c.Int64
		}

		t.Breakdown = &b
	}

	return &t, nil
}

func (s *Store) queryTill(ctx context.Context, where string, args ...any) (*till.Till, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectTillColumns+fromTills+` `+where, args...)

	t, err := scanTill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, till.ErrNotFound
		}

		return nil, fmt.Errorf("getting till: %w", err)
	}

	return t, nil
}

func (s *Store) ActiveTill(ctx context.Context, operatorID uuid.UUID) (*till.Till, error) {
	return s.queryTill(ctx, `WHERE t.operator_id = $1 AND t.state = 'open'`, operatorID)
}

func (s *Store) GetTill(ctx context.Context, id uuid.UUID) (*till.Till, error) {
	return s.queryTill(ctx, `WHERE t.id = $1`, id)
}

func (s *Store) LastClosed(ctx context.Context, operatorID uuid.UUID) (*till.Till, error) {
	return s.queryTill(ctx,
		`WHERE t.operator_id = $1 AND t.state = 'closed' ORDER BY t.closed_at DESC LIMIT 1`,
		operatorID,
	)
}

// CreateTill relies on the tills_one_open_per_operator index to reject a second open till.
func (s *Store) CreateTill(ctx context.Context, t *till.Till) error {
	query := `
		INSERT INTO tills (operator_id, operator_name, shift, state, opening_amount, opened_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, opened_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.OperatorID,
		t.OperatorName,
		t.Shift,
		t.State,
		t.OpeningAmount,
	).Scan(&t.ID, &t.OpenedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return till.ErrAlreadyOpen
		}

		return fmt.Errorf("inserting till: %w", err)
	}

	return nil
}

func (s *Store) History(ctx context.Context, filter till.HistoryFilter) ([]*till.Till, error) {
	query := `SELECT ` + selectTillColumns + fromTills

	var args []any

	if filter.OperatorID != nil {
		query += ` WHERE t.operator_id = $1`

		args = append(args, *filter.OperatorID)
	}

	query += fmt.Sprintf(` ORDER BY t.opened_at DESC LIMIT $%d`, len(args)+1)

	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tills: %w", err)
	}
	defer rows.Close()

	var out []*till.Till

	for rows.Next() {
		t, err := scanTill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning till: %w", err)
		}

		out = append(out, t)
	}

	return out, rows.Err()
}

const selectMovementColumns = `
	id, till_id, sale_id, category, amount, method, description, affects_cash, created_at, created_by
`

func scanMovement(s scanner) (*till.Movement, error) {
	var (
		m                till.Movement
		category, method string
	)

	if err := s.Scan(
		&m.ID, &m.TillID, &m.SaleID, &category, &m.Amount, &method, &m.Description,
		&m.AffectsCash, &m.CreatedAt, &m.CreatedBy,
	); err != nil {
		return nil, err
	}

	m.Category = till.Category(category)
	m.Method = payment.Method(method)

	return &m, nil
}

// CreateMovement inserts only while the till is still open. The share lock on the till row
// waits for a close in progress and then sees its committed state.
func (s *Store) CreateMovement(ctx context.Context, m *till.Movement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning movement tx: %w", err)
	}
	defer tx.Rollback()

	var state string
	if err := tx.QueryRowContext(ctx, `SELECT state FROM tills WHERE id = $1 FOR SHARE`, m.TillID).Scan(&state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return till.ErrNotFound
		}

		return fmt.Errorf("locking till: %w", err)
	}

	if till.State(state) != till.StateOpen {
		return till.ErrAlreadyClosed
	}

	query := `
		INSERT INTO till_movements (till_id, sale_id, category, amount, method, description, affects_cash, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		m.TillID,
		m.SaleID,
		m.Category,
		m.Amount,
		m.Method,
		m.Description,
		m.AffectsCash,
		m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing movement: %w", err)
	}

	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listMovements(ctx context.Context, q querier, tillID uuid.UUID) ([]*till.Movement, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+selectMovementColumns+` FROM till_movements WHERE till_id = $1 ORDER BY created_at DESC, id`,
		tillID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	var out []*till.Movement

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		out = append(out, m)
	}

	return out, rows.Err()
}

func (s *Store) ListMovements(ctx context.Context, tillID uuid.UUID) ([]*till.Movement, error) {
	return listMovements(ctx, s.db, tillID)
}

type closeTx struct {
	tx     *sql.Tx
	tillID uuid.UUID
}

// BeginClose locks the till row. Movement inserts reference the row, so they wait until the close commits.
func (s *Store) BeginClose(ctx context.Context, tillID uuid.UUID) (till.CloseTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning close tx: %w", err)
	}

	var state string
	if err := dbTx.QueryRowContext(ctx, `SELECT state FROM tills WHERE id = $1 FOR UPDATE`, tillID).Scan(&state); err != nil {
		dbTx.Rollback()

		if errors.Is(err, sql.ErrNoRows) {
			return nil, till.ErrNotFound
		}

		return nil, fmt.Errorf("locking till: %w", err)
	}

	if till.State(state) != till.StateOpen {
		dbTx.Rollback()
		return nil, till.ErrAlreadyClosed
	}

	return &closeTx{tx: dbTx, tillID: tillID}, nil
}

func (c *closeTx) Commit() error   { return c.tx.Commit() }
func (c *closeTx) Rollback() error { return c.tx.Rollback() }

func (c *closeTx) Movements(ctx context.Context) ([]*till.Movement, error) {
	return listMovements(ctx, c.tx, c.tillID)
}

func (c *closeTx) CloseTill(ctx context.Context, t *till.Till) error {
	res, err := c.tx.ExecContext(ctx, `
		UPDATE tills
		SET state = 'closed', closed_at = $1, system_balance = $2, physical_balance = $3,
			difference = $4, notes = $5
		WHERE id = $6 AND state = 'open'
	`, t.ClosedAt, t.SystemBalance, t.PhysicalBalance, t.Difference, t.Notes, t.ID)
	if err != nil {
		return fmt.Errorf("updating till: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return till.ErrAlreadyClosed
	}

	return nil
}

func (c *closeTx) InsertBreakdown(ctx context.Context, tillID uuid.UUID, b denomination.Breakdown, total decimal.Decimal) error {
	args := []any{tillID}
	placeholders := []string{"$1"}

	for i, n := range b {
		args = append(args, n)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
	}

	args = append(args, total)
	placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))

	query := `INSERT INTO till_breakdowns (till_id, ` + breakdownColumns("") + `, total) VALUES (` +
		strings.Join(placeholders, ", ") + `)`

	if _, err := c.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting till breakdown: %w", err)
	}

	return nil
}

func (c *closeTx) InsertNotification(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO close_notifications (till_id, shift, operator_name, closed_at, cash_to_deliver,
			system_balance, physical_balance, difference, notes, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := c.tx.QueryRowContext(ctx, query,
		n.TillID,
		n.Shift,
		n.OperatorName,
		n.ClosedAt,
		n.CashToDeliver,
		n.SystemBalance,
		n.PhysicalBalance,
		n.Difference,
		n.Notes,
		n.State,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting close notification: %w", err)
	}

	return nil
}
