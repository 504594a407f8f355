package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cdapos/internal/database"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/sale"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectSaleColumns = `
	id, plate, vehicle_type, model_year, client_name, client_document, client_phone,
	inspection_fee, has_insurance, commission, total, state, till_id, invoice_number,
	registered_by, charged_by, registered_at, paid_at
`

func scanSale(s scanner) (*sale.Sale, error) {
	var (
		x                  sale.Sale
		vehicleType, state string
	)

	if err := s.Scan(
		&x.ID, &x.Plate, &vehicleType, &x.ModelYear, &x.ClientName, &x.ClientDocument, &x.ClientPhone,
		&x.InspectionFee, &x.HasInsurance, &x.Commission, &x.Total, &state, &x.TillID, &x.InvoiceNumber,
		&x.RegisteredBy, &x.ChargedBy, &x.RegisteredAt, &x.PaidAt,
	); err != nil {
		return nil, err
	}

	x.VehicleType = tariff.VehicleType(vehicleType)
	x.State = sale.State(state)

	return &x, nil
}

// CreateSale relies on sales_one_pending_per_plate to reject a duplicate registration.
// CreateSale queues a sale. When it names a till, the till row is share locked, so a close
// in progress either sees the sale as pending or this insert sees the till closed.
func (s *Store) CreateSale(ctx context.Context, x *sale.Sale) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning sale tx: %w", err)
	}
	defer dbTx.Rollback()

	if x.TillID != nil {
		if err := (&tx{tx: dbTx}).LockOpenTill(ctx, *x.TillID); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO sales (plate, vehicle_type, model_year, client_name, client_document, client_phone,
			inspection_fee, has_insurance, commission, total, state, till_id, registered_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, registered_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		x.Plate,
		x.VehicleType,
		x.ModelYear,
		x.ClientName,
		x.ClientDocument,
		x.ClientPhone,
		x.InspectionFee,
		x.HasInsurance,
		x.Commission,
		x.Total,
		x.State,
		x.TillID,
		x.RegisteredBy,
	).Scan(&x.ID, &x.RegisteredAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sale.ErrPlateInUse
		}

		return fmt.Errorf("inserting sale: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing sale: %w", err)
	}

	return nil
}

func (s *Store) GetSale(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	x, err := scanSale(s.db.QueryRowContext(ctx, `SELECT `+selectSaleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	if err := s.loadAllocations(ctx, []*sale.Sale{x}); err != nil {
		return nil, err
	}

	return x, nil
}

// FindInProcess returns a sale of plate that is still registered, or was paid since paidSince.
func (s *Store) FindInProcess(ctx context.Context, plate string, paidSince time.Time) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales
		WHERE plate = $1 AND (state = 'registered' OR (state = 'paid' AND paid_at >= $2))
		ORDER BY registered_at DESC
		LIMIT 1
	`

	x, err := scanSale(s.db.QueryRowContext(ctx, query, plate, paidSince))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("finding sale by plate: %w", err)
	}

	return x, nil
}

func (s *Store) ListSales(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.State != "" {
		query += fmt.Sprintf(" AND state = $%d", argIdx)

		args = append(args, filter.State)
		argIdx++
	}

	if filter.TillID != nil {
		query += fmt.Sprintf(" AND till_id = $%d", argIdx)

		args = append(args, *filter.TillID)
		argIdx++
	}

	if filter.ChargedBy != nil {
		query += fmt.Sprintf(" AND charged_by = $%d", argIdx)

		args = append(args, *filter.ChargedBy)
		argIdx++
	}

	if filter.PaidSince != nil {
		query += fmt.Sprintf(" AND paid_at >= $%d", argIdx)

		args = append(args, *filter.PaidSince)
		argIdx++
	}

	if filter.State == sale.StatePaid {
		query += " ORDER BY paid_at DESC"
	} else {
		query += " ORDER BY registered_at ASC"
	}

	query += fmt.Sprintf(" LIMIT $%d", argIdx)

	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var out []*sale.Sale

	for rows.Next() {
		x, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		out = append(out, x)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales: %w", err)
	}

	if err := s.loadAllocations(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Store) loadAllocations(ctx context.Context, sales []*sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	ids := make([]string, len(sales))
	byID := make(map[uuid.UUID]*sale.Sale, len(sales))

	for i, x := range sales {
		ids[i] = x.ID.String()
		byID[x.ID] = x
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sale_id, method, amount FROM sale_allocations WHERE sale_id = ANY($1::uuid[]) ORDER BY sale_id, position`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     uuid.UUID
			method string
			a      sale.Allocation
		)

		if err := rows.Scan(&id, &method, &a.Amount); err != nil {
			return fmt.Errorf("scanning allocation: %w", err)
		}

		a.Method = payment.Method(method)

		if x, ok := byID[id]; ok {
			x.Allocations = append(x.Allocations, a)
		}
	}

	return rows.Err()
}

func (s *Store) CountPending(ctx context.Context, tillID uuid.UUID) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sales WHERE till_id = $1 AND state = 'registered'`, tillID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting pending sales: %w", err)
	}

	return n, nil
}

func (s *Store) CountMovements(ctx context.Context, saleID uuid.UUID) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM till_movements WHERE sale_id = $1`, saleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting sale movements: %w", err)
	}

	return n, nil
}

type tx struct {
	tx *sql.Tx
}

// Begin starts a transaction holding the sale row.
func (s *Store) Begin(ctx context.Context, saleID uuid.UUID) (sale.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	var id uuid.UUID
	if err := dbTx.QueryRowContext(ctx, `SELECT id FROM sales WHERE id = $1 FOR UPDATE`, saleID).Scan(&id); err != nil {
		dbTx.Rollback()

		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("locking sale: %w", err)
	}

	return &tx{tx: dbTx}, nil
}

func (t *tx) Commit() error   { return t.tx.Commit() }
func (t *tx) Rollback() error { return t.tx.Rollback() }

// LockOpenTill takes a share lock on the till row, which blocks a concurrent close until commit.
func (t *tx) LockOpenTill(ctx context.Context, tillID uuid.UUID) error {
	var state string
	if err := t.tx.QueryRowContext(ctx, `SELECT state FROM tills WHERE id = $1 FOR SHARE`, tillID).Scan(&state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return till.ErrNotFound
		}

		return fmt.Errorf("locking till: %w", err)
	}

	if till.State(state) != till.StateOpen {
		return till.ErrAlreadyClosed
	}

	return nil
}

func (t *tx) MarkPaid(ctx context.Context, x *sale.Sale) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE sales
		SET state = 'paid', till_id = $1, charged_by = $2, paid_at = $3, invoice_number = $4,
			inspection_fee = $5, total = $6
		WHERE id = $7 AND state = 'registered'
	`, x.TillID, x.ChargedBy, x.PaidAt, x.InvoiceNumber, x.InspectionFee, x.Total, x.ID)
	if err != nil {
		return fmt.Errorf("updating sale: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return sale.ErrNotRegistered
	}

	return nil
}

func (t *tx) ReplaceAllocations(ctx context.Context, saleID uuid.UUID, allocations []sale.Allocation) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM sale_allocations WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("deleting allocations: %w", err)
	}

	for i, a := range allocations {
		_, err := t.tx.ExecContext(ctx,
			`INSERT INTO sale_allocations (sale_id, position, method, amount) VALUES ($1, $2, $3, $4)`,
			saleID, i, a.Method, a.Amount,
		)
		if err != nil {
			return fmt.Errorf("inserting allocation %s: %w", a.Method, err)
		}
	}

	return nil
}

func (t *tx) InsertMovement(ctx context.Context, m *till.Movement) error {
	query := `
		INSERT INTO till_movements (till_id, sale_id, category, amount, method, description, affects_cash, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
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

	return nil
}

func (t *tx) UpdateMovementMethods(ctx context.Context, saleID uuid.UUID, method payment.Method, affectsCash bool) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE till_movements SET method = $1, affects_cash = $2 WHERE sale_id = $3`,
		method, affectsCash, saleID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating movements: %w", err)
	}

	return res.RowsAffected()
}
