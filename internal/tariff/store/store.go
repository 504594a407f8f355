package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
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

const selectTariffColumns = `
	id, year, valid_from, valid_to, vehicle_type, age_min, age_max, inspection_fee, third_party, total, created_at
`

func scanTariff(s scanner) (*tariff.Tariff, error) {
	var (
		t           tariff.Tariff
		vehicleType string
	)

	if err := s.Scan(
		&t.ID, &t.Year, &t.ValidFrom, &t.ValidTo, &vehicleType, &t.AgeMin, &t.AgeMax,
		&t.InspectionFee, &t.ThirdParty, &t.Total, &t.CreatedAt,
	); err != nil {
		return nil, err
	}

	t.VehicleType = tariff.VehicleType(vehicleType)

	return &t, nil
}

func (s *Store) FindTariff(ctx context.Context, vehicleType tariff.VehicleType, age int, on time.Time) (*tariff.Tariff, error) {
	query := `SELECT ` + selectTariffColumns + `
		FROM tariffs
		WHERE vehicle_type = $1
			AND valid_from <= $2::date AND valid_to >= $2::date
			AND age_min <= $3 AND (age_max IS NULL OR age_max >= $3)
		ORDER BY created_at DESC
		LIMIT 1
	`

	t, err := scanTariff(s.db.QueryRowContext(ctx, query, vehicleType, on, age))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tariff.ErrNotFound
		}

		return nil, fmt.Errorf("finding tariff: %w", err)
	}

	return t, nil
}

func (s *Store) ActiveCommission(ctx context.Context, class string, on time.Time) (*tariff.Commission, error) {
	query := `
		SELECT id, vehicle_class, amount, valid_from, valid_to, active
		FROM insurance_commissions
		WHERE vehicle_class = $1 AND active
			AND valid_from <= $2::date AND (valid_to IS NULL OR valid_to >= $2::date)
		ORDER BY valid_from DESC
		LIMIT 1
	`

	var c tariff.Commission

	err := s.db.QueryRowContext(ctx, query, class, on).Scan(
		&c.ID, &c.Class, &c.Amount, &c.ValidFrom, &c.ValidTo, &c.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tariff.ErrNotFound
		}

		return nil, fmt.Errorf("finding commission: %w", err)
	}

	return &c, nil
}

func (s *Store) ListTariffs(ctx context.Context, year int) ([]*tariff.Tariff, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectTariffColumns+` FROM tariffs WHERE year = $1 ORDER BY vehicle_type, age_min`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tariffs: %w", err)
	}
	defer rows.Close()

	var out []*tariff.Tariff

	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tariff: %w", err)
		}

		out = append(out, t)
	}

	return out, rows.Err()
}

// ReplaceYear swaps the whole table of a year atomically.
func (s *Store) ReplaceYear(ctx context.Context, year int, tariffs []*tariff.Tariff) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM tariffs WHERE year = $1`, year); err != nil {
		return fmt.Errorf("deleting tariffs of %d: %w", year, err)
	}

	query := `
		INSERT INTO tariffs (year, valid_from, valid_to, vehicle_type, age_min, age_max, inspection_fee, third_party, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	for _, t := range tariffs {
		err := dbTx.QueryRowContext(ctx, query,
			year,
			t.ValidFrom,
			t.ValidTo,
			t.VehicleType,
			t.AgeMin,
			t.AgeMax,
			t.InspectionFee,
			t.ThirdParty,
			t.Total,
		).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting tariff %s/%d: %w", t.VehicleType, t.AgeMin, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing tariffs: %w", err)
	}

	return nil
}
