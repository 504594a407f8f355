package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cdapos/internal/notification"
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

const selectColumns = `
	id, till_id, shift, operator_name, closed_at, cash_to_deliver, system_balance,
	physical_balance, difference, notes, state, read_by, read_at, created_at
`

func scanNotification(s scanner) (*notification.Notification, error) {
	var (
		n     notification.Notification
		state string
	)

	if err := s.Scan(
		&n.ID, &n.TillID, &n.Shift, &n.OperatorName, &n.ClosedAt, &n.CashToDeliver, &n.SystemBalance,
		&n.PhysicalBalance, &n.Difference, &n.Notes, &state, &n.ReadBy, &n.ReadAt, &n.CreatedAt,
	); err != nil {
		return nil, err
	}

	n.State = notification.State(state)

	return &n, nil
}

func (s *Store) GetNotification(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM close_notifications WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notification.ErrNotFound
		}

		return nil, fmt.Errorf("getting notification: %w", err)
	}

	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, state notification.State, limit int) ([]*notification.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM close_notifications WHERE state = $1 ORDER BY created_at DESC LIMIT $2`,
		state, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*notification.Notification

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		out = append(out, n)
	}

	return out, rows.Err()
}

// UpdateState writes the new state only if the row is still in from.
func (s *Store) UpdateState(ctx context.Context, n *notification.Notification, from notification.State) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE close_notifications
		SET state = $1, read_by = $2, read_at = $3
		WHERE id = $4 AND state = $5
	`, n.State, n.ReadBy, n.ReadAt, n.ID, from)
	if err != nil {
		return fmt.Errorf("updating notification state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return notification.ErrStale
	}

	return nil
}
