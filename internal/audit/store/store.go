package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateEvent inserts the event and its fields in one transaction.
func (s *Store) CreateEvent(ctx context.Context, e *audit.Event) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var actorID *uuid.UUID
	if e.Actor.ID != uuid.Nil {
		actorID = &e.Actor.ID
	}

	query := `
		INSERT INTO audit_log (action, description, actor_id, actor_email, actor_name, actor_role,
			ip, user_agent, success, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		e.Action,
		e.Description,
		actorID,
		e.Actor.Email,
		e.Actor.Name,
		e.Actor.Role,
		e.IP,
		e.UserAgent,
		e.Success,
		e.ErrorMessage,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}

	for i, f := range e.Fields {
		_, err := dbTx.ExecContext(ctx,
			`INSERT INTO audit_fields (audit_id, position, key, value) VALUES ($1, $2, $3, $4)`,
			e.ID, i, f.Key, f.Value,
		)
		if err != nil {
			return fmt.Errorf("inserting audit field %q: %w", f.Key, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing audit event: %w", err)
	}

	return nil
}

func (s *Store) ListEvents(ctx context.Context, filter audit.ListFilter) ([]*audit.Event, error) {
	query := `
		SELECT id, action, description, actor_id, actor_email, actor_name, actor_role,
			ip, user_agent, success, error_message, created_at
		FROM audit_log
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Action != nil {
		query += fmt.Sprintf(" AND action = $%d", argIdx)

		args = append(args, *filter.Action)
		argIdx++
	}

	if filter.ActorID != nil {
		query += fmt.Sprintf(" AND actor_id = $%d", argIdx)

		args = append(args, *filter.ActorID)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIdx)

	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var (
		events []*audit.Event
		byID   = map[uuid.UUID]*audit.Event{}
		ids    []string
	)

	for rows.Next() {
		var (
			e       audit.Event
			actorID *uuid.UUID
			role    string
		)

		if err := rows.Scan(
			&e.ID, &e.Action, &e.Description, &actorID, &e.Actor.Email, &e.Actor.Name, &role,
			&e.IP, &e.UserAgent, &e.Success, &e.ErrorMessage, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}

		if actorID != nil {
			e.Actor.ID = *actorID
		}

		e.Actor.Role = auth.Role(role)

		events = append(events, &e)
		byID[e.ID] = &e
		ids = append(ids, e.ID.String())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}

	if len(ids) == 0 {
		return events, nil
	}

	fieldRows, err := s.db.QueryContext(ctx,
		`SELECT audit_id, key, value FROM audit_fields WHERE audit_id = ANY($1::uuid[]) ORDER BY audit_id, position`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit fields: %w", err)
	}
	defer fieldRows.Close()

	for fieldRows.Next() {
		var (
			id uuid.UUID
			f  audit.Field
		)

		if err := fieldRows.Scan(&id, &f.Key, &f.Value); err != nil {
			return nil, fmt.Errorf("scanning audit field: %w", err)
		}

		if e, ok := byID[id]; ok {
			e.Fields = append(e.Fields, f)
		}
	}

	return events, fieldRows.Err()
}
