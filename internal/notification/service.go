package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
)

var (
	ErrNotFound = fmt.Errorf("notification %w", apperr.ErrNotFound)
	// ErrStale is returned by UpdateState when the stored state no longer matches the expected one.
	ErrStale = fmt.Errorf("notification state changed: %w", apperr.ErrConflict)
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	GetNotification(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListNotifications(ctx context.Context, state State, limit int) ([]*Notification, error)
	UpdateState(ctx context.Context, n *Notification, from State) error
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

// List returns notifications in the given state, newest first. An empty state lists pending ones.
func (s *Service) List(ctx context.Context, state State, limit int) ([]*Notification, error) {
	if state == "" {
		state = StatePending
	}

	if !state.Valid() {
		return nil, apperr.Validation("invalid notification state %q", state)
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	out, err := s.repo.ListNotifications(ctx, state, limit)
	if err != nil {
		return nil, apperr.Internal("listing notifications", err)
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	n, err := s.repo.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("notification %s not found", id)
		}

		return nil, apperr.Internal("getting notification", err)
	}

	return n, nil
}

// MarkRead moves a pending notification to read, stamping the reviewer.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*Notification, error) {
	n, err := s.transition(ctx, id, StateRead, func(n *Notification) {
		now := s.now()
		n.ReadBy = &reviewer.ID
		n.ReadAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionReadNotification,
		Actor:       reviewer,
		Description: fmt.Sprintf("read close notification of %s", n.OperatorName),
		Fields:      []audit.Field{audit.UUID("notification_id", n.ID), audit.UUID("till_id", n.TillID)},
	})

	return n, nil
}

// Archive moves a pending or read notification to archived.
func (s *Service) Archive(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*Notification, error) {
	n, err := s.transition(ctx, id, StateArchived, nil)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		Action:      audit.ActionArchiveNotification,
		Actor:       reviewer,
		Description: fmt.Sprintf("archived close notification of %s", n.OperatorName),
		Fields:      []audit.Field{audit.UUID("notification_id", n.ID), audit.UUID("till_id", n.TillID)},
	})

	return n, nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to State, mutate func(*Notification)) (*Notification, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := n.State
	if err := Transition(from, to); err != nil {
		return nil, err
	}

	n.State = to
	if mutate != nil {
		mutate(n)
	}

	if err := s.repo.UpdateState(ctx, n, from); err != nil {
		if errors.Is(err, ErrStale) {
			return nil, apperr.Conflict("notification was changed by someone else, reload and retry")
		}

		return nil, apperr.Internal("updating notification", err)
	}

	return n, nil
}
