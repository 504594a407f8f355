package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=audit
type Repository interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context, filter ListFilter) ([]*Event, error)
}

type ListFilter struct {
	Action  *Action
	ActorID *uuid.UUID
	Limit   int
}

// Recorder writes audit events on a best-effort basis: persistence failures are
// logged and swallowed so they never undo the operation being audited.
type Recorder struct {
	repo    Repository
	timeout time.Duration
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, timeout: 5 * time.Second}
}

// Record persists event. Success defaults to true unless ErrorMessage is set.
func (r *Recorder) Record(ctx context.Context, event Event) {
	meta := requestMeta(ctx)
	if event.IP == "" {
		event.IP = meta.IP
	}

	if event.UserAgent == "" {
		event.UserAgent = meta.UserAgent
	}

	event.Success = event.ErrorMessage == ""

	// Detached from the request: the audited operation has already committed.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.repo.CreateEvent(ctx, &event); err != nil {
		slog.Warn("failed to write audit event",
			"action", event.Action,
			"actor", event.Actor.Email,
			"error", err,
		)
	}
}

func (r *Recorder) List(ctx context.Context, filter ListFilter) ([]*Event, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	return r.repo.ListEvents(ctx, filter)
}
