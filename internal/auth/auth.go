package auth

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCashier      Role = "cashier"
	RoleReceptionist Role = "receptionist"
	RoleAccountant   Role = "accountant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleReceptionist, RoleAccountant:
		return true
	}

	return false
}

// Actor is the authenticated operator behind a request.
type Actor struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) HasRole(roles ...Role) bool {
	return slices.Contains(roles, a.Role)
}

// User is a stored account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
