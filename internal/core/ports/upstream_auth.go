package ports

import (
	"context"

	"github.com/madavola/tracegate/internal/core/domain"
)

// RoleQuery filters the role catalog on the selection step.
type RoleQuery struct {
	Filiere         domain.Filiere
	Search          string
	Category        string
	ActorType       string
	IncludeCommon   bool
	ActiveOnly      bool
	ForCurrentActor bool
}

// AuthGateway is the authentication surface of the remote API.
type AuthGateway interface {
	// Login exchanges credentials for a token pair. Session-less: it is
	// the one call made before a session exists.
	Login(ctx context.Context, identifier, password string) (domain.TokenPair, error)
	// Logout revokes the refresh token upstream. Best effort.
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, sess *domain.Session) (*domain.ActorProfile, error)
}

// RBACGateway exposes the role catalog and per-role permission sets.
type RBACGateway interface {
	Roles(ctx context.Context, sess *domain.Session, q RoleQuery) ([]domain.RBACRole, error)
	Permissions(ctx context.Context, sess *domain.Session, role string) ([]string, error)
}
