package ports

import (
	"context"

	"github.com/madavola/tracegate/internal/core/domain"
)

// SessionStore persists sessions across requests ("reload survival").
// Implementations must return domain.ErrSessionNotFound for unknown IDs.
type SessionStore interface {
	Save(ctx context.Context, sess *domain.Session) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// PermissionCache caches the permission set fetched per role code for the
// lifetime of a session, so re-selecting the same role never re-fetches.
type PermissionCache interface {
	Get(ctx context.Context, sessionID, role string) ([]string, bool, error)
	Put(ctx context.Context, sessionID, role string, perms []string) error
}
