package ports

import (
	"context"

	"github.com/madavola/tracegate/internal/core/domain"
)

// SessionState is returned to the UI after every session operation: the
// session itself plus the onboarding step it should render.
type SessionState struct {
	Session *domain.Session
	Step    domain.Step
}

// SessionService owns the session lifecycle and the onboarding state
// machine (LOGIN → SELECT_ROLE → SELECT_FILIERE → DASHBOARD).
type SessionService interface {
	Login(ctx context.Context, identifier, password string) (SessionState, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (SessionState, error)
	SelectRole(ctx context.Context, sessionID, role string) (SessionState, error)
	SelectFiliere(ctx context.Context, sessionID string, filiere domain.Filiere) (SessionState, error)
	// StepBack is the browser back-button analog: DASHBOARD steps back to
	// SELECT_FILIERE, then to SELECT_ROLE, clearing the gating choice.
	StepBack(ctx context.Context, sessionID string) (SessionState, error)
	// ChangeProfile clears role and filière, forcing full re-selection.
	ChangeProfile(ctx context.Context, sessionID string) (SessionState, error)
	// ChangeFiliere clears the filière only, keeping the role.
	ChangeFiliere(ctx context.Context, sessionID string) (SessionState, error)
}

// MenuService resolves the selected role into permissions and the visible
// navigation set.
type MenuService interface {
	// Permissions returns the permission set for the session's selected
	// role, cached per role code for the session lifetime.
	Permissions(ctx context.Context, sess *domain.Session) ([]string, error)
	// VisibleMenu applies the three-tier visibility fallback.
	VisibleMenu(ctx context.Context, sess *domain.Session) ([]domain.MenuItem, error)
}

// AuditRecorder accepts gateway-local audit records. Implementations are
// asynchronous; Record must never block request handling.
type AuditRecorder interface {
	Record(rec domain.AuditRecord)
}

// AuditRepository persists and queries the gateway-local audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, rec *domain.AuditRecord) error
	List(ctx context.Context, q AuditQuery) ([]domain.AuditRecord, error)
}

// AuditQuery filters the audit trail listing.
type AuditQuery struct {
	SessionID string
	ActorID   int
	Action    string
	Limit     int
}
