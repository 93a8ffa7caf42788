package domain

import "time"

// Audit actions recorded by the gateway itself (distinct from the
// upstream audit trail, which covers business mutations).
const (
	AuditLogin         = "session.login"
	AuditLogout        = "session.logout"
	AuditRoleSelected  = "session.role_selected"
	AuditFiliereChosen = "session.filiere_selected"
	AuditGuardRedirect = "guard.redirect"
	AuditSessionEnded  = "session.expired"
)

// AuditRecord is one gateway-local audit trail entry.
type AuditRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ActorID   int       `json:"actor_id,omitempty"`
	Action    string    `json:"action"`
	Path      string    `json:"path,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}
