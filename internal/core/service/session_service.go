package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/api/metrics"
	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

type sessionService struct {
	store ports.SessionStore
	auth  ports.AuthGateway
	audit ports.AuditRecorder
	log   zerolog.Logger
}

// NewSessionService returns a SessionService backed by the given store and
// upstream auth gateway.
func NewSessionService(store ports.SessionStore, auth ports.AuthGateway, audit ports.AuditRecorder, log zerolog.Logger) ports.SessionService {
	return &sessionService{store: store, auth: auth, audit: audit, log: log}
}

func (s *sessionService) Login(ctx context.Context, identifier, password string) (ports.SessionState, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return ports.SessionState{}, domain.ErrInvalidCredentials
	}

	pair, err := s.auth.Login(ctx, identifier, password)
	if err != nil {
		return ports.SessionState{}, err
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:           uuid.NewString(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return ports.SessionState{}, err
	}

	s.audit.Record(domain.AuditRecord{
		SessionID: sess.ID,
		Action:    domain.AuditLogin,
		Outcome:   "ok",
		At:        now,
	})
	metrics.SessionsOpenedTotal.Inc()
	s.log.Info().Str("session_id", sess.ID).Msg("session opened")

	return ports.SessionState{Session: sess, Step: sess.Step()}, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.store.Find(ctx, sessionID)
	if err != nil {
		return err
	}

	// Upstream revocation is best effort: the session dies either way.
	if sess.RefreshToken != "" {
		if err := s.auth.Logout(ctx, sess.RefreshToken); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("upstream token revocation failed")
		}
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	metrics.SessionsClosedTotal.WithLabelValues("logout").Inc()
	s.audit.Record(domain.AuditRecord{
		SessionID: sessionID,
		Action:    domain.AuditLogout,
		Outcome:   "ok",
		At:        time.Now().UTC(),
	})
	return nil
}

func (s *sessionService) Current(ctx context.Context, sessionID string) (ports.SessionState, error) {
	sess, err := s.store.Find(ctx, sessionID)
	if err != nil {
		return ports.SessionState{}, err
	}
	return ports.SessionState{Session: sess, Step: sess.Step()}, nil
}

func (s *sessionService) SelectRole(ctx context.Context, sessionID, role string) (ports.SessionState, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return ports.SessionState{}, domain.ErrRoleRequired
	}

	return s.mutate(ctx, sessionID, domain.AuditRoleSelected, role, func(sess *domain.Session) {
		if sess.SelectedRole != role {
			// A new role invalidates the previous filière choice: filière
			// catalogs differ per role.
			sess.ClearFiliere()
		}
		sess.SelectedRole = role
	})
}

func (s *sessionService) SelectFiliere(ctx context.Context, sessionID string, filiere domain.Filiere) (ports.SessionState, error) {
	if _, err := domain.ParseFiliere(string(filiere)); err != nil {
		return ports.SessionState{}, err
	}

	// Reject before writing: the store must never hold a filière on a
	// session whose step machine has no role yet.
	sess, err := s.store.Find(ctx, sessionID)
	if err != nil {
		return ports.SessionState{}, err
	}
	if !sess.Authenticated() {
		return ports.SessionState{}, domain.ErrUnauthenticated
	}
	if sess.SelectedRole == "" {
		return ports.SessionState{}, domain.ErrRoleRequired
	}

	return s.mutate(ctx, sessionID, domain.AuditFiliereChosen, string(filiere), func(sess *domain.Session) {
		sess.SelectedFiliere = filiere
	})
}

func (s *sessionService) StepBack(ctx context.Context, sessionID string) (ports.SessionState, error) {
	sess, err := s.store.Find(ctx, sessionID)
	if err != nil {
		return ports.SessionState{}, err
	}

	prev, ok := sess.Step().Back()
	if !ok {
		// Already at the floor; report the current state unchanged.
		return ports.SessionState{Session: sess, Step: sess.Step()}, nil
	}

	switch prev {
	case domain.StepSelectFiliere:
		sess.ClearFiliere()
	case domain.StepSelectRole:
		sess.ClearProfile()
	}
	sess.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return ports.SessionState{}, err
	}
	return ports.SessionState{Session: sess, Step: sess.Step()}, nil
}

func (s *sessionService) ChangeProfile(ctx context.Context, sessionID string) (ports.SessionState, error) {
	return s.mutate(ctx, sessionID, "", "", func(sess *domain.Session) {
		sess.ClearProfile()
	})
}

func (s *sessionService) ChangeFiliere(ctx context.Context, sessionID string) (ports.SessionState, error) {
	return s.mutate(ctx, sessionID, "", "", func(sess *domain.Session) {
		sess.ClearFiliere()
	})
}

// mutate loads, applies, and persists a session change, optionally
// recording an audit action.
func (s *sessionService) mutate(ctx context.Context, sessionID, auditAction, detail string, apply func(*domain.Session)) (ports.SessionState, error) {
	sess, err := s.store.Find(ctx, sessionID)
	if err != nil {
		return ports.SessionState{}, err
	}
	if !sess.Authenticated() {
		return ports.SessionState{}, domain.ErrUnauthenticated
	}

	apply(sess)
	sess.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return ports.SessionState{}, err
	}

	if auditAction != "" {
		s.audit.Record(domain.AuditRecord{
			SessionID: sess.ID,
			Action:    auditAction,
			Detail:    detail,
			Outcome:   "ok",
			At:        sess.UpdatedAt,
		})
	}
	return ports.SessionState{Session: sess, Step: sess.Step()}, nil
}
