package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func (st *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	st.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (st *stubSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := st.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

func (st *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(st.sessions, id)
	return nil
}

type stubAuthGateway struct {
	loginErr    error
	logoutCalls int
	pair        domain.TokenPair
	profile     *domain.ActorProfile
	meErr       error
	meCalls     int
}

func (g *stubAuthGateway) Login(_ context.Context, identifier, password string) (domain.TokenPair, error) {
	if g.loginErr != nil {
		return domain.TokenPair{}, g.loginErr
	}
	return g.pair, nil
}

func (g *stubAuthGateway) Logout(_ context.Context, _ string) error {
	g.logoutCalls++
	return nil
}

func (g *stubAuthGateway) Me(_ context.Context, _ *domain.Session) (*domain.ActorProfile, error) {
	g.meCalls++
	if g.meErr != nil {
		return nil, g.meErr
	}
	return g.profile, nil
}

type nopAuditRecorder struct{ records []domain.AuditRecord }

func (r *nopAuditRecorder) Record(rec domain.AuditRecord) { r.records = append(r.records, rec) }

func newTestSessionService(store ports.SessionStore, auth ports.AuthGateway) ports.SessionService {
	return NewSessionService(store, auth, &nopAuditRecorder{}, zerolog.Nop())
}

func TestSessionService_Login_StartsAtRoleSelection(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}
	svc := newTestSessionService(store, auth)

	state, err := svc.Login(context.Background(), "admin@example.test", "Admin123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if state.Step != domain.StepSelectRole {
		t.Fatalf("expected step %s, got %s", domain.StepSelectRole, state.Step)
	}
	if state.Session.AccessToken != "acc" || state.Session.RefreshToken != "ref" {
		t.Fatalf("token pair not stored on session: %+v", state.Session)
	}
	if _, err := store.Find(context.Background(), state.Session.ID); err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
}

func TestSessionService_Login_EmptyCredentials(t *testing.T) {
	svc := newTestSessionService(newStubSessionStore(), &stubAuthGateway{})

	if _, err := svc.Login(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "user@example.test", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSessionService_Onboarding_FullFlow(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}
	svc := newTestSessionService(store, auth)
	ctx := context.Background()

	state, err := svc.Login(ctx, "admin@example.test", "Admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	id := state.Session.ID

	state, err = svc.SelectRole(ctx, id, "admin")
	if err != nil {
		t.Fatalf("SelectRole failed: %v", err)
	}
	if state.Step != domain.StepSelectFiliere {
		t.Fatalf("expected step %s after role selection, got %s", domain.StepSelectFiliere, state.Step)
	}

	state, err = svc.SelectFiliere(ctx, id, domain.FiliereOr)
	if err != nil {
		t.Fatalf("SelectFiliere failed: %v", err)
	}
	if state.Step != domain.StepDashboard {
		t.Fatalf("expected step %s after filiere selection, got %s", domain.StepDashboard, state.Step)
	}

	// Simulated reload: a fresh lookup by session ID must keep both choices.
	state, err = svc.Current(ctx, id)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if state.Session.SelectedRole != "admin" || state.Session.SelectedFiliere != domain.FiliereOr {
		t.Fatalf("choices lost across reload: %+v", state.Session)
	}
	if state.Step != domain.StepDashboard {
		t.Fatalf("expected dashboard after reload, got %s", state.Step)
	}
}

func TestSessionService_SelectFiliere_RequiresRole(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc"}}
	svc := newTestSessionService(store, auth)
	ctx := context.Background()

	state, _ := svc.Login(ctx, "u@example.test", "pw")
	if _, err := svc.SelectFiliere(ctx, state.Session.ID, domain.FiliereBois); err != domain.ErrRoleRequired {
		t.Fatalf("expected ErrRoleRequired, got %v", err)
	}

	// The rejected filière must not have been persisted.
	sess, err := store.Find(ctx, state.Session.ID)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if sess.SelectedFiliere != "" {
		t.Fatalf("role-less session must stay filière-free, got %q", sess.SelectedFiliere)
	}
	if sess.Step() != domain.StepSelectRole {
		t.Fatalf("expected step %s, got %s", domain.StepSelectRole, sess.Step())
	}
}

func TestSessionService_SelectFiliere_InvalidCode(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc"}}
	svc := newTestSessionService(store, auth)
	ctx := context.Background()

	state, _ := svc.Login(ctx, "u@example.test", "pw")
	if _, err := svc.SelectFiliere(ctx, state.Session.ID, "CHARBON"); err != domain.ErrInvalidFiliere {
		t.Fatalf("expected ErrInvalidFiliere, got %v", err)
	}
}

func TestSessionService_RoleChange_ClearsFiliere(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc"}}
	svc := newTestSessionService(store, auth)
	ctx := context.Background()

	state, _ := svc.Login(ctx, "u@example.test", "pw")
	id := state.Session.ID
	_, _ = svc.SelectRole(ctx, id, "commune_agent")
	_, _ = svc.SelectFiliere(ctx, id, domain.FilierePierre)

	state, err := svc.SelectRole(ctx, id, "dgd")
	if err != nil {
		t.Fatalf("SelectRole failed: %v", err)
	}
	if state.Session.SelectedFiliere != "" {
		t.Fatalf("filiere should be cleared when role changes, got %q", state.Session.SelectedFiliere)
	}
	if state.Step != domain.StepSelectFiliere {
		t.Fatalf("expected step %s, got %s", domain.StepSelectFiliere, state.Step)
	}
}

func TestSessionService_StepBack(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc"}}
	svc := newTestSessionService(store, auth)
	ctx := context.Background()

	state, _ := svc.Login(ctx, "u@example.test", "pw")
	id := state.Session.ID
	_, _ = svc.SelectRole(ctx, id, "admin")
	_, _ = svc.SelectFiliere(ctx, id, domain.FiliereOr)

	state, err := svc.StepBack(ctx, id)
	if err != nil {
		t.Fatalf("StepBack failed: %v", err)
	}
	if state.Step != domain.StepSelectFiliere {
		t.Fatalf("expected %s after first back, got %s", domain.StepSelectFiliere, state.Step)
	}
	if state.Session.SelectedRole != "admin" {
		t.Fatalf("role must survive stepping back to filiere selection")
	}

	state, err = svc.StepBack(ctx, id)
	if err != nil {
		t.Fatalf("StepBack failed: %v", err)
	}
	if state.Step != domain.StepSelectRole {
		t.Fatalf("expected %s after second back, got %s", domain.StepSelectRole, state.Step)
	}

	// The floor: backing out of role selection does not leave the session.
	state, err = svc.StepBack(ctx, id)
	if err != nil {
		t.Fatalf("StepBack failed: %v", err)
	}
	if state.Step != domain.StepSelectRole {
		t.Fatalf("expected to stay at %s, got %s", domain.StepSelectRole, state.Step)
	}
}

func TestSessionService_ChangeProfileAndFiliere(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc"}}
	svc := newTestSessionService(store, auth)
	ctx := context.Background()

	state, _ := svc.Login(ctx, "u@example.test", "pw")
	id := state.Session.ID
	_, _ = svc.SelectRole(ctx, id, "com")
	_, _ = svc.SelectFiliere(ctx, id, domain.FiliereOr)

	state, err := svc.ChangeFiliere(ctx, id)
	if err != nil {
		t.Fatalf("ChangeFiliere failed: %v", err)
	}
	if state.Session.SelectedRole != "com" || state.Session.SelectedFiliere != "" {
		t.Fatalf("ChangeFiliere must keep role and clear filiere: %+v", state.Session)
	}

	_, _ = svc.SelectFiliere(ctx, id, domain.FiliereOr)
	state, err = svc.ChangeProfile(ctx, id)
	if err != nil {
		t.Fatalf("ChangeProfile failed: %v", err)
	}
	if state.Session.SelectedRole != "" || state.Session.SelectedFiliere != "" {
		t.Fatalf("ChangeProfile must clear both choices: %+v", state.Session)
	}
	if state.Step != domain.StepSelectRole {
		t.Fatalf("expected step %s, got %s", domain.StepSelectRole, state.Step)
	}
}

func TestSessionService_Logout_RevokesAndDeletes(t *testing.T) {
	store := newStubSessionStore()
	auth := &stubAuthGateway{pair: domain.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}
	svc := newTestSessionService(store, auth)
	ctx := context.Background()

	state, _ := svc.Login(ctx, "u@example.test", "pw")
	if err := svc.Logout(ctx, state.Session.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if auth.logoutCalls != 1 {
		t.Fatalf("expected one upstream revocation, got %d", auth.logoutCalls)
	}
	if _, err := store.Find(ctx, state.Session.ID); err != domain.ErrSessionNotFound {
		t.Fatalf("session should be gone, got %v", err)
	}
}
