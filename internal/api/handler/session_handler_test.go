package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/api/middleware"
	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

type stubSessionService struct {
	state    ports.SessionState
	err      error
	logouts  []string
	lastRole string
}

func (s *stubSessionService) Login(context.Context, string, string) (ports.SessionState, error) {
	return s.state, s.err
}

func (s *stubSessionService) Logout(_ context.Context, id string) error {
	s.logouts = append(s.logouts, id)
	return nil
}

func (s *stubSessionService) Current(context.Context, string) (ports.SessionState, error) {
	return s.state, s.err
}

func (s *stubSessionService) SelectRole(_ context.Context, _ string, role string) (ports.SessionState, error) {
	s.lastRole = role
	return s.state, s.err
}

func (s *stubSessionService) SelectFiliere(context.Context, string, domain.Filiere) (ports.SessionState, error) {
	return s.state, s.err
}

func (s *stubSessionService) StepBack(context.Context, string) (ports.SessionState, error) {
	return s.state, s.err
}

func (s *stubSessionService) ChangeProfile(context.Context, string) (ports.SessionState, error) {
	return s.state, s.err
}

func (s *stubSessionService) ChangeFiliere(context.Context, string) (ports.SessionState, error) {
	return s.state, s.err
}

type stubAuth struct {
	profile *domain.ActorProfile
	err     error
}

func (s *stubAuth) Login(context.Context, string, string) (domain.TokenPair, error) {
	return domain.TokenPair{}, s.err
}

func (s *stubAuth) Logout(context.Context, string) error { return s.err }

func (s *stubAuth) Me(context.Context, *domain.Session) (*domain.ActorProfile, error) {
	return s.profile, s.err
}

type stubRBAC struct {
	roles []domain.RBACRole
	last  ports.RoleQuery
}

func (s *stubRBAC) Roles(_ context.Context, _ *domain.Session, q ports.RoleQuery) ([]domain.RBACRole, error) {
	s.last = q
	return s.roles, nil
}

func (s *stubRBAC) Permissions(context.Context, *domain.Session, string) ([]string, error) {
	return nil, nil
}

func sessionCtx(t *testing.T, method, target, body string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set("session", sess)
	}
	return c, rec
}

func TestSessionLogin_SetsCookieAndReturnsStep(t *testing.T) {
	sess := &domain.Session{ID: "sess-1", AccessToken: "a", RefreshToken: "r"}
	svc := &stubSessionService{state: ports.SessionState{Session: sess, Step: domain.StepSelectRole}}
	h := NewSessionHandler(svc, &stubAuth{}, &stubRBAC{}, 12*time.Hour, false)

	c, rec := sessionCtx(t, http.MethodPost, "/session/login",
		`{"identifier":"admin@example.test","password":"Admin123"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value != "sess-1" || !cookie.HttpOnly {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", cookie)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["step"] != "select_role" || resp["route"] != "/select-role" {
		t.Fatalf("login must land on role selection: %v", resp)
	}
	if resp["authenticated"] != true {
		t.Fatalf("expected authenticated state: %v", resp)
	}
}

func TestSessionLogin_MissingFields(t *testing.T) {
	h := NewSessionHandler(&stubSessionService{}, &stubAuth{}, &stubRBAC{}, time.Hour, false)

	c, _ := sessionCtx(t, http.MethodPost, "/session/login", `{"identifier":""}`, nil)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSessionCurrent_WithoutCookie(t *testing.T) {
	h := NewSessionHandler(&stubSessionService{}, &stubAuth{}, &stubRBAC{}, time.Hour, false)

	c, rec := sessionCtx(t, http.MethodGet, "/session", "", nil)
	if err := h.Current(c); err != nil {
		t.Fatalf("Current: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["step"] != "login" || resp["authenticated"] == true {
		t.Fatalf("no session means the login step: %v", resp)
	}
}

func TestSessionLogout_ClearsCookie(t *testing.T) {
	sess := &domain.Session{ID: "sess-1", AccessToken: "a"}
	svc := &stubSessionService{}
	h := NewSessionHandler(svc, &stubAuth{}, &stubRBAC{}, time.Hour, false)

	c, rec := sessionCtx(t, http.MethodPost, "/session/logout", "", sess)
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(svc.logouts) != 1 || svc.logouts[0] != "sess-1" {
		t.Fatalf("expected one logout for sess-1, got %v", svc.logouts)
	}

	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("logout must expire the session cookie")
	}
}

func TestSessionSelectFiliere_RejectsUnknownCode(t *testing.T) {
	sess := &domain.Session{ID: "sess-1", AccessToken: "a", SelectedRole: "dgd"}
	h := NewSessionHandler(&stubSessionService{}, &stubAuth{}, &stubRBAC{}, time.Hour, false)

	c, _ := sessionCtx(t, http.MethodPost, "/session/filiere", `{"filiere":"CHARBON"}`, sess)
	if err := h.SelectFiliere(c); !errors.Is(err, domain.ErrInvalidFiliere) {
		t.Fatalf("expected ErrInvalidFiliere, got %v", err)
	}
}

func TestSessionProfile_RequiresSession(t *testing.T) {
	auth := &stubAuth{profile: &domain.ActorProfile{ID: 7, Nom: "Rakoto", Roles: []domain.ActorRole{{Role: "dgd", Status: "active"}}}}
	h := NewSessionHandler(&stubSessionService{}, auth, &stubRBAC{}, time.Hour, false)

	c, _ := sessionCtx(t, http.MethodGet, "/session/profile", "", nil)
	if err := h.Profile(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without a session, got %v", err)
	}

	sess := &domain.Session{ID: "sess-1", AccessToken: "a"}
	c, rec := sessionCtx(t, http.MethodGet, "/session/profile", "", sess)
	if err := h.Profile(c); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	var got domain.ActorProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if got.ID != 7 || len(got.Roles) != 1 || got.Roles[0].Role != "dgd" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestSessionRoles_DefaultsToScopedActiveCatalog(t *testing.T) {
	sess := &domain.Session{ID: "sess-1", AccessToken: "a"}
	rbac := &stubRBAC{roles: []domain.RBACRole{{Code: "dgd"}}}
	h := NewSessionHandler(&stubSessionService{}, &stubAuth{}, rbac, time.Hour, false)

	c, rec := sessionCtx(t, http.MethodGet, "/session/roles?filiere=or", "", sess)
	if err := h.Roles(c); err != nil {
		t.Fatalf("Roles: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !rbac.last.ForCurrentActor || !rbac.last.ActiveOnly || !rbac.last.IncludeCommon {
		t.Fatalf("expected scoped active defaults, got %+v", rbac.last)
	}
	if rbac.last.Filiere != domain.FiliereOr {
		t.Fatalf("filière should be normalised, got %q", rbac.last.Filiere)
	}
}
