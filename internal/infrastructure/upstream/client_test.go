package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// memStore is an in-memory SessionStore for client tests.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]domain.Session)}
}

func (s *memStore) Save(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *memStore) Find(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func newTestClient(baseURL string, store ports.SessionStore) *Client {
	return NewClient(baseURL, 2*time.Second, store, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func staleSession() *domain.Session {
	return &domain.Session{ID: "sess-1", AccessToken: "stale", RefreshToken: "refresh-1"}
}

func TestDo_RefreshAndReplayExactlyOnce(t *testing.T) {
	var lotCalls, refreshCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lots":
			atomic.AddInt32(&lotCalls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token_invalide"})
				return
			}
			writeJSON(w, http.StatusOK, domain.Page[domain.Lot]{Items: []domain.Lot{{ID: 7}}, Total: 1})
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refresh_token"] != "refresh-1" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "refresh_invalide"})
				return
			}
			writeJSON(w, http.StatusOK, domain.TokenPair{AccessToken: "fresh", RefreshToken: "refresh-2"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := newMemStore()
	sess := staleSession()
	_ = store.Save(context.Background(), sess)
	c := newTestClient(srv.URL, store)

	page, err := c.Lots(context.Background(), sess, ports.ListQuery{})
	if err != nil {
		t.Fatalf("Lots: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 7 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if n := atomic.LoadInt32(&lotCalls); n != 2 {
		t.Fatalf("expected original call plus one replay, got %d calls", n)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("expected exactly one refresh, got %d", n)
	}

	// The rotated pair is on the session and persisted for the next request.
	if sess.AccessToken != "fresh" || sess.RefreshToken != "refresh-2" {
		t.Fatalf("session should carry the rotated pair: %+v", sess)
	}
	stored, err := store.Find(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if stored.AccessToken != "fresh" || stored.RefreshToken != "refresh-2" {
		t.Fatalf("store should carry the rotated pair: %+v", stored)
	}
}

func TestDo_SecondUnauthorizedEndsSession(t *testing.T) {
	var lotCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lots":
			atomic.AddInt32(&lotCalls, 1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token_invalide"})
		case "/auth/refresh":
			writeJSON(w, http.StatusOK, domain.TokenPair{AccessToken: "fresh", RefreshToken: "refresh-2"})
		}
	}))
	defer srv.Close()

	store := newMemStore()
	sess := staleSession()
	_ = store.Save(context.Background(), sess)
	c := newTestClient(srv.URL, store)

	_, err := c.Lots(context.Background(), sess, ports.ListQuery{})
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	// No endless retry loop: original call plus exactly one replay.
	if n := atomic.LoadInt32(&lotCalls); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
	if sess.Authenticated() {
		t.Fatalf("tokens must be cleared after a failed replay")
	}
	if _, err := store.Find(context.Background(), "sess-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session should be dropped from the store, got %v", err)
	}
}

func TestDo_RefreshFailureIsNeverRetried(t *testing.T) {
	var refreshCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lots":
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token_invalide"})
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "refresh_invalide"})
		}
	}))
	defer srv.Close()

	store := newMemStore()
	sess := staleSession()
	_ = store.Save(context.Background(), sess)
	c := newTestClient(srv.URL, store)

	_, err := c.Lots(context.Background(), sess, ports.ListQuery{})
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("a 401 on the refresh endpoint must not trigger another refresh, got %d calls", n)
	}
	if sess.Authenticated() {
		t.Fatalf("tokens must be cleared when the refresh is rejected")
	}
}

func TestDo_ConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	var refreshCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lots":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token_invalide"})
				return
			}
			writeJSON(w, http.StatusOK, domain.Page[domain.Lot]{})
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			time.Sleep(50 * time.Millisecond) // hold the flight open so callers pile up
			writeJSON(w, http.StatusOK, domain.TokenPair{AccessToken: "fresh", RefreshToken: "refresh-2"})
		}
	}))
	defer srv.Close()

	store := newMemStore()
	_ = store.Save(context.Background(), staleSession())
	c := newTestClient(srv.URL, store)

	const parallel = 8
	var wg sync.WaitGroup
	errs := make([]error, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each request carries its own session copy, as each HTTP
			// request loads its own from the store.
			_, errs[i] = c.Lots(context.Background(), staleSession(), ports.ListQuery{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("concurrent 401s must share one refresh, got %d", n)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
			return
		}
		var body loginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Identifier == "admin@example.test" && body.Password == "Admin123" {
			writeJSON(w, http.StatusOK, domain.TokenPair{AccessToken: "a1", RefreshToken: "r1"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "identifiants_invalides"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, newMemStore())

	pair, err := c.Login(context.Background(), "admin@example.test", "Admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken != "a1" || pair.RefreshToken != "r1" {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	if _, err := c.Login(context.Background(), "admin@example.test", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestDo_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening any more

	c := newTestClient(srv.URL, newMemStore())
	_, err := c.Lots(context.Background(), staleSession(), ports.ListQuery{})
	if !errors.Is(err, domain.ErrUpstreamUnreachable) {
		t.Fatalf("expected ErrUpstreamUnreachable, got %v", err)
	}
	// Connectivity problems must not read like an expired session.
	if msg := domain.MessageFor(err); !strings.Contains(msg, "backend") {
		t.Fatalf("expected the start-the-backend message, got %q", msg)
	}
}

func TestDo_APIErrorCarriesDetailCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "telephone_invalide"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, newMemStore())
	sess := &domain.Session{ID: "sess-1", AccessToken: "ok", RefreshToken: "r"}

	_, err := c.CreateActor(context.Background(), sess, ports.CreateActorInput{Telephone: "12"})
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "telephone_invalide" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestDo_SchemaMismatchFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"items": "not-a-list"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, newMemStore())
	sess := &domain.Session{ID: "sess-1", AccessToken: "ok", RefreshToken: "r"}

	_, err := c.Lots(context.Background(), sess, ports.ListQuery{})
	var decodeErr *domain.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *domain.DecodeError, got %v", err)
	}
	if decodeErr.Endpoint != "lots.list" {
		t.Fatalf("decode error should name the operation, got %q", decodeErr.Endpoint)
	}
}

func TestErrorCode_EnvelopeShapes(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"detail": "token_invalide"}`, "token_invalide"},
		{`{"detail": {"message": "compte_inactif"}}`, "compte_inactif"},
		{`{"detail": [{"msg": "champ_requis"}]}`, "champ_requis"},
		{`{"unexpected": true}`, ""},
		{`not json`, ""},
	}
	for _, tc := range cases {
		if got := errorCode([]byte(tc.body)); got != tc.want {
			t.Fatalf("errorCode(%s) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestRoles_FallsBackToUnscopedCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rbac/roles" {
			t.Errorf("unexpected path %s", r.URL.Path)
			return
		}
		if r.URL.Query().Get("for_current_actor") == "true" {
			writeJSON(w, http.StatusOK, []domain.RBACRole{})
			return
		}
		writeJSON(w, http.StatusOK, []domain.RBACRole{{Code: "dgd"}, {Code: "com"}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, newMemStore())
	sess := &domain.Session{ID: "sess-1", AccessToken: "ok", RefreshToken: "r"}

	roles, err := c.Roles(context.Background(), sess, ports.RoleQuery{ForCurrentActor: true})
	if err != nil {
		t.Fatalf("Roles: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("empty scoped catalog should fall back to the full one, got %d roles", len(roles))
	}
}

