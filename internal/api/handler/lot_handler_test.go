package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

type stubLotGateway struct {
	createCalls int
	lot         *domain.Lot
}

func (g *stubLotGateway) Lots(context.Context, *domain.Session, ports.ListQuery) (domain.Page[domain.Lot], error) {
	return domain.Page[domain.Lot]{}, nil
}

func (g *stubLotGateway) Lot(context.Context, *domain.Session, int) (*domain.Lot, error) {
	return g.lot, nil
}

func (g *stubLotGateway) CreateLot(_ context.Context, _ *domain.Session, in ports.CreateLotInput) (*domain.Lot, error) {
	g.createCalls++
	return &domain.Lot{ID: 1, Filiere: in.Filiere, Quantity: in.Quantity, Unit: in.Unit}, nil
}

func postJSON(t *testing.T, body string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/lots", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set("session", sess)
	}
	return c, rec
}

func authedSession() *domain.Session {
	return &domain.Session{ID: "s", AccessToken: "a", SelectedRole: "orpailleur", SelectedFiliere: domain.FiliereOr}
}

func TestLotCreate_RejectsNonPositiveQuantity(t *testing.T) {
	gw := &stubLotGateway{}
	h := NewLotHandler(gw)

	c, _ := postJSON(t, `{"filiere":"OR","unit":"g","quantity":0}`, authedSession())
	err := h.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %v", err)
	}
	if gw.createCalls != 0 {
		t.Fatalf("invalid declarations must never reach the upstream API")
	}
}

func TestLotCreate_RejectsUnknownFiliere(t *testing.T) {
	gw := &stubLotGateway{}
	h := NewLotHandler(gw)

	c, _ := postJSON(t, `{"filiere":"CHARBON","unit":"g","quantity":2.5}`, authedSession())
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidFiliere) {
		t.Fatalf("expected ErrInvalidFiliere, got %v", err)
	}
	if gw.createCalls != 0 {
		t.Fatalf("unknown filière must never reach the upstream API")
	}
}

func TestLotCreate_RequiresSession(t *testing.T) {
	gw := &stubLotGateway{}
	h := NewLotHandler(gw)

	c, _ := postJSON(t, `{"filiere":"OR","unit":"g","quantity":2.5}`, nil)
	if err := h.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLotCreate_OK(t *testing.T) {
	gw := &stubLotGateway{}
	h := NewLotHandler(gw)

	c, rec := postJSON(t, `{"filiere":"or","unit":"g","quantity":2.5}`, authedSession())
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gw.createCalls != 1 {
		t.Fatalf("expected one upstream call, got %d", gw.createCalls)
	}
	// Filière codes are normalised before they go upstream.
	if !strings.Contains(rec.Body.String(), `"filiere":"OR"`) {
		t.Fatalf("expected normalised filière in response: %s", rec.Body.String())
	}
}
