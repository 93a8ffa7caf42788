package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// FinanceHandler proxies invoices and the upstream ledger.
type FinanceHandler struct {
	finance ports.FinanceGateway
}

func NewFinanceHandler(finance ports.FinanceGateway) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// Invoices handles GET /invoices.
func (h *FinanceHandler) Invoices(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	invoices, err := h.finance.Invoices(c.Request().Context(), sess, parseListQuery(c))
	if err != nil {
		return err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return c.JSON(http.StatusOK, invoices)
}

// Invoice handles GET /invoices/:id.
func (h *FinanceHandler) Invoice(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.finance.Invoice(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// LedgerEntries handles GET /ledger.
func (h *FinanceHandler) LedgerEntries(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	entries, err := h.finance.LedgerEntries(c.Request().Context(), sess, parseListQuery(c))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// LedgerBalance handles GET /ledger/balance/:actor_id.
func (h *FinanceHandler) LedgerBalance(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	actorID, err := pathID(c, "actor_id")
	if err != nil {
		return err
	}
	balance, err := h.finance.LedgerBalance(c.Request().Context(), sess, actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balance)
}
