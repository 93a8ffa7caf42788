package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// AdminHandler proxies platform configuration and serves the
// gateway-local audit trail.
type AdminHandler struct {
	admin ports.AdminGateway
	audit ports.AuditRepository
}

func NewAdminHandler(admin ports.AdminGateway, audit ports.AuditRepository) *AdminHandler {
	return &AdminHandler{admin: admin, audit: audit}
}

type configRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
	Scope string `json:"scope"`
}

// ConfigList handles GET /admin/config.
func (h *AdminHandler) ConfigList(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	entries, err := h.admin.ConfigEntries(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.ConfigEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// ConfigCreate handles POST /admin/config.
func (h *AdminHandler) ConfigCreate(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req configRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.admin.CreateConfigEntry(c.Request().Context(), sess, ports.ConfigInput{
		Key: req.Key, Value: req.Value, Scope: req.Scope,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// ConfigUpdate handles PUT /admin/config/:id.
func (h *AdminHandler) ConfigUpdate(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req configRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.admin.UpdateConfigEntry(c.Request().Context(), sess, id, ports.ConfigInput{
		Key: req.Key, Value: req.Value, Scope: req.Scope,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// ConfigDelete handles DELETE /admin/config/:id.
func (h *AdminHandler) ConfigDelete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteConfigEntry(c.Request().Context(), sess, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AuditList handles GET /audit. This trail is the gateway's own (logins,
// selections, guard redirects); business mutations are audited upstream.
func (h *AdminHandler) AuditList(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	records, err := h.audit.List(c.Request().Context(), ports.AuditQuery{
		SessionID: c.QueryParam("session_id"),
		ActorID:   queryInt(c, "actor_id"),
		Action:    c.QueryParam("action"),
		Limit:     queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}
	return c.JSON(http.StatusOK, records)
}
