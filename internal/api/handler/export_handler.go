package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// ExportHandler proxies export dossiers and their status sequence.
type ExportHandler struct {
	exports ports.ExportGateway
}

func NewExportHandler(exports ports.ExportGateway) *ExportHandler {
	return &ExportHandler{exports: exports}
}

type createExportRequest struct {
	Destination string  `json:"destination"`
	TotalWeight float64 `json:"total_weight" validate:"omitempty,gt=0"`
}

type updateExportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft submitted ready_for_control controlled sealed exported"`
}

type linkLotsRequest struct {
	Lots []exportLotRequest `json:"lots" validate:"required,min=1,dive"`
}

type exportLotRequest struct {
	LotID            int     `json:"lot_id" validate:"required,gt=0"`
	QuantityInExport float64 `json:"quantity_in_export" validate:"required,gt=0"`
}

// List handles GET /exports.
func (h *ExportHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	dossiers, err := h.exports.Exports(c.Request().Context(), sess, parseListQuery(c))
	if err != nil {
		return err
	}
	if dossiers == nil {
		dossiers = []domain.ExportDossier{}
	}
	return c.JSON(http.StatusOK, dossiers)
}

// Get handles GET /exports/:id.
func (h *ExportHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	dossier, err := h.exports.Export(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dossier)
}

// Create handles POST /exports.
func (h *ExportHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createExportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dossier, err := h.exports.CreateExport(c.Request().Context(), sess, ports.CreateExportInput{
		Destination: req.Destination,
		TotalWeight: req.TotalWeight,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dossier)
}

// UpdateStatus handles PATCH /exports/:id/status. The forward-only
// sequence is pre-checked here so an impossible transition fails without
// an upstream round trip.
//
// @Summary      Advance an export dossier
// @Tags         exports
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "Dossier ID"
// @Param        body  body      updateExportStatusRequest  true  "Target status"
// @Success      200   {object}  domain.ExportDossier
// @Failure      422   {object}  map[string]string
// @Router       /exports/{id}/status [patch]
func (h *ExportHandler) UpdateStatus(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateExportStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	target := domain.ExportStatus(req.Status)

	current, err := h.exports.Export(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(target) {
		return domain.ErrInvalidTransition
	}

	dossier, err := h.exports.UpdateExportStatus(c.Request().Context(), sess, id, target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dossier)
}

// LinkLots handles POST /exports/:id/lots.
func (h *ExportHandler) LinkLots(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req linkLotsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lots := make([]domain.ExportLot, 0, len(req.Lots))
	for _, l := range req.Lots {
		lots = append(lots, domain.ExportLot{LotID: l.LotID, QuantityInExport: l.QuantityInExport})
	}

	dossier, err := h.exports.LinkLots(c.Request().Context(), sess, id, lots)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dossier)
}
