package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// verifyKinds limits the public verification endpoint to the resource
// kinds that carry a QR code.
var verifyKinds = map[string]bool{
	"lot":     true,
	"invoice": true,
	"export":  true,
	"actor":   true,
}

// ReferenceHandler serves the public verification endpoint, dashboards,
// reports, the territory referential and geo-point capture.
type ReferenceHandler struct {
	ref ports.ReferenceGateway
}

func NewReferenceHandler(ref ports.ReferenceGateway) *ReferenceHandler {
	return &ReferenceHandler{ref: ref}
}

type createGeoPointRequest struct {
	Lat       float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon       float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	AccuracyM float64 `json:"accuracy_m" validate:"omitempty,gt=0"`
	Source    string  `json:"source"`
}

// Verify handles GET /verify/:kind/:id. Public: works without any
// session, so a QR scan from any phone resolves.
//
// @Summary      Verify a traceability document
// @Tags         verify
// @Produce      json
// @Param        kind  path      string  true  "Resource kind (lot, invoice, export, actor)"
// @Param        id    path      int     true  "Resource ID"
// @Success      200   {object}  domain.VerifyResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /verify/{kind}/{id} [get]
func (h *ReferenceHandler) Verify(c echo.Context) error {
	kind := c.Param("kind")
	if !verifyKinds[kind] {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown verification kind")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.ref.Verify(c.Request().Context(), kind, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Dashboard handles GET /dashboards/:scope.
func (h *ReferenceHandler) Dashboard(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	summary, err := h.ref.Dashboard(c.Request().Context(), sess, c.Param("scope"), parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Report handles GET /reports/:scope.
func (h *ReferenceHandler) Report(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	report, err := h.ref.Report(c.Request().Context(), sess, c.Param("scope"), parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Territories handles the four referential levels:
// GET /territories/regions, /districts, /communes, /fokontany.
func (h *ReferenceHandler) Regions(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.respondTerritories(c)(h.ref.Regions(c.Request().Context(), sess))
}

func (h *ReferenceHandler) Districts(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.respondTerritories(c)(h.ref.Districts(c.Request().Context(), sess, c.QueryParam("region_code")))
}

func (h *ReferenceHandler) Communes(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.respondTerritories(c)(h.ref.Communes(c.Request().Context(), sess, c.QueryParam("district_code")))
}

func (h *ReferenceHandler) Fokontany(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.respondTerritories(c)(h.ref.Fokontany(c.Request().Context(), sess, c.QueryParam("commune_code")))
}

func (h *ReferenceHandler) respondTerritories(c echo.Context) func([]domain.Territory, error) error {
	return func(items []domain.Territory, err error) error {
		if err != nil {
			return err
		}
		if items == nil {
			items = []domain.Territory{}
		}
		return c.JSON(http.StatusOK, items)
	}
}

// CreateGeoPoint handles POST /geo-points.
func (h *ReferenceHandler) CreateGeoPoint(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createGeoPointRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	point, err := h.ref.CreateGeoPoint(c.Request().Context(), sess, ports.CreateGeoPointInput{
		Lat:       req.Lat,
		Lon:       req.Lon,
		AccuracyM: req.AccuracyM,
		Source:    req.Source,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, point)
}
