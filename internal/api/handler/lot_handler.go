package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// LotHandler proxies lot declaration and lookup.
type LotHandler struct {
	lots ports.LotGateway
}

func NewLotHandler(lots ports.LotGateway) *LotHandler {
	return &LotHandler{lots: lots}
}

type createLotRequest struct {
	Filiere     string            `json:"filiere" validate:"required"`
	SousFiliere string            `json:"sous_filiere"`
	ProductType string            `json:"product_type"`
	Unit        string            `json:"unit" validate:"required"`
	Quantity    float64           `json:"quantity" validate:"required,gt=0"`
	VolumeM3    float64           `json:"volume_m3" validate:"omitempty,gt=0"`
	WoodEssence string            `json:"wood_essence"`
	WoodForm    string            `json:"wood_form"`
	GeoPointID  int               `json:"geo_point_id"`
	Attributes  map[string]string `json:"attributes"`
}

// List handles GET /lots.
//
// @Summary      List lots
// @Tags         lots
// @Produce      json
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  domain.Page[domain.Lot]
// @Failure      401        {object}  map[string]string
// @Router       /lots [get]
func (h *LotHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	page, err := h.lots.Lots(c.Request().Context(), sess, parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /lots/:id.
func (h *LotHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	lot, err := h.lots.Lot(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lot)
}

// Create handles POST /lots.
//
// @Summary      Declare a lot
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        body  body      createLotRequest  true  "Lot declaration"
// @Success      201   {object}  domain.Lot
// @Failure      400   {object}  map[string]string
// @Router       /lots [post]
func (h *LotHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createLotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filiere, err := domain.ParseFiliere(req.Filiere)
	if err != nil {
		return err
	}

	lot, err := h.lots.CreateLot(c.Request().Context(), sess, ports.CreateLotInput{
		Filiere:     filiere,
		SousFiliere: req.SousFiliere,
		ProductType: req.ProductType,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		VolumeM3:    req.VolumeM3,
		WoodEssence: req.WoodEssence,
		WoodForm:    req.WoodForm,
		GeoPointID:  req.GeoPointID,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lot)
}
