package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// ActorHandler proxies actor registration and lookup.
type ActorHandler struct {
	actors ports.ActorGateway
}

func NewActorHandler(actors ports.ActorGateway) *ActorHandler {
	return &ActorHandler{actors: actors}
}

type createActorRequest struct {
	TypePersonne  string   `json:"type_personne" validate:"required,oneof=physique morale"`
	Nom           string   `json:"nom" validate:"required"`
	Prenoms       string   `json:"prenoms"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Telephone     string   `json:"telephone" validate:"required,mg_phone"`
	Password      string   `json:"password" validate:"omitempty,min=8"`
	RegionCode    string   `json:"region_code" validate:"required"`
	DistrictCode  string   `json:"district_code" validate:"required"`
	CommuneCode   string   `json:"commune_code" validate:"required"`
	FokontanyCode string   `json:"fokontany_code"`
	GeoPointID    int      `json:"geo_point_id"`
	Roles         []string `json:"roles" validate:"required,min=1"`
	Filieres      []string `json:"filieres" validate:"required,min=1"`
}

type updateActorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended pending rejected"`
}

// List handles GET /actors.
//
// @Summary      List actors
// @Tags         actors
// @Produce      json
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Param        status     query     string  false  "Status filter"
// @Success      200        {object}  domain.Page[domain.Actor]
// @Failure      401        {object}  map[string]string
// @Router       /actors [get]
func (h *ActorHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	page, err := h.actors.Actors(c.Request().Context(), sess, parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /actors/:id.
func (h *ActorHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := h.actors.Actor(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actor)
}

// Create handles POST /actors. Validation runs before any upstream call:
// a malformed registration never leaves the gateway.
//
// @Summary      Register an actor
// @Tags         actors
// @Accept       json
// @Produce      json
// @Param        body  body      createActorRequest  true  "Actor registration"
// @Success      201   {object}  domain.Actor
// @Failure      400   {object}  map[string]string
// @Router       /actors [post]
func (h *ActorHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createActorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filieres := make([]domain.Filiere, 0, len(req.Filieres))
	for _, raw := range req.Filieres {
		filiere, err := domain.ParseFiliere(raw)
		if err != nil {
			return err
		}
		filieres = append(filieres, filiere)
	}

	actor, err := h.actors.CreateActor(c.Request().Context(), sess, ports.CreateActorInput{
		TypePersonne:  req.TypePersonne,
		Nom:           req.Nom,
		Prenoms:       req.Prenoms,
		Email:         req.Email,
		Telephone:     req.Telephone,
		Password:      req.Password,
		RegionCode:    req.RegionCode,
		DistrictCode:  req.DistrictCode,
		CommuneCode:   req.CommuneCode,
		FokontanyCode: req.FokontanyCode,
		GeoPointID:    req.GeoPointID,
		Roles:         req.Roles,
		Filieres:      filieres,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, actor)
}

// UpdateStatus handles PATCH /actors/:id/status.
func (h *ActorHandler) UpdateStatus(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateActorStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := h.actors.UpdateActorStatus(c.Request().Context(), sess, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actor)
}
