package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/ports"
)

// parseListQuery reads the shared pagination/filter parameters.
func parseListQuery(c echo.Context) ports.ListQuery {
	return ports.ListQuery{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		Status:   c.QueryParam("status"),
		Role:     c.QueryParam("role"),
		Commune:  c.QueryParam("commune"),
		ActorID:  queryInt(c, "actor_id"),
		LotID:    queryInt(c, "lot_id"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	}
}

func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

// pathID parses a numeric path parameter, rejecting non-positive values.
func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
