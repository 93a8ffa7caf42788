package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// MenuHandler serves the navigation set visible to the current session.
type MenuHandler struct {
	menu ports.MenuService
}

func NewMenuHandler(menu ports.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

type menuResponse struct {
	Role        string            `json:"role,omitempty"`
	RoleLabel   string            `json:"role_label,omitempty"`
	Filiere     string            `json:"filiere,omitempty"`
	Items       []domain.MenuItem `json:"items"`
	Permissions []string          `json:"permissions"`
}

// Menu returns the visible menu and permission set for the session.
//
// @Summary      Visible navigation menu
// @Tags         menu
// @Produce      json
// @Success      200  {object}  menuResponse
// @Failure      401  {object}  map[string]string
// @Router       /menu [get]
func (h *MenuHandler) Menu(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	items, err := h.menu.VisibleMenu(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	perms, err := h.menu.Permissions(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	if perms == nil {
		perms = []string{}
	}

	return c.JSON(http.StatusOK, menuResponse{
		Role:        sess.SelectedRole,
		RoleLabel:   domain.RoleLabels[sess.SelectedRole],
		Filiere:     string(sess.SelectedFiliere),
		Items:       items,
		Permissions: perms,
	})
}
