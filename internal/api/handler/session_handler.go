package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/api/middleware"
	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// SessionHandler owns the session lifecycle routes: login, logout, the
// onboarding selections and the back-navigation analog.
type SessionHandler struct {
	sessions     ports.SessionService
	auth         ports.AuthGateway
	rbac         ports.RBACGateway
	cookieMaxAge int
	secureCookie bool
}

func NewSessionHandler(sessions ports.SessionService, auth ports.AuthGateway, rbac ports.RBACGateway, cookieTTL time.Duration, secureCookie bool) *SessionHandler {
	return &SessionHandler{
		sessions:     sessions,
		auth:         auth,
		rbac:         rbac,
		cookieMaxAge: int(cookieTTL.Seconds()),
		secureCookie: secureCookie,
	}
}

// --- Request / Response types ---

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type selectRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type selectFiliereRequest struct {
	Filiere string `json:"filiere" validate:"required"`
}

type sessionStateResponse struct {
	Authenticated   bool   `json:"authenticated"`
	Step            string `json:"step"`
	Route           string `json:"route"`
	SelectedRole    string `json:"selected_role,omitempty"`
	SelectedFiliere string `json:"selected_filiere,omitempty"`
	TokenExpiresAt  string `json:"token_expires_at,omitempty"`
}

func stateResponse(state ports.SessionState) sessionStateResponse {
	resp := sessionStateResponse{
		Step:  string(state.Step),
		Route: middleware.StepPath(state.Step),
	}
	if sess := state.Session; sess != nil {
		resp.Authenticated = sess.Authenticated()
		resp.SelectedRole = sess.SelectedRole
		resp.SelectedFiliere = string(sess.SelectedFiliere)
		if exp, ok := domain.AccessTokenExpiry(sess); ok {
			resp.TokenExpiresAt = exp.UTC().Format(time.RFC3339)
		}
	}
	return resp
}

// Login opens a gateway session from upstream credentials.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionStateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state, err := h.sessions.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(middleware.NewSessionCookie(state.Session.ID, h.cookieMaxAge, h.secureCookie))
	return c.JSON(http.StatusOK, stateResponse(state))
}

// Logout ends the session and clears the cookie.
//
// @Summary      Log out
// @Tags         session
// @Success      204  "session ended"
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	if sess := middleware.SessionFrom(c); sess != nil {
		if err := h.sessions.Logout(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	c.SetCookie(middleware.NewSessionCookie("", -1, h.secureCookie))
	return c.NoContent(http.StatusNoContent)
}

// Current reports the session state, so a page reload lands on the right
// onboarding step.
//
// @Summary      Current session state
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionStateResponse
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return c.JSON(http.StatusOK, stateResponse(ports.SessionState{Step: domain.StepLogin}))
	}
	state, err := h.sessions.Current(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateResponse(state))
}

// SelectRole records the role chosen on the selection step.
//
// @Summary      Select the active role
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      selectRoleRequest  true  "Role code"
// @Success      200   {object}  sessionStateResponse
// @Failure      401   {object}  map[string]string
// @Router       /session/role [post]
func (h *SessionHandler) SelectRole(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthenticated
	}

	var req selectRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state, err := h.sessions.SelectRole(c.Request().Context(), sess.ID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateResponse(state))
}

// SelectFiliere records the filière chosen on the selection step.
//
// @Summary      Select the active filière
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      selectFiliereRequest  true  "Filière code (OR, PIERRE, BOIS)"
// @Success      200   {object}  sessionStateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /session/filiere [post]
func (h *SessionHandler) SelectFiliere(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthenticated
	}

	var req selectFiliereRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	filiere, err := domain.ParseFiliere(req.Filiere)
	if err != nil {
		return err
	}

	state, err := h.sessions.SelectFiliere(c.Request().Context(), sess.ID, filiere)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateResponse(state))
}

// Back is the browser back-button analog: it steps the onboarding state
// machine backwards, clearing the choice that gated the current step.
//
// @Summary      Step back in onboarding
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionStateResponse
// @Router       /session/back [post]
func (h *SessionHandler) Back(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthenticated
	}
	state, err := h.sessions.StepBack(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateResponse(state))
}

// ChangeProfile clears role and filière for full re-selection.
//
// @Summary      Change profile
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionStateResponse
// @Router       /session/change-profile [post]
func (h *SessionHandler) ChangeProfile(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthenticated
	}
	state, err := h.sessions.ChangeProfile(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateResponse(state))
}

// ChangeFiliere clears the filière only, keeping the role.
//
// @Summary      Change filière
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionStateResponse
// @Router       /session/change-filiere [post]
func (h *SessionHandler) ChangeFiliere(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthenticated
	}
	state, err := h.sessions.ChangeFiliere(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateResponse(state))
}

// Profile returns the authenticated actor's account profile.
//
// @Summary      Account profile
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.ActorProfile
// @Failure      401  {object}  map[string]string
// @Router       /session/profile [get]
func (h *SessionHandler) Profile(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	profile, err := h.auth.Me(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Roles lists the role catalog for the selection step.
//
// @Summary      Role catalog
// @Tags         session
// @Produce      json
// @Param        filiere   query     string  false  "Filière code"
// @Param        search    query     string  false  "Search term"
// @Success      200       {array}   domain.RBACRole
// @Failure      401       {object}  map[string]string
// @Router       /session/roles [get]
func (h *SessionHandler) Roles(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	q := ports.RoleQuery{
		Search:          c.QueryParam("search"),
		Category:        c.QueryParam("category"),
		ActorType:       c.QueryParam("actor_type"),
		IncludeCommon:   c.QueryParam("include_common") != "false",
		ActiveOnly:      c.QueryParam("active_only") != "false",
		ForCurrentActor: c.QueryParam("for_current_actor") != "false",
	}
	if raw := c.QueryParam("filiere"); raw != "" {
		filiere, err := domain.ParseFiliere(raw)
		if err != nil {
			return err
		}
		q.Filiere = filiere
	}

	roles, err := h.rbac.Roles(c.Request().Context(), sess, q)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []domain.RBACRole{}
	}
	return c.JSON(http.StatusOK, roles)
}
