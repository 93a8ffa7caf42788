package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login exchanges credentials for a token pair. Runs without a session:
// a 401 here means bad credentials, not an expired token, so there is
// nothing to refresh.
func (c *Client) Login(ctx context.Context, identifier, password string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	status, err := c.once(ctx, nil, "auth.login", http.MethodPost, "/auth/login", nil,
		loginRequest{Identifier: identifier, Password: password}, &pair)
	if err != nil {
		return domain.TokenPair{}, c.outcome("auth.login", status, err)
	}
	if status == http.StatusUnauthorized {
		c.outcome("auth.login", status, nil)
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}
	if err := c.outcome("auth.login", status, nil); err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

// Logout revokes the refresh token upstream. The caller drops the session
// either way, so any upstream failure is reported but not fatal.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	status, err := c.once(ctx, nil, "auth.logout", http.MethodPost, "/auth/logout", nil,
		map[string]string{"refresh_token": refreshToken}, nil)
	if err == nil && status == http.StatusUnauthorized {
		// Already revoked or expired: the goal is reached.
		c.outcome("auth.logout", http.StatusOK, nil)
		return nil
	}
	return c.outcome("auth.logout", status, err)
}

// Me fetches the authenticated actor's profile.
func (c *Client) Me(ctx context.Context, sess *domain.Session) (*domain.ActorProfile, error) {
	var profile domain.ActorProfile
	if err := c.do(ctx, sess, "auth.me", http.MethodGet, "/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Roles lists the role catalog for the selection step. When the catalog
// scoped to the current actor comes back empty, the query is retried
// without the actor scope so the selection screen is never blank.
func (c *Client) Roles(ctx context.Context, sess *domain.Session, q ports.RoleQuery) ([]domain.RBACRole, error) {
	roles, err := c.fetchRoles(ctx, sess, q)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 && q.ForCurrentActor {
		q.ForCurrentActor = false
		return c.fetchRoles(ctx, sess, q)
	}
	return roles, nil
}

func (c *Client) fetchRoles(ctx context.Context, sess *domain.Session, q ports.RoleQuery) ([]domain.RBACRole, error) {
	query := url.Values{}
	if q.Filiere != "" {
		query.Set("filiere", string(q.Filiere))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.ActorType != "" {
		query.Set("actor_type", q.ActorType)
	}
	if q.IncludeCommon {
		query.Set("include_common", "true")
	}
	if q.ActiveOnly {
		query.Set("active_only", "true")
	}
	if q.ForCurrentActor {
		query.Set("for_current_actor", "true")
	}

	var roles []domain.RBACRole
	if err := c.do(ctx, sess, "rbac.roles", http.MethodGet, "/rbac/roles", query, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Permissions lists the permission codes granted to one role.
func (c *Client) Permissions(ctx context.Context, sess *domain.Session, role string) ([]string, error) {
	query := url.Values{"role": {role}}
	var perms []string
	if err := c.do(ctx, sess, "rbac.permissions", http.MethodGet, "/rbac/permissions", query, nil, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// listQuery serialises the shared list filters, omitting zero values.
func listQuery(q ports.ListQuery) url.Values {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Role != "" {
		query.Set("role", q.Role)
	}
	if q.Commune != "" {
		query.Set("commune", q.Commune)
	}
	if q.ActorID > 0 {
		query.Set("actor_id", strconv.Itoa(q.ActorID))
	}
	if q.LotID > 0 {
		query.Set("lot_id", strconv.Itoa(q.LotID))
	}
	if q.DateFrom != "" {
		query.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		query.Set("date_to", q.DateTo)
	}
	return query
}
