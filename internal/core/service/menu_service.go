package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

type menuService struct {
	auth  ports.AuthGateway
	rbac  ports.RBACGateway
	cache ports.PermissionCache
	log   zerolog.Logger
}

// NewMenuService returns a MenuService that resolves the selected role
// into a permission set (cached per role for the session lifetime) and a
// visible navigation set.
func NewMenuService(auth ports.AuthGateway, rbac ports.RBACGateway, cache ports.PermissionCache, log zerolog.Logger) ports.MenuService {
	return &menuService{auth: auth, rbac: rbac, cache: cache, log: log}
}

func (s *menuService) Permissions(ctx context.Context, sess *domain.Session) ([]string, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if sess.SelectedRole == "" {
		return nil, nil
	}

	if perms, ok, err := s.cache.Get(ctx, sess.ID, sess.SelectedRole); err != nil {
		s.log.Warn().Err(err).Str("role", sess.SelectedRole).Msg("permission cache read failed")
	} else if ok {
		return perms, nil
	}

	perms, err := s.rbac.Permissions(ctx, sess, sess.SelectedRole)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, sess.ID, sess.SelectedRole, perms); err != nil {
		s.log.Warn().Err(err).Str("role", sess.SelectedRole).Msg("permission cache write failed")
	}
	return perms, nil
}

func (s *menuService) VisibleMenu(ctx context.Context, sess *domain.Session) ([]domain.MenuItem, error) {
	perms, err := s.Permissions(ctx, sess)
	if err != nil {
		return nil, err
	}

	// The account's full role set drives the static-table tier.
	var roleCodes []string
	if profile, err := s.auth.Me(ctx, sess); err != nil {
		// Menu computation degrades to the selected role alone rather than
		// failing navigation outright.
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("profile fetch failed, falling back to selected role")
		if sess.SelectedRole != "" {
			roleCodes = []string{sess.SelectedRole}
		}
	} else {
		roleCodes = profile.RoleCodes()
	}

	return domain.VisibleMenu(sess.SelectedRole, roleCodes, perms), nil
}
