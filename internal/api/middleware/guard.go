package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/api/metrics"
	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// stepPaths maps each onboarding step to the route that renders it.
var stepPaths = map[domain.Step]string{
	domain.StepLogin:         "/login",
	domain.StepSelectRole:    "/select-role",
	domain.StepSelectFiliere: "/select-filiere",
	domain.StepDashboard:     domain.DefaultLandingPath,
}

// StepPath returns the route for an onboarding step.
func StepPath(step domain.Step) string {
	return stepPaths[step]
}

// navigationPath maps an API route to the navigation destination it
// serves, so the visibility check runs against menu paths. Dashboard data
// is served under /dashboards/<scope> while the menu lists
// /dashboard/<scope>.
func navigationPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/dashboards/"); ok {
		return "/dashboard/" + rest
	}
	return path
}

// supportPath reports whether the route is a referential lookup backing
// forms on several screens (territory cascades, geo-point capture). These
// have no navigation entry of their own and are open to any fully
// onboarded session.
func supportPath(path string) bool {
	return path == "/territories" || strings.HasPrefix(path, "/territories/") ||
		path == "/geo-points" || strings.HasPrefix(path, "/geo-points/")
}

// Guard protects the application routes behind the onboarding state
// machine and menu visibility:
//
//   - A session mid-onboarding is redirected (303) to its current step,
//     never to a later one.
//   - A completed session requesting a path outside its visible menu is
//     redirected to the landing page — unless the visible set is empty,
//     in which case everything is allowed (an empty set must never lock
//     the user into a redirect loop).
func Guard(menu ports.MenuService, audit ports.AuditRecorder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			step := sess.Step()

			if step != domain.StepDashboard {
				reason := "onboarding"
				if step == domain.StepLogin {
					reason = "unauthenticated"
				}
				return redirect(c, audit, sess, StepPath(step), reason)
			}

			reqPath := c.Request().URL.Path
			if supportPath(reqPath) {
				return next(c)
			}

			items, err := menu.VisibleMenu(c.Request().Context(), sess)
			if err != nil {
				if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrUnauthenticated) {
					return redirect(c, audit, sess, StepPath(domain.StepLogin), "unauthenticated")
				}
				// Visibility could not be computed; letting the request
				// through beats locking the user out.
				log.Warn().Err(err).Str("path", reqPath).Msg("menu resolution failed, allowing request")
				return next(c)
			}

			if !domain.AllowedPath(items, navigationPath(reqPath)) {
				return redirect(c, audit, sess, domain.DefaultLandingPath, "not_visible")
			}
			return next(c)
		}
	}
}

func redirect(c echo.Context, audit ports.AuditRecorder, sess *domain.Session, target, reason string) error {
	metrics.GuardRedirectsTotal.WithLabelValues(reason).Inc()
	if audit != nil && sess != nil {
		audit.Record(domain.AuditRecord{
			SessionID: sess.ID,
			Action:    domain.AuditGuardRedirect,
			Path:      c.Request().URL.Path,
			Outcome:   reason,
			Detail:    target,
		})
	}
	return c.Redirect(http.StatusSeeOther, target)
}
