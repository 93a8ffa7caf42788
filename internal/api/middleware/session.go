package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the opaque session ID.
// Tokens never leave the gateway; the browser only ever sees this ID.
const SessionCookie = "tg_session"

const sessionContextKey = "session"

// Session resolves the session cookie into a *domain.Session and injects
// it into the Echo context. Requests without a valid session proceed with
// a nil session; the guard decides what that means per route.
func Session(store ports.SessionStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sess, err := store.Find(c.Request().Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionNotFound) {
					log.Error().Err(err).Msg("session lookup failed")
					return err
				}
				// Stale cookie: expire it so the browser stops sending it.
				c.SetCookie(expiredCookie())
				return next(c)
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session injected by the Session middleware, or
// nil when the request carries none.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionContextKey).(*domain.Session)
	return sess
}

// NewSessionCookie builds the cookie handed out on login.
func NewSessionCookie(id string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
