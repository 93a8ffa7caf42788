package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/api/middleware"
	"github.com/madavola/tracegate/internal/core/domain"
)

// ctxSession extracts the session injected by the Session middleware and
// fast-fails before any upstream call: proxied resource routes need a
// fully authenticated session, and a missing one must not turn into an
// upstream 401 round trip.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.SessionFrom(c)
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}
