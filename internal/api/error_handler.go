package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. The
// message is the user-facing French text; the code is the upstream
// machine-readable detail when one exists.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Translates upstream error codes into display-ready French messages.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Upstream errors keep their status and carry a translatable code.
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, errorResponse{Error: domain.MessageFor(apiErr), Code: apiErr.Code}
	}

	// Known domain errors → deterministic HTTP codes. The message always
	// comes from the shared table so every surface reads the same.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, errorResponse{Error: domain.MessageFor(domain.ErrUnauthenticated)}
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{Error: domain.MessageFor(err)}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: domain.MessageFor(err), Code: "identifiants_invalides"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: domain.MessageFor(err)}
	case errors.Is(err, domain.ErrInvalidFiliere):
		return http.StatusBadRequest, errorResponse{Error: domain.MessageFor(err)}
	case errors.Is(err, domain.ErrRoleRequired):
		return http.StatusConflict, errorResponse{Error: domain.MessageFor(err)}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.MessageFor(err)}
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		// Distinct from auth failures: the user can fix this one.
		return http.StatusBadGateway, errorResponse{Error: domain.MessageFor(domain.ErrUpstreamUnreachable)}
	}

	var decodeErr *domain.DecodeError
	if errors.As(err, &decodeErr) {
		log.Error().Err(err).Str("operation", decodeErr.Endpoint).Msg("upstream schema mismatch")
		return http.StatusBadGateway, errorResponse{Error: domain.MsgGenericError}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: domain.MsgGenericError}
}
