package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
)

// errorObject is a single JSON:API error: status code as a string, the
// failure message as title, and optional per-field detail.
type errorObject struct {
	Status string   `json:"status"`
	Title  string   `json:"title"`
	Detail []string `json:"detail,omitempty"`
}

type errorDocument struct {
	Errors []errorObject `json:"errors"`
}

// NewHTTPErrorHandler returns the echo.HTTPErrorHandler that is the single
// place mapping the error taxonomy to HTTP status codes:
//   - validation failures        → 400 (with field messages as detail)
//   - missing/invalid credentials → 401
//   - policy denials             → 403
//   - absent records             → 404
//   - duplicate email            → 409
//   - everything else            → 500, logged, with a generic message
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, title, detail := resolveError(err, log, c)
		_ = c.JSON(code, errorDocument{
			Errors: []errorObject{{
				Status: fmt.Sprintf("%d", code),
				Title:  title,
				Detail: detail,
			}},
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, []string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "invalid request payload", ve.Messages
	}

	// Echo's own errors (bind failures, 404 from router, auth middleware, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	switch {
	case errors.Is(err, domain.ErrForbiddenAction),
		errors.Is(err, domain.ErrRoleChangeForbidden):
		return http.StatusForbidden, err.Error(), nil
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrActorNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, err.Error(), nil
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}
