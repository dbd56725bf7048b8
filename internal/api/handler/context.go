package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/samihashehatta/leovegs-task/internal/api/middleware"
	"github.com/samihashehatta/leovegs-task/internal/core/domain"
)

// ctxActor extracts the actor claims injected by the Auth middleware. A
// missing or malformed claim set means the middleware did not run or the
// token was structurally unusable; reject with 401 before any service call.
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, ok := c.Get(middleware.ContextKeyUserID).(int64)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get(middleware.ContextKeyRole).(string)
	if role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ := c.Get(middleware.ContextKeyEmail).(string)
	return domain.Actor{ID: id, Email: email, Role: role}, nil
}
