package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
	"github.com/samihashehatta/leovegs-task/internal/core/ports"
)

// Guard runs the authorization policy for the /api/user/:id routes. It maps
// the HTTP method to a policy action, extracts the actor injected by Auth,
// and rejects the request before the handler runs when the policy denies it.
func Guard(users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorFromContext(c)
			if err != nil {
				return err
			}

			targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				return domain.NewValidationError("id must be a numeric user id")
			}

			action, err := actionForMethod(c.Request().Method)
			if err != nil {
				return err
			}

			if err := users.AuthorizeAction(c.Request().Context(), targetID, actor, action); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func actorFromContext(c echo.Context) (domain.Actor, error) {
	id, ok := c.Get(ContextKeyUserID).(int64)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get(ContextKeyRole).(string)
	if role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ := c.Get(ContextKeyEmail).(string)
	return domain.Actor{ID: id, Email: email, Role: role}, nil
}

func actionForMethod(method string) (ports.Action, error) {
	switch method {
	case http.MethodGet:
		return ports.ActionRead, nil
	case http.MethodPut:
		return ports.ActionUpdate, nil
	case http.MethodDelete:
		return ports.ActionDelete, nil
	default:
		return "", echo.ErrMethodNotAllowed
	}
}
