package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
	"github.com/samihashehatta/leovegs-task/internal/core/ports"
)

// UserHandler handles HTTP requests for user account operations. Errors are
// returned as-is and mapped to status codes by the central error handler.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create registers a new user account and returns it with its access token.
//
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User registration details"
// @Success      201   {object}  userDocument
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /api/user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newUserDocument(user))
}

// Retrieve returns a single user by id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userDocument
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/user/{id} [get]
func (h *UserHandler) Retrieve(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserDocument(user))
}

// Update applies a partial update to a user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userDocument
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/user/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Password != nil && (req.ConfirmPassword == nil || *req.ConfirmPassword != *req.Password) {
		return domain.NewValidationError("password and confirmPassword do not match")
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	// confirmPassword stops here: the service input has no field for it.
	user, err := h.users.Update(c.Request().Context(), id, ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newUserDocument(user))
}

// Delete hard-deletes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userDocument
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emptyDocument())
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("id must be a numeric user id")
	}
	return id, nil
}
