package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/knagato/messenger-backend/internal/service"
	"github.com/knagato/messenger-backend/internal/session"
)

type UserHandler struct {
	svc      service.UserService
	resolver *session.Resolver
}

func NewUserHandler(svc service.UserService, resolver *session.Resolver) *UserHandler {
	return &UserHandler{svc: svc, resolver: resolver}
}

type RegisterRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

func (h *UserHandler) List(c echo.Context) error {
	email, _ := c.Get("email").(string)
	if _, err := h.resolver.Current(c.Request().Context(), email); err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	return c.JSON(http.StatusOK, h.svc.List(c.Request().Context(), email))
}

// Register ensures a local profile row for a verified identity. The identity
// provider owns credentials; this only mirrors the directory entry.
func (h *UserHandler) Register(c echo.Context) error {
	email, _ := c.Get("email").(string)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.svc.Register(c.Request().Context(), email, req.Name, req.Image)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to register user"))
	}
	return c.JSON(http.StatusOK, u)
}
