package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/knagato/messenger-backend/internal/service"
	"github.com/knagato/messenger-backend/internal/session"
)

type SettingsHandler struct {
	svc      service.UserService
	resolver *session.Resolver
}

func NewSettingsHandler(svc service.UserService, resolver *session.Resolver) *SettingsHandler {
	return &SettingsHandler{svc: svc, resolver: resolver}
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

func (h *SettingsHandler) Update(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	updated, err := h.svc.UpdateProfile(c.Request().Context(), user, req.Name, req.Image)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update profile"))
	}
	return c.JSON(http.StatusOK, updated)
}
