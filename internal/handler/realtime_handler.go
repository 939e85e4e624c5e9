package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/knagato/messenger-backend/internal/realtime"
	"github.com/knagato/messenger-backend/internal/session"
)

type RealtimeHandler struct {
	authorizer *realtime.ChannelAuthorizer
	resolver   *session.Resolver
}

func NewRealtimeHandler(authorizer *realtime.ChannelAuthorizer, resolver *session.Resolver) *RealtimeHandler {
	return &RealtimeHandler{authorizer: authorizer, resolver: resolver}
}

type ChannelAuthRequest struct {
	SocketID    string `json:"socket_id" form:"socket_id"`
	ChannelName string `json:"channel_name" form:"channel_name"`
}

// Authorize signs a channel subscription for an authenticated session.
func (h *RealtimeHandler) Authorize(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	var req ChannelAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if req.SocketID == "" || req.ChannelName == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing socket_id or channel_name"))
	}
	token, err := h.authorizer.Authorize(req.SocketID, req.ChannelName, user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to authorize channel"))
	}
	return c.JSON(http.StatusOK, token)
}
