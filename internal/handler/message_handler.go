package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/knagato/messenger-backend/internal/service"
	"github.com/knagato/messenger-backend/internal/session"
)

type MessageHandler struct {
	svc      service.MessageService
	resolver *session.Resolver
}

func NewMessageHandler(svc service.MessageService, resolver *session.Resolver) *MessageHandler {
	return &MessageHandler{svc: svc, resolver: resolver}
}

// SendMessageRequest carries an optional text body, an optional image
// reference and the target conversation id as a decimal string.
type SendMessageRequest struct {
	Message        *string `json:"message"`
	Image          *string `json:"image"`
	ConversationID string  `json:"conversationId"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.ConversationID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing conversationId"))
	}
	convID, err := strconv.ParseUint(req.ConversationID, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversationId format"))
	}

	msg, err := h.svc.Send(c.Request().Context(), user, convID, req.Message, req.Image)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to store message"))
	}
	return c.JSON(http.StatusOK, msg)
}
