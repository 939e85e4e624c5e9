package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/knagato/messenger-backend/internal/service"
	"github.com/knagato/messenger-backend/internal/session"
)

type ConversationHandler struct {
	svc      service.ConversationService
	messages service.MessageService
	resolver *session.Resolver
}

func NewConversationHandler(svc service.ConversationService, messages service.MessageService, resolver *session.Resolver) *ConversationHandler {
	return &ConversationHandler{svc: svc, messages: messages, resolver: resolver}
}

type CreateConversationRequest struct {
	UserID  uint64   `json:"userId"`
	IsGroup bool     `json:"isGroup"`
	Name    string   `json:"name"`
	Members []uint64 `json:"members"`
}

func (h *ConversationHandler) List(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	return c.JSON(http.StatusOK, h.svc.ListForUser(c.Request().Context(), user))
}

func (h *ConversationHandler) Get(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	cv := h.svc.GetByID(c.Request().Context(), user, convID)
	if cv == nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
	}
	return c.JSON(http.StatusOK, cv)
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	email, _ := c.Get("email").(string)
	if _, err := h.resolver.Current(c.Request().Context(), email); err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	return c.JSON(http.StatusOK, h.messages.ListByConversation(c.Request().Context(), convID))
}

func (h *ConversationHandler) Create(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}

	if req.IsGroup {
		cv, err := h.svc.CreateGroup(c.Request().Context(), user, req.Name, req.Members)
		if err != nil {
			if err == service.ErrInvalidInput {
				return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "group needs a name and at least 2 members"))
			}
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to create group"))
		}
		return c.JSON(http.StatusOK, cv)
	}

	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing userId"))
	}
	cv, _, err := h.svc.CreateDirect(c.Request().Context(), user, req.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "user not found"))
		}
		if errors.Is(err, service.ErrSelfConversation) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to create conversation"))
	}
	return c.JSON(http.StatusOK, cv)
}

func (h *ConversationHandler) Seen(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	msg, err := h.svc.Seen(c.Request().Context(), user, convID)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark seen"))
	}
	if msg == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *ConversationHandler) Delete(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	if err := h.svc.Delete(c.Request().Context(), user, convID); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete conversation"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConversationHandler) Cleanup(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, err := h.resolver.Current(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse())
	}
	n, err := h.svc.CleanupDuplicates(c.Request().Context(), user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to clean up duplicates"))
	}
	return c.JSON(http.StatusOK, map[string]int{"deletedCount": n})
}
