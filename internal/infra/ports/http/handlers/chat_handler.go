package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/supdesk/supdesk/internal/application/constant"
	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/infra/appctx"
	"github.com/supdesk/supdesk/internal/infra/ports/http/dto"
	"github.com/supdesk/supdesk/internal/usecase"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
}

func NewChatHandler(chatUsecase usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
	}
}

// RoomMessages returns a room's history, oldest first.
func (h *ChatHandler) RoomMessages(c echo.Context) error {
	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing identity in context"})
	}

	messages, err := h.chatUsecase.RoomMessages(c.Request().Context(), identity, c.Param("room_id"))
	switch {
	case errors.Is(err, usecase.ErrRoomForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "not authorized to view this room's messages"})
	case errors.Is(err, usecase.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
	case err != nil:
		slog.Error("list room messages failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not list messages"})
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return c.JSON(http.StatusOK, messages)
}

// SendMessage is the request/response counterpart of the realtime send: it
// persists but does not fan out. Offline peers pick the message up from
// history.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing identity in context"})
	}

	var req dto.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Sender != identity.Role {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "sender role mismatch with authenticated role"})
	}

	if err := h.chatUsecase.AuthorizeJoin(c.Request().Context(), identity, req.RoomID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		case errors.Is(err, usecase.ErrRoomForbidden):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "not authorized to send messages to this room"})
		default:
			slog.Error("authorize send failed", slog.Any(constant.Error, err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not send message"})
		}
	}

	message, err := h.chatUsecase.PostMessage(c.Request().Context(), req.RoomID, identity.Role, req.Content)
	if err != nil {
		slog.Error("post message failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not send message"})
	}

	return c.JSON(http.StatusOK, message)
}

// AllChats returns every message across all rooms. Admin only.
func (h *ChatHandler) AllChats(c echo.Context) error {
	messages, err := h.chatUsecase.AllMessages(c.Request().Context())
	if err != nil {
		slog.Error("list all messages failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not list messages"})
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return c.JSON(http.StatusOK, messages)
}

// RoomSummaries returns the admin overview of all rooms.
func (h *ChatHandler) RoomSummaries(c echo.Context) error {
	summaries, err := h.chatUsecase.RoomSummaries(c.Request().Context())
	if err != nil {
		slog.Error("list room summaries failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not list rooms"})
	}

	return c.JSON(http.StatusOK, summaries)
}

// AdminReply posts an admin message into any room. The message is persisted
// even when the room's user is offline; it is delivered on their next
// history fetch.
func (h *ChatHandler) AdminReply(c echo.Context) error {
	var req dto.AdminReplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing identity in context"})
	}

	if err := h.chatUsecase.AuthorizeJoin(c.Request().Context(), identity, req.RoomID); err != nil {
		if errors.Is(err, usecase.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}

		slog.Error("authorize reply failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not send reply"})
	}

	message, err := h.chatUsecase.PostMessage(c.Request().Context(), req.RoomID, models.RoleAdmin, req.Content)
	if err != nil {
		slog.Error("post reply failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not send reply"})
	}

	return c.JSON(http.StatusOK, message)
}
