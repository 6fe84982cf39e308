package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/supdesk/supdesk/internal/application/config"
	"github.com/supdesk/supdesk/internal/application/constant"
	"github.com/supdesk/supdesk/internal/domain/events"
	"github.com/supdesk/supdesk/internal/domain/runtime"
	"github.com/supdesk/supdesk/internal/infra/adapters/memory"
	"github.com/supdesk/supdesk/internal/usecase"
)

// WebSocketHandler drives one session per connection: authenticate the
// credential, authorize against the target room, register, then run the
// receive loop until disconnect. Deregistration is unconditional on exit.
type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	authUsecase usecase.AuthUsecase
	chatUsecase usecase.ChatUsecase

	registry    memory.ConnectionRegistry
	broadcaster *memory.Broadcaster
}

func NewWebSocketHandler(
	cfg *config.Config,
	authUsecase usecase.AuthUsecase,
	chatUsecase usecase.ChatUsecase,
	registry memory.ConnectionRegistry,
	broadcaster *memory.Broadcaster,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		authUsecase: authUsecase,
		chatUsecase: chatUsecase,
		registry:    registry,
		broadcaster: broadcaster,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	roomID := c.Param("room_id")
	credential := c.QueryParam("token")

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	ctx := c.Request().Context()

	identity, err := h.authUsecase.VerifyToken(ctx, credential)
	if err != nil {
		h.closeWith(ws, websocket.ClosePolicyViolation, "could not validate credentials")
		return nil
	}

	if err := h.chatUsecase.AuthorizeJoin(ctx, identity, roomID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrRoomNotFound):
			h.closeWith(ws, websocket.ClosePolicyViolation, "room not found")
		case errors.Is(err, usecase.ErrRoomForbidden):
			h.closeWith(ws, websocket.ClosePolicyViolation, "not authorized to access this room")
		default:
			slog.Error("authorize join failed", slog.Any(constant.Error, err))
			h.closeWith(ws, websocket.CloseInternalServerErr, "unexpected error during setup")
		}
		return nil
	}

	conn := runtime.NewConnection(roomID, identity.Username, identity.Role, ws)

	h.registry.Register(conn)
	defer h.registry.Unregister(conn)

	slog.Info(
		"connection joined room",
		slog.String(constant.UserName, conn.Username),
		slog.String(constant.Role, conn.Role.String()),
		slog.String(constant.RoomID, roomID),
	)

	if err := conn.WriteJSON(events.NewInfo(
		fmt.Sprintf("Connected to room %s as %s (%s).", roomID, conn.Username, conn.Role),
	)); err != nil {
		return nil
	}

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			h.handleWebsocketError(conn, err)
			return nil
		}

		// One message at a time per connection: parse, role-check,
		// persist, fan out. Failures here are scoped to this message
		// and never tear the session down.
		h.handleInbound(ctx, conn, raw)
	}
}

func (h *WebSocketHandler) handleInbound(ctx context.Context, conn *runtime.Connection, raw []byte) {
	var in events.Inbound

	if err := json.Unmarshal(raw, &in); err != nil {
		h.sendError(conn, "Message must be a valid JSON string.")
		return
	}

	if in.Sender == "" || in.Content == "" {
		h.sendError(conn, "Invalid message format. Requires 'sender' and 'content'.")
		return
	}

	if in.Sender != conn.Role {
		h.sendError(conn, "Sender role mismatch with authenticated role.")
		return
	}

	message, err := h.chatUsecase.PostMessage(ctx, conn.RoomID, conn.Role, in.Content)
	if err != nil {
		slog.Error(
			"persist inbound message failed",
			slog.Any(constant.Error, err),
			slog.String(constant.RoomID, conn.RoomID),
		)

		h.sendError(conn, "Could not store message.")
		return
	}

	h.broadcaster.Broadcast(conn.RoomID, message)
}

func (h *WebSocketHandler) sendError(conn *runtime.Connection, message string) {
	if err := conn.WriteJSON(events.NewError(message)); err != nil {
		slog.Error(
			"write error payload failed",
			slog.Any(constant.Error, err),
			slog.String(constant.ConnID, conn.ID.String()),
		)
	}
}

func (h *WebSocketHandler) closeWith(ws *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)

	err := ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		deadline,
	)
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		slog.Error("write close message failed", slog.Any(constant.Error, err))
	}
}

func (h *WebSocketHandler) handleWebsocketError(conn *runtime.Connection, err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			slog.Info(
				"peer disconnected",
				slog.String(constant.UserName, conn.Username),
				slog.String(constant.RoomID, conn.RoomID),
			)
		default:
			slog.Error(
				"websocket closed abnormally",
				slog.Any(constant.Error, err),
				slog.String(constant.ConnID, conn.ID.String()),
			)
		}
		return
	}

	slog.Error(
		"websocket read",
		slog.Any(constant.Error, err),
		slog.String(constant.ConnID, conn.ID.String()),
	)
}
