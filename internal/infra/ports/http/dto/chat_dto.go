package dto

import "github.com/supdesk/supdesk/internal/domain/models"

type SendMessageRequest struct {
	RoomID  string      `json:"room_id"`
	Sender  models.Role `json:"sender"`
	Content string      `json:"content"`
}

type AdminReplyRequest struct {
	RoomID  string `json:"room_id"`
	Content string `json:"content"`
}
