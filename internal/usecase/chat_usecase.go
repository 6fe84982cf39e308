package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/domain/output"
	"github.com/supdesk/supdesk/internal/infra/adapters/postgres/repository"
)

var (
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomForbidden: a user may only ever access the single room bound
	// to their identity. The admin is never room-bound.
	ErrRoomForbidden = errors.New("not authorized to access this room")
)

type ChatUsecase interface {
	// AuthorizeJoin checks that the room exists and that the identity may
	// enter it.
	AuthorizeJoin(ctx context.Context, identity models.Identity, roomID string) error

	// PostMessage persists a message and returns its canonical form with
	// the assigned id and timestamp.
	PostMessage(ctx context.Context, roomID string, sender models.Role, content string) (*models.Message, error)

	RoomMessages(ctx context.Context, identity models.Identity, roomID string) ([]models.Message, error)

	AllMessages(ctx context.Context) ([]models.Message, error)
	RoomSummaries(ctx context.Context) ([]output.RoomSummary, error)
}

type chatUsecase struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
}

func NewChatUsecase(roomRepo repository.RoomRepository, messageRepo repository.MessageRepository) ChatUsecase {
	return &chatUsecase{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
	}
}

func (uc *chatUsecase) AuthorizeJoin(ctx context.Context, identity models.Identity, roomID string) error {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("get room by id: %w", err)
	}

	if room == nil {
		return ErrRoomNotFound
	}

	if identity.Role == models.RoleUser {
		if identity.RoomID == nil || *identity.RoomID != roomID {
			return ErrRoomForbidden
		}
	}

	return nil
}

func (uc *chatUsecase) PostMessage(ctx context.Context, roomID string, sender models.Role, content string) (*models.Message, error) {
	message := &models.Message{
		RoomID:  roomID,
		Sender:  sender,
		Content: content,
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	return message, nil
}

func (uc *chatUsecase) RoomMessages(ctx context.Context, identity models.Identity, roomID string) ([]models.Message, error) {
	if identity.Role == models.RoleUser {
		if identity.RoomID == nil || *identity.RoomID != roomID {
			return nil, ErrRoomForbidden
		}
	}

	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	if room == nil {
		return nil, ErrRoomNotFound
	}

	return uc.messageRepo.ListByRoom(ctx, roomID)
}

func (uc *chatUsecase) AllMessages(ctx context.Context) ([]models.Message, error) {
	return uc.messageRepo.ListAll(ctx)
}

func (uc *chatUsecase) RoomSummaries(ctx context.Context) ([]output.RoomSummary, error) {
	return uc.roomRepo.ListSummaries(ctx)
}
