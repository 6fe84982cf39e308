package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/usecase"
)

type fakeMessageRepo struct {
	mu       sync.Mutex
	nextID   int64
	messages []models.Message
	failNext error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}

	message.ID = f.nextID
	message.Timestamp = time.Now()
	f.nextID++

	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeMessageRepo) ListByRoom(ctx context.Context, roomID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Message
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) ListAll(ctx context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Message, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeMessageRepo) stored() []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

func seedRoom(t *testing.T, repo *fakeRoomRepo, username string) *models.Room {
	t.Helper()

	room := models.NewRoom(username, "irrelevant-hash")
	require.NoError(t, repo.Create(context.Background(), room))
	return room
}

func userIdentity(room *models.Room) models.Identity {
	return models.Identity{Username: room.Username, Role: models.RoleUser, RoomID: &room.ID}
}

var adminIdentity = models.Identity{Username: "admin", Role: models.RoleAdmin}

func TestAuthorizeJoin(t *testing.T) {
	ctx := context.Background()
	roomRepo := newFakeRoomRepo()
	chat := usecase.NewChatUsecase(roomRepo, newFakeMessageRepo())

	aliceRoom := seedRoom(t, roomRepo, "alice")
	bobRoom := seedRoom(t, roomRepo, "bob")

	require.NoError(t, chat.AuthorizeJoin(ctx, userIdentity(aliceRoom), aliceRoom.ID))

	// A user may only ever join the room bound to their identity.
	err := chat.AuthorizeJoin(ctx, userIdentity(aliceRoom), bobRoom.ID)
	require.ErrorIs(t, err, usecase.ErrRoomForbidden)

	err = chat.AuthorizeJoin(ctx, userIdentity(aliceRoom), "11111111-2222-3333-4444-555555555555")
	require.ErrorIs(t, err, usecase.ErrRoomNotFound)

	// The admin is authorized for any existing room.
	require.NoError(t, chat.AuthorizeJoin(ctx, adminIdentity, aliceRoom.ID))
	require.NoError(t, chat.AuthorizeJoin(ctx, adminIdentity, bobRoom.ID))

	err = chat.AuthorizeJoin(ctx, adminIdentity, "11111111-2222-3333-4444-555555555555")
	require.ErrorIs(t, err, usecase.ErrRoomNotFound)
}

func TestPostMessageAssignsCanonicalForm(t *testing.T) {
	ctx := context.Background()
	roomRepo := newFakeRoomRepo()
	messageRepo := newFakeMessageRepo()
	chat := usecase.NewChatUsecase(roomRepo, messageRepo)

	room := seedRoom(t, roomRepo, "alice")

	first, err := chat.PostMessage(ctx, room.ID, models.RoleUser, "hi")
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, room.ID, first.RoomID)
	require.Equal(t, models.RoleUser, first.Sender)
	require.False(t, first.Timestamp.IsZero())

	second, err := chat.PostMessage(ctx, room.ID, models.RoleAdmin, "hello")
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)

	stored := messageRepo.stored()
	require.Len(t, stored, 2)
	require.Equal(t, "hi", stored[0].Content)
	require.Equal(t, "hello", stored[1].Content)
}

func TestPostMessageFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	roomRepo := newFakeRoomRepo()
	messageRepo := newFakeMessageRepo()
	chat := usecase.NewChatUsecase(roomRepo, messageRepo)

	room := seedRoom(t, roomRepo, "alice")

	messageRepo.failNext = context.DeadlineExceeded

	_, err := chat.PostMessage(ctx, room.ID, models.RoleUser, "hi")
	require.Error(t, err)
	require.Empty(t, messageRepo.stored())
}

func TestRoomMessagesAuthorization(t *testing.T) {
	ctx := context.Background()
	roomRepo := newFakeRoomRepo()
	messageRepo := newFakeMessageRepo()
	chat := usecase.NewChatUsecase(roomRepo, messageRepo)

	aliceRoom := seedRoom(t, roomRepo, "alice")
	bobRoom := seedRoom(t, roomRepo, "bob")

	_, err := chat.PostMessage(ctx, aliceRoom.ID, models.RoleUser, "hi")
	require.NoError(t, err)

	messages, err := chat.RoomMessages(ctx, userIdentity(aliceRoom), aliceRoom.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	_, err = chat.RoomMessages(ctx, userIdentity(aliceRoom), bobRoom.ID)
	require.ErrorIs(t, err, usecase.ErrRoomForbidden)

	messages, err = chat.RoomMessages(ctx, adminIdentity, aliceRoom.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	_, err = chat.RoomMessages(ctx, adminIdentity, "11111111-2222-3333-4444-555555555555")
	require.ErrorIs(t, err, usecase.ErrRoomNotFound)
}
