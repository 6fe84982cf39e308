package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/supdesk/supdesk/internal/domain/models"
)

type MessageRepository interface {
	// Create stores the message and fills in its database-assigned id and
	// timestamp.
	Create(ctx context.Context, message *models.Message) error

	ListByRoom(ctx context.Context, roomID string) ([]models.Message, error)
	ListAll(ctx context.Context) ([]models.Message, error)
}

type messageRepo struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (room_id, sender, content)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp
	`

	err := r.db.QueryRowxContext(ctx, query, message.RoomID, message.Sender, message.Content).
		Scan(&message.ID, &message.Timestamp)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *messageRepo) ListByRoom(ctx context.Context, roomID string) ([]models.Message, error) {
	var messages []models.Message

	query := `
		SELECT id, room_id, sender, content, timestamp
		FROM messages
		WHERE room_id = $1
		ORDER BY timestamp
	`

	if err := r.db.SelectContext(ctx, &messages, query, roomID); err != nil {
		return nil, fmt.Errorf("list messages by room: %w", err)
	}

	return messages, nil
}

func (r *messageRepo) ListAll(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message

	query := `
		SELECT id, room_id, sender, content, timestamp
		FROM messages
		ORDER BY timestamp
	`

	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list all messages: %w", err)
	}

	return messages, nil
}
