package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/domain/output"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error

	// GetByID and GetByUsername return (nil, nil) for a missing room.
	// Absence is a checked outcome, not an error.
	GetByID(ctx context.Context, id string) (*models.Room, error)
	GetByUsername(ctx context.Context, username string) (*models.Room, error)

	ListSummaries(ctx context.Context) ([]output.RoomSummary, error)
}

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	res, err := r.db.ExecContext(
		ctx,
		"INSERT INTO rooms (id, username, password, created_at) VALUES ($1, $2, $3, $4)",
		room.ID,
		room.Username,
		room.Password,
		room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	if aff, err := res.RowsAffected(); aff == 0 || err != nil {
		return fmt.Errorf("create room no rows affected: %w", err)
	}

	return nil
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room

	query := "SELECT id, username, password, created_at FROM rooms WHERE id = $1"

	err := r.db.GetContext(ctx, &room, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	return &room, nil
}

func (r *roomRepo) GetByUsername(ctx context.Context, username string) (*models.Room, error) {
	var room models.Room

	query := "SELECT id, username, password, created_at FROM rooms WHERE username = $1"

	err := r.db.GetContext(ctx, &room, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room by username: %w", err)
	}

	return &room, nil
}

func (r *roomRepo) ListSummaries(ctx context.Context) ([]output.RoomSummary, error) {
	var summaries []output.RoomSummary

	query := `
		SELECT r.id,
		       r.username,
		       m.content   AS last_message_content,
		       m.timestamp AS last_message_timestamp
		FROM rooms r
		LEFT JOIN LATERAL (
			SELECT content, timestamp
			FROM messages
			WHERE room_id = r.id
			ORDER BY timestamp DESC
			LIMIT 1
		) m ON true
		ORDER BY r.created_at
	`

	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list room summaries: %w", err)
	}

	return summaries, nil
}
