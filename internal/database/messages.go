package database

import (
	"context"
	"fmt"
	"time"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// MessageRepository handles coaching message database operations
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message row
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, profile_id, sender, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		message.ID,
		message.ProfileID,
		message.Sender,
		message.Body,
		time.Now(),
	).Scan(&message.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListByProfile retrieves a member's coaching thread, ascending by
// creation time.
func (r *MessageRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, profile_id, sender, message, created_at
		FROM messages
		WHERE profile_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		message := &models.Message{}
		if err := rows.Scan(
			&message.ID,
			&message.ProfileID,
			&message.Sender,
			&message.Body,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
