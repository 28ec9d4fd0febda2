package chat

import (
	"context"
	"database/sql"
	"fmt"
)

// MessageRepository defines the data access contract for conversation turns.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Message, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// messageRepository implements MessageRepository with hand-written MariaDB queries.
type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository backed by the given DB pool.
func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a conversation turn and backfills the generated ID and
// timestamp on the passed message.
func (r *messageRepository) Create(ctx context.Context, m *Message) error {
	query := `INSERT INTO chat_messages (user_id, message, response)
	          VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, m.UserID, m.Message, m.Response)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading chat message id: %w", err)
	}
	m.ID = id

	// The DB assigned created_at; read it back so callers and the cache see
	// the authoritative value.
	row := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM chat_messages WHERE id = ?`, id)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return fmt.Errorf("reading chat message timestamp: %w", err)
	}

	return nil
}

// ListByUser returns a page of the user's conversation turns, newest first.
func (r *messageRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Message, error) {
	query := `SELECT id, user_id, message, response, created_at
	          FROM chat_messages
	          WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.Response, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message row: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// CountByUser returns the total number of stored turns for a user.
func (r *messageRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chat messages: %w", err)
	}
	return count, nil
}
