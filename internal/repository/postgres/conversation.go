package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"signbridge/internal/models"
)

const conversationColumns = `id, user_id, title, type, created_at, updated_at`

type ConversationStore struct {
	pool *pgxpool.Pool
}

func NewConversationStore(pool *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{pool: pool}
}

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conv models.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Type,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *ConversationStore) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	conv, err := scanConversation(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationStore) ListByOwner(ctx context.Context, userID int64) ([]models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	return conversations, nil
}

func (s *ConversationStore) Create(ctx context.Context, userID int64, title, convType string) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (user_id, title, type)
		VALUES ($1, $2, $3)
		RETURNING ` + conversationColumns

	conv, err := scanConversation(s.pool.QueryRow(ctx, query, userID, title, convType))
	if err != nil {
		return nil, wrapConstraint("insert conversation", err)
	}
	return conv, nil
}

func (s *ConversationStore) Update(ctx context.Context, id int64, patch models.ConversationPatch) (*models.Conversation, error) {
	query := `
		UPDATE conversations
		SET title      = COALESCE($2, title),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + conversationColumns

	conv, err := scanConversation(s.pool.QueryRow(ctx, query, id, patch.Title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	return conv, nil
}

// TouchUpdatedAt bumps updated_at without any field changes. Run after a
// child message insert so the conversation sorts as recently active.
func (s *ConversationStore) TouchUpdatedAt(ctx context.Context, id int64) error {
	query := `UPDATE conversations SET updated_at = now() WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// Delete removes the conversation; its messages go with the FK cascade.
// Deleting an absent id is a no-op.
func (s *ConversationStore) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM conversations WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}
