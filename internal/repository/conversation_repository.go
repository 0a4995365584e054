package repository

import (
	"context"
	"time"

	"stockduel/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type ConversationRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewConversationRepository(pool PgxPool, tracer trace.Tracer) *ConversationRepository {
	return &ConversationRepository{pool: pool, tracer: tracer}
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, userID int64, role, content string) error {
	_, span := r.tracer.Start(ctx, "conversation-repo.append-message")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversation_messages (user_id, role, content) VALUES ($1, $2, $3)`,
		userID, role, content,
	)
	return err
}

func (r *ConversationRepository) RecentMessages(ctx context.Context, userID int64, limit int) ([]domain.ConversationMessage, error) {
	_, span := r.tracer.Start(ctx, "conversation-repo.recent-messages")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT role, content, created_at
		 FROM conversation_messages
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ConversationMessage
	for rows.Next() {
		var m domain.ConversationMessage
		var ts time.Time
		if err := rows.Scan(&m.Role, &m.Content, &ts); err != nil {
			return nil, err
		}
		m.CreatedAt = ts.UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse: DB returns newest-first, we need oldest-first for prompt building
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// TrimHistory drops everything but the newest keep messages for a user.
func (r *ConversationRepository) TrimHistory(ctx context.Context, userID int64, keep int) error {
	_, span := r.tracer.Start(ctx, "conversation-repo.trim-history")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
DELETE FROM conversation_messages
WHERE user_id = $1
  AND id NOT IN (
      SELECT id FROM conversation_messages
      WHERE user_id = $1
      ORDER BY created_at DESC
      LIMIT $2
  )`, userID, keep)
	return err
}
