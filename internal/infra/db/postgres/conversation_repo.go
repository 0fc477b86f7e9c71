package postgres

import (
	"context"
	"time"

	domain "github.com/serplab/rankforensics/internal/domain/audit"
)

// SaveMessage inserts one conversation turn
func (r *AuditRepository) SaveMessage(ctx context.Context, m *domain.Message) error {
	const q = `
INSERT INTO conversation_messages
  (id, conversation_id, role, content, created_at)
VALUES ($1,$2,$3,$4,$5);
`
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, m.ID, m.ConversationID, m.Role, m.Content, createdAt)
	return err
}

// History returns the most recent turns of a conversation, oldest first
func (r *AuditRepository) History(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
SELECT id, conversation_id, role, content, created_at
FROM conversation_messages
WHERE conversation_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
