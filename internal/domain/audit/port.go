package audit

import "context"

// Repository port for the audit trail and conversation rows.
type Repository interface {
	SaveRecord(ctx context.Context, r *Record) error
	Paginate(ctx context.Context, userID string, page, pageSize int) ([]*Record, error)
	Get(ctx context.Context, userID string, id RecordID) (*Record, error)

	SaveMessage(ctx context.Context, m *Message) error
	History(ctx context.Context, conversationID string, limit int) ([]*Message, error)
}

// Archive port: best-effort sink for the full prompt/response transcript.
// Failures are logged, never surfaced.
type Archive interface {
	PutTranscript(ctx context.Context, key string, payload []byte) (string, error)
}
