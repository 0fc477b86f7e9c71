package audit

import "time"

// RecordID identifier type
type RecordID string

// Record is one persisted ticket-analysis audit row. It is written
// best-effort after the response is assembled and never read back by the
// analysis pipeline itself.
type Record struct {
	ID           RecordID  `json:"id"`
	UserID       string    `json:"user_id"`
	TicketBody   string    `json:"ticket_body"`
	TargetDomain string    `json:"target_domain"`
	Persona      string    `json:"persona"`
	ResultJSON   string    `json:"result"` // verdict + warnings as JSON
	ModelUsed    string    `json:"model_used"`
	LatencyMS    int64     `json:"latency_ms"`
	ArchiveURL   string    `json:"archive_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is one turn of a stored conversation, used by the streaming chat
// endpoint to reconstruct history.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"` // user | assistant
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
