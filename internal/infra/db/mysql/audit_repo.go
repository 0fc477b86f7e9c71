package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/serplab/rankforensics/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// SaveRecord inserts a ticket-analysis audit row
func (r *AuditRepository) SaveRecord(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO ticket_analyses
  (id, user_id, ticket_body, target_domain, persona, result_json, model_used, latency_ms, archive_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  result_json=VALUES(result_json), model_used=VALUES(model_used), latency_ms=VALUES(latency_ms), archive_url=VALUES(archive_url);
`
	// Ensure non-nullable fields have safe defaults
	user := stringOrDash(a.UserID)
	result := a.ResultJSON
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
		result = "{}"
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, user, a.TicketBody, a.TargetDomain, a.Persona, result, a.ModelUsed, a.LatencyMS, a.ArchiveURL, createdAt)
	return err
}

// Paginate returns a page of audit rows ordered by created_at desc
func (r *AuditRepository) Paginate(ctx context.Context, userID string, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, user_id, ticket_body, target_domain, persona, result_json, model_used, latency_ms, archive_url, created_at
FROM ticket_analyses
WHERE user_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		a, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get returns one audit row by id
func (r *AuditRepository) Get(ctx context.Context, userID string, id domain.RecordID) (*domain.Record, error) {
	const q = `
SELECT id, user_id, ticket_body, target_domain, persona, result_json, model_used, latency_ms, archive_url, created_at
FROM ticket_analyses
WHERE user_id=? AND id=?;
`
	row := r.db.QueryRowContext(ctx, q, userID, id)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var a domain.Record
	var created time.Time
	if err := row.Scan(&a.ID, &a.UserID, &a.TicketBody, &a.TargetDomain, &a.Persona,
		&a.ResultJSON, &a.ModelUsed, &a.LatencyMS, &a.ArchiveURL, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = created
	return &a, nil
}
