package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/serplab/rankforensics/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// SaveRecord inserts or updates a ticket-analysis audit row
func (r *AuditRepository) SaveRecord(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO ticket_analyses
  (id, user_id, ticket_body, target_domain, persona, result_json, model_used, latency_ms, archive_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  result_json=EXCLUDED.result_json,
  model_used=EXCLUDED.model_used,
  latency_ms=EXCLUDED.latency_ms,
  archive_url=EXCLUDED.archive_url;
`
	user := stringOrDash(a.UserID)
	result := a.ResultJSON
	if strings.TrimSpace(result) == "" {
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
WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var a domain.Record
		if err := rows.Scan(&a.ID, &a.UserID, &a.TicketBody, &a.TargetDomain, &a.Persona,
			&a.ResultJSON, &a.ModelUsed, &a.LatencyMS, &a.ArchiveURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Get returns one audit row by id
func (r *AuditRepository) Get(ctx context.Context, userID string, id domain.RecordID) (*domain.Record, error) {
	const q = `
SELECT id, user_id, ticket_body, target_domain, persona, result_json, model_used, latency_ms, archive_url, created_at
FROM ticket_analyses
WHERE user_id=$1 AND id=$2;
`
	var a domain.Record
	if err := r.db.QueryRowContext(ctx, q, userID, id).Scan(
		&a.ID, &a.UserID, &a.TicketBody, &a.TargetDomain, &a.Persona,
		&a.ResultJSON, &a.ModelUsed, &a.LatencyMS, &a.ArchiveURL, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
