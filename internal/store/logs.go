// internal/store/logs.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/models"

	"github.com/google/uuid"
)

// LogStore persists notification dispatch attempts. Inserts are
// append-only; rows are never updated.
type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

// CreateLog inserts one dispatch attempt record. The ID and CreatedAt
// fields are assigned here when unset.
func (s *LogStore) CreateLog(ctx context.Context, entry *models.NotificationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_logs
		 (id, type_code, channel, recipient, subject, rendered_content, status, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`,
		entry.ID, entry.TypeCode, entry.Channel, entry.Recipient, entry.Subject,
		entry.RenderedContent, entry.Status, entry.Error, entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertError("notification_logs", err)
	}
	return nil
}

// FindLog returns one log row by ID, or (nil, nil) when absent. Used by
// the resend flow.
func (s *LogStore) FindLog(ctx context.Context, id string) (*models.NotificationLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type_code, channel, recipient, COALESCE(subject, ''), rendered_content,
		        status, COALESCE(error, ''), created_at
		 FROM notification_logs WHERE id = $1`,
		id,
	)

	var entry models.NotificationLog
	err := row.Scan(
		&entry.ID, &entry.TypeCode, &entry.Channel, &entry.Recipient, &entry.Subject,
		&entry.RenderedContent, &entry.Status, &entry.Error, &entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListRecent returns the newest log rows for a recipient address.
func (s *LogStore) ListRecent(ctx context.Context, recipient string, limit int) ([]models.NotificationLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type_code, channel, recipient, COALESCE(subject, ''), rendered_content,
		        status, COALESCE(error, ''), created_at
		 FROM notification_logs
		 WHERE recipient = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		recipient, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.NotificationLog
	for rows.Next() {
		var entry models.NotificationLog
		if err := rows.Scan(
			&entry.ID, &entry.TypeCode, &entry.Channel, &entry.Recipient, &entry.Subject,
			&entry.RenderedContent, &entry.Status, &entry.Error, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
