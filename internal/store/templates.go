// internal/store/templates.go
package store

import (
	"context"
	"database/sql"

	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/models"

	"github.com/lib/pq"
)

// TemplateStore looks up notification types and templates.
type TemplateStore struct {
	db *sql.DB
}

func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// FindActiveTemplate returns the active template for a (type, channel)
// pair, or (nil, nil) when none is configured. Both the template and its
// notification type must be active. If duplicate active rows exist the
// most recently created one wins.
func (s *TemplateStore) FindActiveTemplate(ctx context.Context, typeCode, channel string) (*models.NotificationTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT t.id, t.type_code, t.channel, COALESCE(t.subject, ''), t.template_content,
		        t.available_variables, t.is_active, t.created_at, t.updated_at
		 FROM notification_templates t
		 JOIN notification_types nt ON nt.code = t.type_code
		 WHERE t.type_code = $1 AND t.channel = $2
		   AND t.is_active = true AND nt.is_active = true
		 ORDER BY t.created_at DESC
		 LIMIT 1`,
		typeCode, channel,
	)

	var tmpl models.NotificationTemplate
	err := row.Scan(
		&tmpl.ID, &tmpl.TypeCode, &tmpl.Channel, &tmpl.Subject, &tmpl.TemplateContent,
		pq.Array(&tmpl.AvailableVariables), &tmpl.IsActive, &tmpl.CreatedAt, &tmpl.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewTemplateLookupError(err)
	}
	return &tmpl, nil
}

// FindType returns a catalog entry by code, or (nil, nil) when unknown.
func (s *TemplateStore) FindType(ctx context.Context, code string) (*models.NotificationType, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, category, is_active
		 FROM notification_types WHERE code = $1`,
		code,
	)

	var nt models.NotificationType
	err := row.Scan(&nt.ID, &nt.Code, &nt.Name, &nt.Category, &nt.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewTemplateLookupError(err)
	}
	return &nt, nil
}

// Deactivate soft-deactivates a template. Templates in use are never
// hard-deleted; logs do not reference template rows either way.
func (s *TemplateStore) Deactivate(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notification_templates SET is_active = false, updated_at = now() WHERE id = $1`,
		id,
	)
	return err
}
