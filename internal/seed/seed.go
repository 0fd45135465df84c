// internal/seed/seed.go
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xeipuuv/gojsonschema"
)

// Catalog is the JSON seed document: the notification-type registry with
// its default templates, plus initial app settings.
type Catalog struct {
	Types    []TypeEntry     `json:"types"`
	Settings []SettingsEntry `json:"settings"`
}

type TypeEntry struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Templates []TemplateEntry `json:"templates"`
}

type TemplateEntry struct {
	Channel            string   `json:"channel"`
	Subject            string   `json:"subject,omitempty"`
	TemplateContent    string   `json:"templateContent"`
	AvailableVariables []string `json:"availableVariables"`
}

type SettingsEntry struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Load reads and schema-validates the catalog file.
func Load(catalogPath, schemaPath string) (*Catalog, error) {
	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	if schemaPath != "" {
		schemaRaw, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("read catalog schema: %w", err)
		}

		schemaLoader := gojsonschema.NewBytesLoader(schemaRaw)
		documentLoader := gojsonschema.NewBytesLoader(raw)

		result, err := gojsonschema.Validate(schemaLoader, documentLoader)
		if err != nil {
			return nil, fmt.Errorf("validate catalog: %w", err)
		}
		if !result.Valid() {
			errs := make([]string, len(result.Errors()))
			for i, desc := range result.Errors() {
				errs[i] = desc.String()
			}
			return nil, apperrors.NewSeedInvalidError(fmt.Sprintf("%v", errs))
		}
	}

	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &catalog, nil
}

// Seeder inserts the catalog idempotently: re-running over an existing
// database updates rather than duplicates.
type Seeder struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSeeder(db *sql.DB, log logger.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "seeder"}),
	}
}

// Apply upserts every type, template, and setting in the catalog.
func (s *Seeder) Apply(ctx context.Context, catalog *Catalog) error {
	for _, t := range catalog.Types {
		if err := s.upsertType(ctx, t); err != nil {
			return err
		}
		for _, tmpl := range t.Templates {
			if err := s.upsertTemplate(ctx, t.Code, tmpl); err != nil {
				return err
			}
		}
	}

	for _, setting := range catalog.Settings {
		if err := s.upsertSetting(ctx, setting); err != nil {
			return err
		}
	}

	s.logger.Info("catalog applied", map[string]interface{}{
		"types":    len(catalog.Types),
		"settings": len(catalog.Settings),
	})
	return nil
}

func (s *Seeder) upsertType(ctx context.Context, t TypeEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_types (id, code, name, category, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 ON CONFLICT (code)
		 DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category`,
		uuid.New().String(), t.Code, t.Name, t.Category,
	)
	if err != nil {
		return fmt.Errorf("seed type %s: %w", t.Code, err)
	}
	return nil
}

func (s *Seeder) upsertTemplate(ctx context.Context, typeCode string, tmpl TemplateEntry) error {
	if tmpl.Channel == models.ChannelEmail && tmpl.Subject == "" {
		return apperrors.NewSeedInvalidError(
			fmt.Sprintf("email template for %s is missing a subject", typeCode),
		)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_templates
		 (id, type_code, channel, subject, template_content, available_variables, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, true, now(), now())
		 ON CONFLICT (type_code, channel)
		 DO UPDATE SET subject = EXCLUDED.subject,
		               template_content = EXCLUDED.template_content,
		               available_variables = EXCLUDED.available_variables,
		               updated_at = now()`,
		uuid.New().String(), typeCode, tmpl.Channel, tmpl.Subject,
		tmpl.TemplateContent, pq.Array(tmpl.AvailableVariables),
	)
	if err != nil {
		return fmt.Errorf("seed template %s/%s: %w", typeCode, tmpl.Channel, err)
	}
	return nil
}

func (s *Seeder) upsertSetting(ctx context.Context, setting SettingsEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_settings (id, category, key, value, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 ON CONFLICT (category, key)
		 DO UPDATE SET value = EXCLUDED.value`,
		uuid.New().String(), setting.Category, setting.Key, setting.Value,
	)
	if err != nil {
		return fmt.Errorf("seed setting %s/%s: %w", setting.Category, setting.Key, err)
	}
	return nil
}
