// internal/store/templates_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"agency-notify/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindActiveTemplate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTemplateStore(db)
	created := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "type_code", "channel", "subject", "template_content",
		"available_variables", "is_active", "created_at", "updated_at",
	}).AddRow(
		"tmpl-1", "policy_created", "whatsapp", "", "Dear {{customer_name}}",
		"{customer_name,policy_number}", true, created, created,
	)

	mock.ExpectQuery("SELECT t.id, t.type_code").
		WithArgs("policy_created", "whatsapp").
		WillReturnRows(rows)

	tmpl, err := store.FindActiveTemplate(context.Background(), "policy_created", "whatsapp")
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Equal(t, "policy_created", tmpl.TypeCode)
	assert.Equal(t, models.ChannelWhatsApp, tmpl.Channel)
	assert.Equal(t, "Dear {{customer_name}}", tmpl.TemplateContent)
	assert.Equal(t, []string{"customer_name", "policy_number"}, tmpl.AvailableVariables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveTemplateNotConfigured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTemplateStore(db)

	mock.ExpectQuery("SELECT t.id, t.type_code").
		WithArgs("policy_created", "sms").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "type_code", "channel", "subject", "template_content",
			"available_variables", "is_active", "created_at", "updated_at",
		}))

	tmpl, err := store.FindActiveTemplate(context.Background(), "policy_created", "sms")
	assert.NoError(t, err, "an unconfigured template is not an error")
	assert.Nil(t, tmpl)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveTemplateQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTemplateStore(db)

	mock.ExpectQuery("SELECT t.id, t.type_code").
		WillReturnError(errors.New("connection reset"))

	tmpl, err := store.FindActiveTemplate(context.Background(), "policy_created", "whatsapp")
	assert.Error(t, err)
	assert.Nil(t, tmpl)
}

func TestFindType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTemplateStore(db)

	mock.ExpectQuery("SELECT id, code, name, category, is_active").
		WithArgs("policy_created").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "category", "is_active"}).
			AddRow("type-1", "policy_created", "Policy Created", "policy", true))

	nt, err := store.FindType(context.Background(), "policy_created")
	require.NoError(t, err)
	require.NotNil(t, nt)
	assert.Equal(t, "Policy Created", nt.Name)
	assert.True(t, nt.IsActive)

	mock.ExpectQuery("SELECT id, code, name, category, is_active").
		WithArgs("unknown_type").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "category", "is_active"}))

	nt, err = store.FindType(context.Background(), "unknown_type")
	assert.NoError(t, err)
	assert.Nil(t, nt)
}

func TestDeactivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTemplateStore(db)

	mock.ExpectExec("UPDATE notification_templates SET is_active = false").
		WithArgs("tmpl-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Deactivate(context.Background(), "tmpl-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
