// internal/settings/cached_test.go
package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"agency-notify/internal/common/logger"
	"agency-notify/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) (*CachedProvider, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewCachedProvider(db, cache, 5*time.Minute, logger.NewTestLogger(t)), mock, mr
}

func TestGetStringReadThrough(t *testing.T) {
	p, mock, mr := newTestProvider(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM app_settings").
		WithArgs("company", "name").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Shree Insurance Services"))

	got := p.GetString(ctx, "company", "name", "fallback")
	assert.Equal(t, "Shree Insurance Services", got)
	assert.NoError(t, mock.ExpectationsWereMet())

	cached, err := mr.Get("appsetting:company:name")
	require.NoError(t, err)
	assert.Equal(t, "Shree Insurance Services", cached)

	// Second read is served from the cache, no further query expected.
	got = p.GetString(ctx, "company", "name", "fallback")
	assert.Equal(t, "Shree Insurance Services", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStringAbsentReturnsDefault(t *testing.T) {
	p, mock, _ := newTestProvider(t)

	mock.ExpectQuery("SELECT value FROM app_settings").
		WithArgs("company", "tagline").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	got := p.GetString(context.Background(), "company", "tagline", "fallback")
	assert.Equal(t, "fallback", got)
}

func TestGetStringLookupFailureReturnsDefault(t *testing.T) {
	p, mock, _ := newTestProvider(t)

	mock.ExpectQuery("SELECT value FROM app_settings").
		WillReturnError(errors.New("connection refused"))

	got := p.GetString(context.Background(), "company", "name", "fallback")
	assert.Equal(t, "fallback", got)
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		def      bool
		expected bool
	}{
		{name: "true", stored: "true", def: false, expected: true},
		{name: "numeric one", stored: "1", def: false, expected: true},
		{name: "yes", stored: "yes", def: false, expected: true},
		{name: "false", stored: "false", def: true, expected: false},
		{name: "off", stored: "off", def: true, expected: false},
		{name: "garbage falls back to default", stored: "maybe", def: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock, _ := newTestProvider(t)

			mock.ExpectQuery("SELECT value FROM app_settings").
				WithArgs("notifications", "whatsapp_enabled").
				WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(tt.stored))

			got := p.GetBool(context.Background(), "notifications", "whatsapp_enabled", tt.def)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetBoolAbsentReturnsDefault(t *testing.T) {
	p, mock, _ := newTestProvider(t)

	mock.ExpectQuery("SELECT value FROM app_settings").
		WithArgs("notifications", "sms_enabled").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	assert.True(t, p.GetBool(context.Background(), "notifications", "sms_enabled", true))
	assert.False(t, p.GetBool(context.Background(), "notifications", "sms_enabled", false))
}

func TestSetBulkInvalidatesCache(t *testing.T) {
	p, mock, mr := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("appsetting:company:name", "Old Name"))
	require.NoError(t, mr.Set("unrelated:key", "survives"))

	mock.ExpectExec("INSERT INTO app_settings").
		WithArgs("company", "name", "New Name", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := p.SetBulk(ctx, []models.AppSetting{
		{Category: "company", Key: "name", Value: "New Name", IsActive: true},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.False(t, mr.Exists("appsetting:company:name"))
	assert.True(t, mr.Exists("unrelated:key"))
}

func TestGetStringCacheErrorFallsThroughToDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()
	defer cache.Close()

	p := NewCachedProvider(db, cache, 5*time.Minute, logger.NewNoOpLogger())

	cacheMock.ExpectGet("appsetting:company:name").SetErr(errors.New("connection pool timeout"))
	mock.ExpectQuery("SELECT value FROM app_settings").
		WithArgs("company", "name").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Shree Insurance Services"))
	cacheMock.ExpectSet("appsetting:company:name", "Shree Insurance Services", 5*time.Minute).
		SetErr(errors.New("connection pool timeout"))

	got := p.GetString(context.Background(), "company", "name", "fallback")
	assert.Equal(t, "Shree Insurance Services", got, "a degraded cache never hides the stored value")
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestStaticProvider(t *testing.T) {
	s := Static{
		"company/name":                   "Shree",
		"notifications/whatsapp_enabled": "false",
	}

	ctx := context.Background()
	assert.Equal(t, "Shree", s.GetString(ctx, "company", "name", "x"))
	assert.Equal(t, "x", s.GetString(ctx, "company", "missing", "x"))
	assert.False(t, s.GetBool(ctx, "notifications", "whatsapp_enabled", true))
	assert.True(t, s.GetBool(ctx, "notifications", "missing", true))
}
