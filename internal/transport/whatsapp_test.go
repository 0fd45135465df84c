// internal/transport/whatsapp_test.go
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agency-notify/internal/common/config"
	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWhatsAppClient(t *testing.T, baseURL string, provider settings.Provider) *WhatsAppClient {
	t.Helper()
	var cfg config.Config
	cfg.Integrations.WhatsApp.BaseURL = baseURL
	cfg.Integrations.WhatsApp.PhoneNumberID = "100200300"
	cfg.Integrations.WhatsApp.AccessToken = "test-token"
	cfg.Integrations.WhatsApp.Timeout = 5000
	return NewWhatsAppClient(cfg, provider, logger.NewTestLogger(t))
}

func TestSendWhatsApp(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newWhatsAppClient(t, server.URL, settings.Static{})

	err := client.SendWhatsApp(context.Background(), "+919876543210", "Welcome John!")
	require.NoError(t, err)

	assert.Equal(t, "/100200300/messages", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "whatsapp", gotPayload["messaging_product"])
	assert.Equal(t, "+919876543210", gotPayload["to"])
	assert.Equal(t, "text", gotPayload["type"])
	assert.Equal(t, map[string]interface{}{"body": "Welcome John!"}, gotPayload["text"])
}

func TestSendWhatsAppGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid token"}`))
	}))
	defer server.Close()

	client := newWhatsAppClient(t, server.URL, settings.Static{})

	err := client.SendWhatsApp(context.Background(), "+919876543210", "hi")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeWhatsAppSend, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestSendWhatsAppDisabledChannel(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer server.Close()

	provider := settings.Static{"notifications/whatsapp_enabled": "false"}
	client := newWhatsAppClient(t, server.URL, provider)

	err := client.SendWhatsApp(context.Background(), "+919876543210", "hi")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeChannelDisabled, apperrors.CodeOf(err))
	assert.False(t, apperrors.IsRetryable(err))
	assert.False(t, called, "disabled channel never reaches the gateway")
}

func TestSendWhatsAppEnabledByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// No toggle stored: the channel defaults to enabled.
	client := newWhatsAppClient(t, server.URL, settings.Static{})
	assert.NoError(t, client.SendWhatsApp(context.Background(), "+919876543210", "hi"))
}
