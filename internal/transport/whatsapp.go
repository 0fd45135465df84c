// internal/transport/whatsapp.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"agency-notify/internal/common/config"
	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/common/http"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/models"
	"agency-notify/internal/settings"
)

// WhatsAppClient sends text messages through a WhatsApp Business Cloud
// API gateway. The channel toggle is checked here, at the transport, so a
// disabled channel produces a recorded failure instead of a silent skip.
type WhatsAppClient struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
	settings      settings.Provider
	logger        logger.Logger
}

func NewWhatsAppClient(cfg config.Config, provider settings.Provider, log logger.Logger) *WhatsAppClient {
	wa := cfg.Integrations.WhatsApp
	return &WhatsAppClient{
		baseURL:       wa.BaseURL,
		phoneNumberID: wa.PhoneNumberID,
		accessToken:   wa.AccessToken,
		httpClient:    http.NewClient(time.Duration(wa.Timeout) * time.Millisecond),
		settings:      provider,
		logger:        log.WithFields(map[string]interface{}{"transport": "whatsapp"}),
	}
}

type whatsAppTextPayload struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             whatsAppTextBody `json:"text"`
}

type whatsAppTextBody struct {
	Body string `json:"body"`
}

// SendWhatsApp posts one text message to the gateway.
func (c *WhatsAppClient) SendWhatsApp(ctx context.Context, number, text string) error {
	if !c.settings.GetBool(ctx, models.SettingCategoryNotifications, models.SettingKeyWhatsAppEnabled, true) {
		return apperrors.NewChannelDisabledError(models.ChannelWhatsApp)
	}

	payload, err := json.Marshal(whatsAppTextPayload{
		MessagingProduct: "whatsapp",
		To:               number,
		Type:             "text",
		Text:             whatsAppTextBody{Body: text},
	})
	if err != nil {
		return apperrors.NewWhatsAppSendError(err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := nethttp.NewRequest(nethttp.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewWhatsAppSendError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return apperrors.NewWhatsAppSendError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewWhatsAppSendError(
			fmt.Errorf("whatsapp API returned %d: %s", resp.StatusCode, string(body)),
		)
	}

	c.logger.Debug("whatsapp message accepted", map[string]interface{}{
		"to": number,
	})
	return nil
}
