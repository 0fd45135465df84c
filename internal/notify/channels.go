// internal/notify/channels.go
package notify

import (
	"context"
	"fmt"
	"time"

	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/common/metrics"
	"agency-notify/internal/common/observability"
	"agency-notify/internal/models"
)

// LogCreator is the append-only persistence boundary for dispatch records.
type LogCreator interface {
	CreateLog(ctx context.Context, entry *models.NotificationLog) error
}

// LogFinder resolves an existing log row, used by the resend flow.
type LogFinder interface {
	FindLog(ctx context.Context, id string) (*models.NotificationLog, error)
}

// LogMirror is the optional audit-search mirror for log rows.
type LogMirror interface {
	Index(ctx context.Context, entry *models.NotificationLog)
}

// ChannelResult is the outcome of one dispatch attempt on one channel.
type ChannelResult struct {
	Channel string                  `json:"channel"`
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Log     *models.NotificationLog `json:"log,omitempty"`
}

// FanoutResult aggregates independent per-channel dispatches.
type FanoutResult struct {
	ChannelsSucceeded []string                 `json:"channelsSucceeded"`
	Details           map[string]ChannelResult `json:"details"`
}

// ChannelManagerDeps wires the channel manager's collaborators.
type ChannelManagerDeps struct {
	Renderer      *TemplateService
	Logs          LogCreator
	LogFinder     LogFinder
	Mirror        LogMirror
	WhatsApp      WhatsAppSender
	Email         EmailSender
	SMS           SMSSender
	Observability *observability.Observability
	Logger        logger.Logger
}

// ChannelManager orchestrates render-then-dispatch across channels and
// guarantees a log row for every transport attempt.
type ChannelManager struct {
	renderer  *TemplateService
	logs      LogCreator
	logFinder LogFinder
	mirror    LogMirror
	whatsapp  WhatsAppSender
	email     EmailSender
	sms       SMSSender
	obs       *observability.Observability
	logger    logger.Logger
}

func NewChannelManager(deps ChannelManagerDeps) *ChannelManager {
	return &ChannelManager{
		renderer:  deps.Renderer,
		logs:      deps.Logs,
		logFinder: deps.LogFinder,
		mirror:    deps.Mirror,
		whatsapp:  deps.WhatsApp,
		email:     deps.Email,
		sms:       deps.SMS,
		obs:       deps.Observability,
		logger:    deps.Logger.WithFields(map[string]interface{}{"component": "channel-manager"}),
	}
}

// SendToChannel renders and dispatches one notification over one channel.
// Missing contact info and missing templates are expected outcomes: the
// result is a failure but no dispatch is attempted and no log is written.
// Once a transport is invoked, exactly one log row records the attempt.
func (m *ChannelManager) SendToChannel(ctx context.Context, channel, typeCode string, src Source) ChannelResult {
	recipient := src.Recipient()
	address := recipient.ContactFor(channel)
	if address == "" {
		metrics.NotificationsSkipped.WithLabelValues(channel, "no_recipient").Inc()
		m.logger.Info("dispatch skipped, recipient has no contact for channel", map[string]interface{}{
			"channel":  channel,
			"typeCode": typeCode,
			"source":   src.Kind.String(),
		})
		return ChannelResult{
			Channel: channel,
			Success: false,
			Message: apperrors.NewRecipientMissingError(channel).Message,
		}
	}

	msg, err := m.renderer.RenderFor(ctx, typeCode, channel, src)
	if err != nil {
		m.logger.Error("template lookup failed", map[string]interface{}{
			"channel":  channel,
			"typeCode": typeCode,
			"error":    err.Error(),
		})
		return ChannelResult{
			Channel: channel,
			Success: false,
			Message: err.Error(),
		}
	}
	if msg == nil {
		metrics.NotificationsSkipped.WithLabelValues(channel, "no_template").Inc()
		return ChannelResult{
			Channel: channel,
			Success: false,
			Message: apperrors.NewTemplateNotFoundError(typeCode, channel).Message,
		}
	}

	return m.deliver(ctx, channel, typeCode, address, msg.Subject, msg.Body)
}

// SendToAllChannels fans out to every requested channel independently. A
// failure on one channel never blocks the others.
func (m *ChannelManager) SendToAllChannels(ctx context.Context, typeCode string, src Source, channels []string) FanoutResult {
	result := FanoutResult{
		ChannelsSucceeded: []string{},
		Details:           make(map[string]ChannelResult, len(channels)),
	}

	for _, channel := range channels {
		res := m.SendToChannel(ctx, channel, typeCode, src)
		result.Details[channel] = res
		if res.Success {
			result.ChannelsSucceeded = append(result.ChannelsSucceeded, channel)
		}
	}

	return result
}

// Resend re-dispatches the content of an existing log row, producing a
// new log row for the new attempt. The original row is never mutated.
func (m *ChannelManager) Resend(ctx context.Context, logID string) (ChannelResult, error) {
	if m.logFinder == nil {
		return ChannelResult{}, fmt.Errorf("resend not available: log finder not configured")
	}
	prev, err := m.logFinder.FindLog(ctx, logID)
	if err != nil {
		return ChannelResult{}, err
	}
	if prev == nil {
		return ChannelResult{}, fmt.Errorf("notification log %s not found", logID)
	}

	return m.deliver(ctx, prev.Channel, prev.TypeCode, prev.Recipient, prev.Subject, prev.RenderedContent), nil
}

// deliver is the logging boundary: it invokes the transport, converts
// success or failure into exactly one log row, and never lets a transport
// error escape unrecorded.
func (m *ChannelManager) deliver(ctx context.Context, channel, typeCode, address, subject, body string) ChannelResult {
	start := time.Now()

	var sendErr error
	switch channel {
	case models.ChannelWhatsApp:
		if m.whatsapp == nil {
			sendErr = fmt.Errorf("whatsapp transport not configured")
		} else {
			sendErr = m.whatsapp.SendWhatsApp(ctx, address, body)
		}
	case models.ChannelEmail:
		if m.email == nil {
			sendErr = fmt.Errorf("email transport not configured")
		} else {
			sendErr = m.email.SendEmail(ctx, address, subject, body)
		}
	case models.ChannelSMS:
		if m.sms == nil {
			sendErr = fmt.Errorf("sms transport not configured")
		} else {
			sendErr = m.sms.SendSMS(ctx, address, body)
		}
	default:
		sendErr = apperrors.NewUnknownChannelError(channel)
	}

	elapsed := time.Since(start)
	metrics.TransportDuration.WithLabelValues(channel).Observe(elapsed.Seconds())

	entry := &models.NotificationLog{
		TypeCode:        typeCode,
		Channel:         channel,
		Recipient:       address,
		Subject:         subject,
		RenderedContent: body,
		Status:          models.StatusSent,
	}
	status := models.StatusSent
	if sendErr != nil {
		status = models.StatusFailed
		entry.Status = models.StatusFailed
		entry.Error = sendErr.Error()
	}

	if err := m.logs.CreateLog(ctx, entry); err != nil {
		// The attempt already happened; surface the log failure but keep
		// the dispatch outcome authoritative.
		m.logger.Error("notification log write failed", map[string]interface{}{
			"channel":   channel,
			"typeCode":  typeCode,
			"recipient": address,
			"error":     err.Error(),
		})
	} else if m.mirror != nil {
		m.mirror.Index(ctx, entry)
	}

	metrics.NotificationsDispatched.WithLabelValues(channel, status).Inc()
	if m.obs != nil {
		m.obs.RecordDispatch(ctx, channel, status)
		m.obs.RecordDispatchDuration(ctx, elapsed, channel)
	}

	if sendErr != nil {
		m.logger.Warn("dispatch failed", map[string]interface{}{
			"channel":   channel,
			"typeCode":  typeCode,
			"recipient": address,
			"error":     sendErr.Error(),
		})
		return ChannelResult{
			Channel: channel,
			Success: false,
			Message: sendErr.Error(),
			Log:     entry,
		}
	}

	m.logger.Info("dispatch sent", map[string]interface{}{
		"channel":   channel,
		"typeCode":  typeCode,
		"recipient": address,
	})
	return ChannelResult{
		Channel: channel,
		Success: true,
		Message: "sent",
		Log:     entry,
	}
}
