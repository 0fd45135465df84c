// internal/notify/transports.go
package notify

import "context"

// The external send capabilities. Implementations either return nil on
// acceptance or an error; the channel manager converts both outcomes into
// a log row. Channel-enabled toggles are enforced inside the transports
// so a disabled channel still produces a recorded failure.

type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, number, text string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, address, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, number, text string) error
}
