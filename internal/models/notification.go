// internal/models/notification.go
package models

import "time"

// Delivery channels.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
)

// Dispatch outcome statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// NotificationType is an immutable catalog entry, created by seeding.
type NotificationType struct {
	ID       string `json:"id"`
	Code     string `json:"code"` // e.g. "policy_created"
	Name     string `json:"name"`
	Category string `json:"category"` // policy | claim | quotation | customer | lead
	IsActive bool   `json:"isActive"`
}

// NotificationTemplate is channel-specific content for one notification type.
// Subject is only meaningful for the email channel.
type NotificationTemplate struct {
	ID                 string    `json:"id"`
	TypeCode           string    `json:"typeCode"`
	Channel            string    `json:"channel"`
	Subject            string    `json:"subject,omitempty"`
	TemplateContent    string    `json:"templateContent"`
	AvailableVariables []string  `json:"availableVariables"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NotificationLog is an append-only record of one dispatch attempt. It
// references the type code and channel but never the template row, so
// logs survive template edits and deletion.
type NotificationLog struct {
	ID              string    `json:"id"`
	TypeCode        string    `json:"typeCode"`
	Channel         string    `json:"channel"`
	Recipient       string    `json:"recipient"`
	Subject         string    `json:"subject,omitempty"`
	RenderedContent string    `json:"renderedContent"`
	Status          string    `json:"status"` // sent | failed
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
