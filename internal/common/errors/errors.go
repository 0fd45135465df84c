// Package errors provides standardized error handling for the notification engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeTemplateNotFound  ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateLookup    ErrorCode = "TEMPLATE_LOOKUP_FAILED"
	ErrCodeRecipientMissing  ErrorCode = "RECIPIENT_MISSING"
	ErrCodeChannelDisabled   ErrorCode = "CHANNEL_DISABLED"
	ErrCodeUnknownChannel    ErrorCode = "UNKNOWN_CHANNEL"
	ErrCodeWhatsAppSend      ErrorCode = "WHATSAPP_SEND_FAILED"
	ErrCodeEmailSend         ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeSMSSend           ErrorCode = "SMS_SEND_FAILED"
	ErrCodeSettingsLookup    ErrorCode = "SETTINGS_LOOKUP_FAILED"
	ErrCodeDatabaseInsert    ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeSeedInvalid       ErrorCode = "SEED_CATALOG_INVALID"
	ErrCodeLogIndexingFailed ErrorCode = "LOG_INDEXING_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from an error chain, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return "INTERNAL_ERROR"
}

// IsRetryable reports whether err can be retried by the caller.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewTemplateNotFoundError creates a non-retryable template error.
func NewTemplateNotFoundError(typeCode, channel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "No active template for notification type and channel",
		Details:   fmt.Sprintf("typeCode: %s, channel: %s", typeCode, channel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateLookupError creates a retryable database error.
func NewTemplateLookupError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateLookup,
		Message:   "Database error during template lookup",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecipientMissingError creates a non-retryable contact error.
func NewRecipientMissingError(channel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecipientMissing,
		Message:   "Recipient has no contact address for channel",
		Details:   fmt.Sprintf("channel: %s", channel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewChannelDisabledError creates a non-retryable channel toggle error.
func NewChannelDisabledError(channel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeChannelDisabled,
		Message:   "Channel is disabled in app settings",
		Details:   fmt.Sprintf("channel: %s", channel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownChannelError creates a non-retryable error for unrecognized channels.
func NewUnknownChannelError(channel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownChannel,
		Message:   "Unknown notification channel",
		Details:   fmt.Sprintf("channel: %s", channel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWhatsAppSendError creates a retryable transport error.
func NewWhatsAppSendError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWhatsAppSend,
		Message:   "WhatsApp API call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendError creates a retryable transport error.
func NewEmailSendError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSend,
		Message:   "Email send failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSMSSendError creates a retryable transport error.
func NewSMSSendError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSMSSend,
		Message:   "SMS publish failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSettingsLookupError creates a retryable settings store error.
func NewSettingsLookupError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSettingsLookup,
		Message:   "App settings lookup failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertError creates a retryable insert error.
func NewDatabaseInsertError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsert,
		Message:   "Database insert failed",
		Details:   fmt.Sprintf("table: %s, error: %v", table, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSeedInvalidError creates a non-retryable seed catalog error.
func NewSeedInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSeedInvalid,
		Message:   "Notification catalog failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
