// internal/models/setting.go
package models

// AppSetting is process-wide configuration keyed by (category, key).
// Values are stored as strings; typed reads are the settings provider's job.
type AppSetting struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	IsActive bool   `json:"isActive"`
}

// Well-known setting categories and keys consumed by the notification core.
const (
	SettingCategoryCompany       = "company"
	SettingCategoryNotifications = "notifications"

	SettingKeyCompanyName    = "name"
	SettingKeyCompanyPhone   = "phone"
	SettingKeyCompanyWebsite = "website"
	SettingKeyPortalURL      = "portal_url"

	SettingKeyWhatsAppEnabled = "whatsapp_enabled"
	SettingKeyEmailEnabled    = "email_enabled"
	SettingKeySMSEnabled      = "sms_enabled"
)
