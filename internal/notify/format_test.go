// internal/notify/format_test.go
package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{name: "zero", amount: 0, expected: "₹0"},
		{name: "under a thousand", amount: 950, expected: "₹950"},
		{name: "four digits", amount: 1500, expected: "₹1,500"},
		{name: "five digits", amount: 15000, expected: "₹15,000"},
		{name: "lakh", amount: 150000, expected: "₹1,50,000"},
		{name: "fifteen lakh", amount: 1500000, expected: "₹15,00,000"},
		{name: "crore", amount: 12345678, expected: "₹1,23,45,678"},
		{name: "paise round up", amount: 999.50, expected: "₹1,000"},
		{name: "paise round down", amount: 999.49, expected: "₹999"},
		{name: "negative", amount: -150000, expected: "-₹1,50,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatINR(tt.amount))
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "15-Mar-2025", FormatDate(d))

	single := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1-Jul-2025", FormatDate(single))
}

func TestFormatDatePtr(t *testing.T) {
	assert.Equal(t, "", FormatDatePtr(nil))

	d := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "31-Dec-2024", FormatDatePtr(&d))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, time.March, 15, 18, 45, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expiry   time.Time
		expected int
	}{
		{
			name:     "a week out",
			expiry:   time.Date(2025, time.March, 22, 0, 0, 0, 0, time.UTC),
			expected: 7,
		},
		{
			name:     "same day counts as zero",
			expiry:   time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "tomorrow regardless of time of day",
			expiry:   time.Date(2025, time.March, 16, 0, 1, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "already expired floors at zero",
			expiry:   time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysRemaining(tt.expiry, now))
		})
	}
}
