// internal/notify/format.go
package notify

import (
	"math"
	"strconv"
	"time"
)

// FormatINR renders an amount as whole rupees with Indian digit grouping,
// e.g. 1500000 -> "₹15,00,000". Paise are rounded half away from zero.
func FormatINR(amount float64) string {
	rupees := int64(math.Round(math.Abs(amount)))
	digits := strconv.FormatInt(rupees, 10)

	// Last three digits form one group, everything before groups in twos.
	var grouped string
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		grouped = "," + digits[len(digits)-3:]
		for len(head) > 2 {
			grouped = "," + head[len(head)-2:] + grouped
			head = head[:len(head)-2]
		}
		grouped = head + grouped
	} else {
		grouped = digits
	}

	if amount < 0 {
		return "-₹" + grouped
	}
	return "₹" + grouped
}

// FormatDate renders a date as D-Mon-YYYY, e.g. 15-Mar-2025.
func FormatDate(t time.Time) string {
	return t.Format("2-Jan-2006")
}

// FormatDatePtr renders an optional date, empty when absent.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// DaysRemaining counts whole calendar days from now until expiry,
// floored at zero for dates already past.
func DaysRemaining(expiry, now time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(n).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
