package conversation

import (
	"fmt"
	"time"
)

// DateMarker prefixes every calendar option so the echoed selection can be
// told apart from free text.
const DateMarker = "📅"

// TimeSlots are the fixed appointment windows offered after a date is
// chosen. The classifier matches on these labels verbatim, so they must
// stay byte-for-byte stable.
var TimeSlots = []string{
	"10:00 AM - 12:00 PM",
	"12:30 PM - 3:00 PM",
	"3:30 PM - 5:30 PM",
}

var (
	weekdaysES = []string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthsES   = []string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// UpcomingDates walks forward from the day after now, skipping Sundays,
// until count dates are collected.
func UpcomingDates(now time.Time, count int) []time.Time {
	dates := make([]time.Time, 0, count)
	day := now
	for len(dates) < count {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, day)
	}
	return dates
}

// FormatDateES renders a date the way the calendar list shows it, e.g.
// "5 de septiembre (viernes)".
func FormatDateES(d time.Time) string {
	return fmt.Sprintf("%d de %s (%s)", d.Day(), monthsES[d.Month()-1], weekdaysES[d.Weekday()])
}

// MonthNamesES returns the Spanish month names, used to recognize an echoed
// calendar selection.
func MonthNamesES() []string {
	return monthsES
}
