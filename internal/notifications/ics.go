package notifications

import (
	"fmt"
	"strings"
	"time"

	"slotbook/pkg/model"
)

const icsStampLayout = "20060102T150405"

// BuildInvite renders an iCalendar invite for the booking. Times are
// written as floating local time, matching how slots are stored.
func BuildInvite(booking *model.Booking, durationMinutes int) ([]byte, error) {
	start, err := time.Parse(bookingLayout, booking.Date+" "+booking.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking time: %w", err)
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	summary := "Appointment"
	description := ""
	if booking.Note != "" {
		description = escapeText(booking.Note)
	}

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//slotbook//EN")
	writeLine("METHOD:REQUEST")
	writeLine("BEGIN:VEVENT")
	writeLine("UID:" + booking.ID + "@slotbook")
	writeLine("DTSTAMP:" + time.Now().UTC().Format(icsStampLayout) + "Z")
	writeLine("DTSTART:" + start.Format(icsStampLayout))
	writeLine("DTEND:" + end.Format(icsStampLayout))
	writeLine("SUMMARY:" + summary)
	if description != "" {
		writeLine("DESCRIPTION:" + description)
	}
	writeLine("ATTENDEE;CN=" + escapeText(booking.Name) + ":mailto:" + booking.Email)
	writeLine("STATUS:CONFIRMED")
	writeLine("END:VEVENT")
	writeLine("END:VCALENDAR")

	return []byte(b.String()), nil
}

// escapeText escapes the characters RFC 5545 reserves in text values.
func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
