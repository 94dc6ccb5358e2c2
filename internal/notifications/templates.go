package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"slotbook/pkg/model"
)

const bookingLayout = "2006-01-02 15:04"

var confirmedTmpl = template.Must(template.New("confirmed").Parse(`
<p>Hi {{.Name}},</p>
<p>Your appointment is confirmed for <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong>.</p>
{{if .Note}}<p>Your note: {{.Note}}</p>{{end}}
<p>A calendar invite is attached. If you need to change or cancel, reply to this email.</p>
`))

var reminderTmpl = template.Must(template.New("reminder").Parse(`
<p>Hi {{.Name}},</p>
<p>This is a reminder about your appointment on <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong> ({{.Remaining}}).</p>
{{if .Note}}<p>Your note: {{.Note}}</p>{{end}}
<p>If you need to change or cancel, reply to this email.</p>
`))

var otpTmpl = template.Must(template.New("otp").Parse(`
<p>Your verification code is:</p>
<p style="font-size:24px;letter-spacing:4px;"><strong>{{.Code}}</strong></p>
<p>The code is valid for {{.ValidFor}} and can be used once.</p>
<p>If you did not request this code, you can ignore this email.</p>
`))

var adminTmpl = template.Must(template.New("admin").Parse(`
<p>New booking: <strong>{{.Name}}</strong> ({{.Email}}) on <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong>.</p>
{{if .Note}}<p>Note: {{.Note}}</p>{{end}}
<p><a href="{{.DashboardURL}}">Open the dashboard</a></p>
`))

type RenderedEmail struct {
	Subject string
	Body    string
}

func RenderConfirmation(booking *model.Booking) (*RenderedEmail, error) {
	var buf bytes.Buffer
	if err := confirmedTmpl.Execute(&buf, booking); err != nil {
		return nil, fmt.Errorf("failed to render confirmation email: %w", err)
	}

	return &RenderedEmail{
		Subject: fmt.Sprintf("Booking confirmed for %s at %s", booking.Date, booking.Time),
		Body:    buf.String(),
	}, nil
}

func RenderReminder(booking *model.Booking, now time.Time) (*RenderedEmail, error) {
	data := struct {
		*model.Booking
		Remaining string
	}{
		Booking:   booking,
		Remaining: TimeRemaining(booking, now),
	}

	var buf bytes.Buffer
	if err := reminderTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render reminder email: %w", err)
	}

	return &RenderedEmail{
		Subject: fmt.Sprintf("Reminder: your appointment on %s at %s", booking.Date, booking.Time),
		Body:    buf.String(),
	}, nil
}

func RenderOtp(code string, validFor time.Duration) (*RenderedEmail, error) {
	data := struct {
		Code     string
		ValidFor string
	}{
		Code:     code,
		ValidFor: formatValidity(validFor),
	}

	var buf bytes.Buffer
	if err := otpTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render otp email: %w", err)
	}

	return &RenderedEmail{
		Subject: "Your verification code",
		Body:    buf.String(),
	}, nil
}

func RenderAdminNotice(booking *model.Booking, dashboardURL string) (*RenderedEmail, error) {
	data := struct {
		*model.Booking
		DashboardURL string
	}{
		Booking:      booking,
		DashboardURL: dashboardURL,
	}

	var buf bytes.Buffer
	if err := adminTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render admin notice: %w", err)
	}

	return &RenderedEmail{
		Subject: fmt.Sprintf("New booking on %s at %s", booking.Date, booking.Time),
		Body:    buf.String(),
	}, nil
}

// TimeRemaining phrases how far away the appointment is. The booking's
// wall-clock time is treated as local to the business.
func TimeRemaining(booking *model.Booking, now time.Time) string {
	start, err := time.ParseInLocation(bookingLayout, booking.Date+" "+booking.Time, now.Location())
	if err != nil {
		return "coming up"
	}

	diff := start.Sub(now)
	switch {
	case diff < 0:
		return "already started"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes <= 1 {
			return "in a minute"
		}
		return fmt.Sprintf("in %d minutes", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", hours)
	default:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "tomorrow"
		}
		return fmt.Sprintf("in %d days", days)
	}
}

func formatValidity(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
