package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"slotbook/pkg/config"
	"slotbook/pkg/kafka"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

func testBooking() *model.Booking {
	return &model.Booking{
		ID:     "b-1",
		Name:   "Dana Visitor",
		Email:  "dana@example.com",
		Date:   "2026-09-10",
		Time:   "09:30",
		Note:   "first visit",
		Status: model.StatusBooked,
	}
}

func TestTimeRemaining(t *testing.T) {
	booking := testBooking()

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "days away",
			now:  time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC),
			want: "in 3 days",
		},
		{
			name: "tomorrow",
			now:  time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC),
			want: "tomorrow",
		},
		{
			name: "hours away",
			now:  time.Date(2026, 9, 10, 6, 30, 0, 0, time.UTC),
			want: "in 3 hours",
		},
		{
			name: "minutes away",
			now:  time.Date(2026, 9, 10, 9, 10, 0, 0, time.UTC),
			want: "in 20 minutes",
		},
		{
			name: "already started",
			now:  time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
			want: "already started",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeRemaining(booking, tt.now)
			if got != tt.want {
				t.Errorf("TimeRemaining(...) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderConfirmation(t *testing.T) {
	email, err := RenderConfirmation(testBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(email.Subject, "2026-09-10") || !strings.Contains(email.Subject, "09:30") {
		t.Errorf("subject missing slot details: %q", email.Subject)
	}
	if !strings.Contains(email.Body, "Dana Visitor") {
		t.Error("body missing visitor name")
	}
	if !strings.Contains(email.Body, "first visit") {
		t.Error("body missing visitor note")
	}
}

func TestRenderOtp(t *testing.T) {
	email, err := RenderOtp("482913", 10*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(email.Body, "482913") {
		t.Error("body missing code")
	}
	if !strings.Contains(email.Body, "10 minutes") {
		t.Error("body missing validity window")
	}
}

func TestBuildInvite(t *testing.T) {
	invite, err := BuildInvite(testBooking(), 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(invite)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:b-1@slotbook",
		"DTSTART:20260910T093000",
		"DTEND:20260910T101500",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("invite missing %q:\n%s", want, text)
		}
	}

	if !strings.HasSuffix(text, "\r\n") {
		t.Error("invite lines must use CRLF endings")
	}
}

func TestBuildInvite_EscapesNote(t *testing.T) {
	booking := testBooking()
	booking.Note = "allergies: nuts, shellfish; urgent"

	invite, err := BuildInvite(booking, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(invite)
	if !strings.Contains(text, `allergies: nuts\, shellfish\; urgent`) {
		t.Errorf("note not escaped:\n%s", text)
	}
}

// Mailer mock that records sends.
type recordingMailer struct {
	sends []recordedSend
	err   error
}

type recordedSend struct {
	to          string
	email       *RenderedEmail
	attachments []Attachment
}

func (m *recordingMailer) Send(to string, email *RenderedEmail, attachments ...Attachment) error {
	if m.err != nil {
		return m.err
	}
	m.sends = append(m.sends, recordedSend{to: to, email: email, attachments: attachments})
	return nil
}

func newWorkerTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	return &config.Config{
		Log:                 log,
		OtpTTL:              10 * time.Minute,
		DefaultSlotDuration: 30,
		AdminNotifyEmail:    "admin@example.com",
		DashboardURL:        "http://localhost:5173/admin/dashboard",
	}
}

func eventMessage(t *testing.T, event Event) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{
		Key:     event.Email,
		Value:   payload,
		Headers: map[string]string{},
	}
}

func TestWorker_ConfirmedSendsVisitorAndAdmin(t *testing.T) {
	mailer := &recordingMailer{}
	worker := NewWorker(mailer, newWorkerTestConfig())

	msg := eventMessage(t, Event{
		Type:    EventBookingConfirmed,
		Email:   "dana@example.com",
		Booking: testBooking(),
	})

	if err := worker.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailer.sends) != 2 {
		t.Fatalf("expected visitor and admin emails, got %d sends", len(mailer.sends))
	}

	visitor := mailer.sends[0]
	if visitor.to != "dana@example.com" {
		t.Errorf("first send to %q, want visitor", visitor.to)
	}
	if len(visitor.attachments) != 1 || visitor.attachments[0].Name != "invite.ics" {
		t.Error("expected calendar invite attached to visitor email")
	}

	admin := mailer.sends[1]
	if admin.to != "admin@example.com" {
		t.Errorf("second send to %q, want admin", admin.to)
	}
}

func TestWorker_SendFailureIsTransient(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("connection refused")}
	worker := NewWorker(mailer, newWorkerTestConfig())

	msg := eventMessage(t, Event{
		Type:  EventOtpRequested,
		Email: "dana@example.com",
		Code:  "482913",
	})

	err := worker.HandleMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error when mailer fails")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
		t.Errorf("expected transient classification, got %v", err)
	}
}

func TestWorker_MalformedEventIsPermanent(t *testing.T) {
	worker := NewWorker(&recordingMailer{}, newWorkerTestConfig())

	msg := kafka.Message{Key: "x", Value: []byte("{not json"), Headers: map[string]string{}}

	err := worker.HandleMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("expected permanent classification, got %v", err)
	}
}
