package notifications

import (
	"context"
	"time"

	"slotbook/pkg/config"
	"slotbook/pkg/kafka"
)

// Worker consumes notification events and turns them into email. Send
// failures are reported as transient so the consumer retries before the
// message lands in the DLQ; malformed events are permanent.
type Worker struct {
	mailer Mailer
	cfg    *config.Config
	now    func() time.Time
}

func NewWorker(mailer Mailer, cfg *config.Config) *Worker {
	return &Worker{
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// HandleMessage is the kafka.MessageHandler for the notifications topic.
func (w *Worker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode notification event", err)
	}

	switch event.Type {
	case EventBookingConfirmed:
		return w.handleConfirmed(event)
	case EventBookingReminder:
		return w.handleReminder(event)
	case EventOtpRequested:
		return w.handleOtp(event)
	default:
		w.cfg.Log.Warn("Unknown notification event type", "type", event.Type)
		return kafka.NewPermanentError("unknown event type "+event.Type, nil)
	}
}

func (w *Worker) handleConfirmed(event Event) error {
	if event.Booking == nil {
		return kafka.NewPermanentError("booking event without booking payload", nil)
	}

	email, err := RenderConfirmation(event.Booking)
	if err != nil {
		return kafka.NewPermanentError("failed to render confirmation", err)
	}

	var attachments []Attachment
	invite, err := BuildInvite(event.Booking, w.cfg.DefaultSlotDuration)
	if err != nil {
		w.cfg.Log.Warn("Failed to build calendar invite", "booking_id", event.Booking.ID, "error", err)
	} else {
		attachments = append(attachments, Attachment{
			Name:        "invite.ics",
			ContentType: "text/calendar; method=REQUEST",
			Content:     invite,
		})
	}

	if err := w.mailer.Send(event.Email, email, attachments...); err != nil {
		return kafka.NewTransientError("failed to send confirmation email", err)
	}
	w.cfg.Log.Info("Confirmation email sent", "email", event.Email, "booking_id", event.Booking.ID)

	w.notifyAdmin(event)
	return nil
}

func (w *Worker) handleReminder(event Event) error {
	if event.Booking == nil {
		return kafka.NewPermanentError("booking event without booking payload", nil)
	}

	email, err := RenderReminder(event.Booking, w.now())
	if err != nil {
		return kafka.NewPermanentError("failed to render reminder", err)
	}

	if err := w.mailer.Send(event.Email, email); err != nil {
		return kafka.NewTransientError("failed to send reminder email", err)
	}
	w.cfg.Log.Info("Reminder email sent", "email", event.Email, "booking_id", event.Booking.ID)
	return nil
}

func (w *Worker) handleOtp(event Event) error {
	if event.Code == "" {
		return kafka.NewPermanentError("otp event without code", nil)
	}

	email, err := RenderOtp(event.Code, w.cfg.OtpTTL)
	if err != nil {
		return kafka.NewPermanentError("failed to render otp email", err)
	}

	if err := w.mailer.Send(event.Email, email); err != nil {
		return kafka.NewTransientError("failed to send otp email", err)
	}
	w.cfg.Log.Info("Otp email sent", "email", event.Email)
	return nil
}

// notifyAdmin sends the admin a copy of new bookings. Best effort; the
// visitor's confirmation already went out.
func (w *Worker) notifyAdmin(event Event) {
	if w.cfg.AdminNotifyEmail == "" {
		return
	}

	notice, err := RenderAdminNotice(event.Booking, w.cfg.DashboardURL)
	if err != nil {
		w.cfg.Log.Warn("Failed to render admin notice", "error", err)
		return
	}

	if err := w.mailer.Send(w.cfg.AdminNotifyEmail, notice); err != nil {
		w.cfg.Log.Warn("Failed to send admin notice", "error", err)
	}
}
