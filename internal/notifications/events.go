// Package notifications carries booking and OTP events from the API
// services to the notifier, which turns them into email.
package notifications

import (
	"time"

	"slotbook/pkg/model"
)

// Event types published to the notifications topic.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingReminder  = "booking.reminder"
	EventOtpRequested     = "otp.requested"
)

// Event is the wire payload for every notification. Booking is set for
// booking events, Code for OTP events.
type Event struct {
	Type       string         `json:"type"`
	Email      string         `json:"email"`
	Booking    *model.Booking `json:"booking,omitempty"`
	Code       string         `json:"code,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
