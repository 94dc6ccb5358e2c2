package model

import "time"

const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

// Booking is a visitor's claim on a single (date, time) slot. At most one
// booking per (date, time) may hold StatusBooked at any instant; the
// storage layer enforces this with a unique partial index. Cancellation is
// terminal: a cancelled record never returns to booked, rebooking the same
// slot creates a new record.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Time      string    `json:"time" bson:"time" validate:"required,clock_hhmm"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty" validate:"omitempty,max=500"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=booked cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Active reports whether the booking currently holds its slot.
func (b *Booking) Active() bool {
	return b.Status == StatusBooked
}
