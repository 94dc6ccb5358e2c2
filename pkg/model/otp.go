package model

import "time"

// OtpChallenge is a one-time email-ownership challenge. Challenges are
// keyed by email (the document _id), so issuing a new code replaces any
// prior pending code for that address. A challenge is single-use: it is
// deleted on successful verification.
type OtpChallenge struct {
	Email     string    `json:"email" bson:"_id" validate:"required,email"`
	Code      string    `json:"-" bson:"code" validate:"required,len=6,numeric"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Expired reports whether the challenge is older than ttl at the given
// instant. Expiry is checked at verify time; the TTL index on created_at
// is only a janitor.
func (c *OtpChallenge) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.CreatedAt) > ttl
}
