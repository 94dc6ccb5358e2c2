// Package sanitizer normalizes visitor-supplied free text before it is
// validated and stored.
package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

// NormalizeEmail lowercases and trims an address so case variants of the
// same mailbox collapse to one OTP challenge and one booking identity.
func NormalizeEmail(email string) string {
	p := Pipeline{trimAndLower}
	return p.Apply(email)
}
