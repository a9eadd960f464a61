package model

import "time"

// AttemptRecord tracks guarded attempts for one identifier inside the current
// window. A record whose window has fully elapsed is treated as absent.
type AttemptRecord struct {
	Count       int       `json:"count"`
	LastAttempt time.Time `json:"last_attempt"`
	LastReset   time.Time `json:"last_reset"`
}

// AttemptStatus is the limiter's answer for one identifier.
type AttemptStatus struct {
	Allowed     bool       `json:"allowed"`
	Remaining   int        `json:"remaining"`
	LockoutEnds *time.Time `json:"lockout_ends,omitempty"`
}
