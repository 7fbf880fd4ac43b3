package entities

import (
	"errors"
	"time"
)

// Referral is an invite edge between two users. At most one edge exists per
// (referrer, referee) pair; the referee side is not globally unique, so the
// same invitee can be claimed by different referrers.
type Referral struct {
	ReferrerID string    `db:"referrer_id"`
	RefereeID  string    `db:"referee_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// Validate checks the referral invariants
func (r *Referral) Validate() error {
	if r.ReferrerID == "" || r.RefereeID == "" {
		return errors.New("referrer and referee must be set")
	}
	if r.ReferrerID == r.RefereeID {
		return errors.New("users cannot refer themselves")
	}
	return nil
}
