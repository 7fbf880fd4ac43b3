package entities

import (
	"errors"
	"time"
)

// User represents a player account with its star balance
type User struct {
	ID                  string     `db:"id"`
	Balance             int64      `db:"balance"`
	EarnedReferralStars int64      `db:"earned_referral_stars"`
	LastFreeDrawAt      *time.Time `db:"last_free_draw_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// HasSufficientBalance checks if the user has sufficient balance for an amount
func (u *User) HasSufficientBalance(amount int64) bool {
	return u.Balance >= amount
}

// ValidateAmount checks if an amount is valid (positive and affordable)
func (u *User) ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !u.HasSufficientBalance(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// CanClaimFreeDraw reports whether the daily free draw is still available.
// The cap resets at local midnight.
func (u *User) CanClaimFreeDraw(now time.Time) bool {
	if u.LastFreeDrawAt == nil {
		return true
	}
	last := u.LastFreeDrawAt.In(now.Location())
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	return ly != ny || lm != nm || ld != nd
}

// CalculateNewBalance calculates what the balance would be after a change
func (u *User) CalculateNewBalance(changeAmount int64) int64 {
	return u.Balance + changeAmount
}
