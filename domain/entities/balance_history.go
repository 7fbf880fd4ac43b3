package entities

import (
	"errors"
	"time"
)

// BalanceHistory represents a single balance change entry in the audit trail
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              string          `db:"user_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

// Validate checks that the entry is internally consistent
func (h *BalanceHistory) Validate() error {
	if h.UserID == "" {
		return errors.New("user ID must be set")
	}
	if h.ChangeAmount == 0 && h.TransactionType != TransactionTypeInitial {
		return errors.New("change amount cannot be zero")
	}
	if h.BalanceBefore+h.ChangeAmount != h.BalanceAfter {
		return errors.New("balance calculation is inconsistent")
	}
	return nil
}
