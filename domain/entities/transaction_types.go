package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Draw-related transactions
	TransactionTypeDrawCost TransactionType = "draw_cost"

	// Upgrade transactions
	TransactionTypeUpgradeReward TransactionType = "upgrade_reward"

	// Withdrawal transactions
	TransactionTypeWithdrawalPayout TransactionType = "withdrawal_payout"

	// Referral transactions
	TransactionTypeReferralBonus TransactionType = "referral_bonus"

	// System transactions
	TransactionTypeInitial TransactionType = "initial"
)

// IsCredit returns true if the transaction type adds stars to the balance
func (tt TransactionType) IsCredit() bool {
	return tt == TransactionTypeUpgradeReward ||
		tt == TransactionTypeWithdrawalPayout ||
		tt == TransactionTypeReferralBonus
}

// IsDebit returns true if the transaction type removes stars from the balance
func (tt TransactionType) IsDebit() bool {
	return tt == TransactionTypeDrawCost
}

// IsSystemGenerated returns true if the transaction type is system-generated
func (tt TransactionType) IsSystemGenerated() bool {
	return tt == TransactionTypeInitial
}
