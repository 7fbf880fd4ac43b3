package entities

import "errors"

// Domain error kinds surfaced to the transport layer. Callers match with
// errors.Is; services wrap them with additional context.
var (
	// ErrUserNotFound indicates the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrCollectibleNotFound indicates the collectible is not in the user's inventory
	ErrCollectibleNotFound = errors.New("collectible not found")

	// ErrDuplicateDeposit indicates the external reference was already deposited
	ErrDuplicateDeposit = errors.New("collectible already deposited")

	// ErrInsufficientFunds indicates the balance cannot cover the requested amount
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrIneligibleWithdrawal indicates the inventory does not meet withdrawal requirements
	ErrIneligibleWithdrawal = errors.New("withdrawal requirements not met")
)
