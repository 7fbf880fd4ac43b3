package events

import "giftspin/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange   EventType = "balance_change"
	EventTypeUserCreated     EventType = "user_created"
	EventTypeCollectibleWon  EventType = "collectible_won"
	EventTypeUpgradeResolved EventType = "upgrade_resolved"
	EventTypeReferralBonus   EventType = "referral_bonus"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          string
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new user creation
type UserCreatedEvent struct {
	UserID string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// CollectibleWonEvent represents a prize won on the draw wheel
type CollectibleWonEvent struct {
	UserID        string
	CollectibleID string
	Name          string
	Value         int64
	IsFree        bool
}

func (e CollectibleWonEvent) Type() EventType {
	return EventTypeCollectibleWon
}

// UpgradeResolvedEvent represents a pending upgrade reaching its outcome
type UpgradeResolvedEvent struct {
	UpgradeID string
	UserID    string
	Target    entities.UpgradeTarget
	Won       bool
	Reward    int64
}

func (e UpgradeResolvedEvent) Type() EventType {
	return EventTypeUpgradeResolved
}

// ReferralBonusEvent represents a referral batch bonus grant
type ReferralBonusEvent struct {
	ReferrerID     string
	TotalReferrals int
	Bonus          int64
}

func (e ReferralBonusEvent) Type() EventType {
	return EventTypeReferralBonus
}
