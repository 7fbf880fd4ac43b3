package application

import (
	"context"

	"giftspin/domain/interfaces"
)

// UnitOfWork defines the transaction boundary for a single request. Every
// mutating operation of the core runs inside one unit of work so its
// read-modify-write steps are atomic.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	CollectibleRepository() interfaces.CollectibleRepository
	UpgradeRepository() interfaces.UpgradeRepository
	ReferralRepository() interfaces.ReferralRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository

	// EventBus returns the publisher that stashes events until commit
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
