package interfaces

import (
	"context"
	"time"

	"giftspin/domain/entities"
	"giftspin/domain/events"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by their external identifier.
	// Returns (nil, nil) when the user does not exist.
	GetByID(ctx context.Context, userID string) (*entities.User, error)

	// Create creates a new user with a zero balance
	Create(ctx context.Context, userID string) (*entities.User, error)

	// UpdateBalance updates a user's balance
	UpdateBalance(ctx context.Context, userID string, newBalance int64) error

	// AddEarnedReferralStars accumulates the informational referral counter
	AddEarnedReferralStars(ctx context.Context, userID string, amount int64) error

	// SetLastFreeDrawAt records when the daily free draw was used
	SetLastFreeDrawAt(ctx context.Context, userID string, at time.Time) error
}

// CollectibleRepository defines the interface for inventory data access
type CollectibleRepository interface {
	// GetByUser returns the user's inventory in acquisition order
	GetByUser(ctx context.Context, userID string) ([]*entities.Collectible, error)

	// GetByID retrieves a single collectible owned by the user.
	// Returns (nil, nil) when not found.
	GetByID(ctx context.Context, userID, collectibleID string) (*entities.Collectible, error)

	// ExistsByExternalRef reports whether the user already deposited this reference
	ExistsByExternalRef(ctx context.Context, userID, externalRef string) (bool, error)

	// Add appends a collectible to the user's inventory
	Add(ctx context.Context, collectible *entities.Collectible) error

	// Remove deletes a collectible from the user's inventory
	Remove(ctx context.Context, userID, collectibleID string) error
}

// UpgradeRepository defines the interface for pending upgrade data access
type UpgradeRepository interface {
	// Create persists a new pending upgrade
	Create(ctx context.Context, upgrade *entities.Upgrade) error

	// GetByUser returns all upgrades of a user, oldest first
	GetByUser(ctx context.Context, userID string) ([]*entities.Upgrade, error)

	// GetMaturedPending returns pending upgrades whose maturation time has passed
	GetMaturedPending(ctx context.Context, now time.Time) ([]*entities.Upgrade, error)

	// Update persists the resolution state of an upgrade
	Update(ctx context.Context, upgrade *entities.Upgrade) error
}

// ReferralRepository defines the interface for referral edge data access
type ReferralRepository interface {
	// Exists reports whether the (referrer, referee) edge is already recorded
	Exists(ctx context.Context, referrerID, refereeID string) (bool, error)

	// Create records a new referral edge
	Create(ctx context.Context, referral *entities.Referral) error

	// CountByReferrer returns how many referees the referrer has invited
	CountByReferrer(ctx context.Context, referrerID string) (int, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByUser returns balance history for a specific user, newest first
	GetByUser(ctx context.Context, userID string, limit int) ([]*entities.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
