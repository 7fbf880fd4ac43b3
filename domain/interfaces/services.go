package interfaces

import (
	"context"
	"time"

	"giftspin/domain/entities"
)

// DrawResult is the outcome of a single wheel draw
type DrawResult struct {
	Won        bool
	IsFree     bool
	Prize      *entities.Collectible
	NewBalance int64
}

// WithdrawResult is the outcome of a successful withdrawal
type WithdrawResult struct {
	Amount        int64
	ItemsConsumed int
	NewBalance    int64
}

// ReferralResult reports the referrer's standing after a referral call
type ReferralResult struct {
	TotalReferrals int
	EarnedStars    int64
	BonusGranted   bool
}

// LedgerService owns user balances and inventories
type LedgerService interface {
	// GetOrCreateUser returns the user, creating a zero-balance account on
	// first reference
	GetOrCreateUser(ctx context.Context, userID string) (*entities.User, error)

	// Credit adds stars to a user's balance. Missing users are created
	// first, mirroring GetOrCreateUser semantics.
	Credit(ctx context.Context, userID string, amount int64, txType entities.TransactionType, metadata map[string]any) (*entities.User, error)

	// Debit removes stars from a user's balance. Fails with
	// entities.ErrInsufficientFunds when the balance cannot cover the amount.
	Debit(ctx context.Context, userID string, amount int64, txType entities.TransactionType, metadata map[string]any) (*entities.User, error)

	// DepositCollectible adds an externally transferred item to the inventory
	DepositCollectible(ctx context.Context, userID, name, externalRef string) (*entities.Collectible, error)

	// Inventory returns the user's collectibles in acquisition order
	Inventory(ctx context.Context, userID string) ([]*entities.Collectible, error)

	// MarkFreeDrawUsed records the free-draw timestamp. The daily cap
	// itself is the transport layer's contract; see DrawService.
	MarkFreeDrawUsed(ctx context.Context, userID string, at time.Time) error
}

// DrawService executes probability-weighted wheel draws
type DrawService interface {
	// Draw performs a single trial. Paid draws debit the draw cost up
	// front; free draws do not touch the balance. The once-per-day free
	// draw eligibility is enforced by the caller using
	// entities.User.CanClaimFreeDraw and LedgerService.MarkFreeDrawUsed.
	Draw(ctx context.Context, userID string, isFree bool) (*DrawResult, error)
}

// UpgradeService manages the staked-collectible gamble lifecycle
type UpgradeService interface {
	// Stake escrows a collectible into a new pending upgrade
	Stake(ctx context.Context, userID, collectibleID string, target entities.UpgradeTarget) (*entities.Upgrade, error)

	// Resolve transitions a matured pending upgrade to its outcome.
	// Calling it on an unmatured or already resolved upgrade is a no-op.
	Resolve(ctx context.Context, upgrade *entities.Upgrade, now time.Time) (*entities.Upgrade, error)

	// ListForUser resolves any matured pending upgrades, then returns all
	// of the user's upgrades
	ListForUser(ctx context.Context, userID string, now time.Time) ([]*entities.Upgrade, error)

	// SweepMatured resolves every matured pending upgrade across all
	// users and returns how many were resolved
	SweepMatured(ctx context.Context, now time.Time) (int, error)
}

// WithdrawalService converts eligible collectibles back into stars
type WithdrawalService interface {
	Withdraw(ctx context.Context, userID string) (*WithdrawResult, error)
}

// ReferralService tracks invite edges and batch bonuses
type ReferralService interface {
	RecordReferral(ctx context.Context, referrerID, refereeID string) (*ReferralResult, error)
}
