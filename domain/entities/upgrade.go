package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UpgradeTarget is the reward class a staked collectible gambles for
type UpgradeTarget string

const (
	// UpgradeTargetStars pays out in currency on success
	UpgradeTargetStars UpgradeTarget = "stars"
	// UpgradeTargetRare gambles for a rare-tier item
	UpgradeTargetRare UpgradeTarget = "rare"
	// UpgradeTargetLegendary gambles for a legendary-tier item
	UpgradeTargetLegendary UpgradeTarget = "legendary"
)

// UpgradeStatus is the lifecycle state of a pending upgrade
type UpgradeStatus string

const (
	UpgradeStatusPending  UpgradeStatus = "pending"
	UpgradeStatusResolved UpgradeStatus = "resolved"
)

// UpgradeOutcome records how a resolved upgrade ended
type UpgradeOutcome string

const (
	UpgradeOutcomeWon  UpgradeOutcome = "won"
	UpgradeOutcomeLost UpgradeOutcome = "lost"
)

// Upgrade is a collectible held in escrow for a timed gamble. The staked
// collectible leaves the owner's inventory when the upgrade is created and
// is never returned; a snapshot of it lives on the upgrade record.
type Upgrade struct {
	ID               string          `db:"id"`
	UserID           string          `db:"user_id"`
	CollectibleID    string          `db:"collectible_id"`
	CollectibleName  string          `db:"collectible_name"`
	CollectibleValue int64           `db:"collectible_value"`
	Target           UpgradeTarget   `db:"target"`
	Status           UpgradeStatus   `db:"status"`
	Outcome          *UpgradeOutcome `db:"outcome"`
	CreatedAt        time.Time       `db:"created_at"`
	MaturesAt        time.Time       `db:"matures_at"`
	ResolvedAt       *time.Time      `db:"resolved_at"`
}

// NewUpgrade stakes a collectible for the given target. An empty target
// defaults to stars.
func NewUpgrade(userID string, collectible *Collectible, target UpgradeTarget, now time.Time, delay time.Duration) *Upgrade {
	if target == "" {
		target = UpgradeTargetStars
	}
	return &Upgrade{
		ID:               uuid.NewString(),
		UserID:           userID,
		CollectibleID:    collectible.ID,
		CollectibleName:  collectible.Name,
		CollectibleValue: collectible.Value,
		Target:           target,
		Status:           UpgradeStatusPending,
		CreatedAt:        now,
		MaturesAt:        now.Add(delay),
	}
}

// IsResolved returns true once the upgrade has reached its terminal state
func (u *Upgrade) IsResolved() bool {
	return u.Status == UpgradeStatusResolved
}

// IsMatured returns true when the maturation delay has elapsed
func (u *Upgrade) IsMatured(now time.Time) bool {
	return !now.Before(u.MaturesAt)
}

// Resolve transitions the upgrade to resolved with the given outcome.
// The transition happens exactly once and only after maturation.
func (u *Upgrade) Resolve(won bool, now time.Time) error {
	if u.IsResolved() {
		return errors.New("upgrade already resolved")
	}
	if !u.IsMatured(now) {
		return errors.New("upgrade has not matured yet")
	}
	outcome := UpgradeOutcomeLost
	if won {
		outcome = UpgradeOutcomeWon
	}
	u.Status = UpgradeStatusResolved
	u.Outcome = &outcome
	resolvedAt := now
	u.ResolvedAt = &resolvedAt
	return nil
}

// DisplayChance returns the success chance advertised to the player, in
// whole percent. The advertised number scales with target and staked value;
// actual resolution uses a flat probability regardless (see
// config.UpgradeSuccessProbability).
func (u *Upgrade) DisplayChance() int {
	base := 15
	switch u.Target {
	case UpgradeTargetRare:
		base = 10
	case UpgradeTargetLegendary:
		base = 5
	}

	valueBonus := int(u.CollectibleValue / 100)
	if valueBonus > 15 {
		valueBonus = 15
	}

	chance := base + valueBonus
	if chance > 30 {
		chance = 30
	}
	return chance
}
