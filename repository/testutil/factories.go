package testutil

import (
	"time"

	"giftspin/domain/entities"

	"github.com/google/uuid"
)

// CreateTestCollectible creates a deposited collectible with default values
func CreateTestCollectible(userID, name string) *entities.Collectible {
	ref := uuid.NewString()
	return &entities.Collectible{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Origin:      entities.CollectibleOriginDeposited,
		ExternalRef: &ref,
		Value:       250,
		AcquiredAt:  time.Now().UTC(),
	}
}

// CreateTestCollectibleWithValue creates a deposited collectible with a specific value
func CreateTestCollectibleWithValue(userID, name string, value int64) *entities.Collectible {
	collectible := CreateTestCollectible(userID, name)
	collectible.Value = value
	return collectible
}

// CreateTestDrawReward creates a collectible without an external reference,
// as the draw wheel would
func CreateTestDrawReward(userID, name string, value int64) *entities.Collectible {
	return &entities.Collectible{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Origin:     entities.CollectibleOriginDrawReward,
		Value:      value,
		AcquiredAt: time.Now().UTC(),
	}
}

// CreateTestUpgrade creates a pending upgrade maturing at the given time
func CreateTestUpgrade(userID string, target entities.UpgradeTarget, maturesAt time.Time) *entities.Upgrade {
	return &entities.Upgrade{
		ID:               uuid.NewString(),
		UserID:           userID,
		CollectibleID:    uuid.NewString(),
		CollectibleName:  "Crystal Ball",
		CollectibleValue: 250,
		Target:           target,
		Status:           entities.UpgradeStatusPending,
		CreatedAt:        maturesAt.Add(-5 * time.Hour),
		MaturesAt:        maturesAt,
	}
}

// CreateTestBalanceHistory creates a balance history entry with consistent amounts
func CreateTestBalanceHistory(userID string, before, change int64, txType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    before + change,
		ChangeAmount:    change,
		TransactionType: txType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now().UTC(),
	}
}
