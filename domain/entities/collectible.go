package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CollectibleOrigin describes how a collectible entered an inventory
type CollectibleOrigin string

const (
	// CollectibleOriginDeposited marks items transferred in by the user
	CollectibleOriginDeposited CollectibleOrigin = "deposited"
	// CollectibleOriginDrawReward marks items won on the prize wheel
	CollectibleOriginDrawReward CollectibleOrigin = "draw-reward"
)

// Collectible represents a single owned item. Instances are immutable after
// creation; they leave the inventory when staked into an upgrade or consumed
// by a withdrawal.
type Collectible struct {
	ID          string            `db:"id"`
	UserID      string            `db:"user_id"`
	Name        string            `db:"name"`
	Origin      CollectibleOrigin `db:"origin"`
	ExternalRef *string           `db:"external_ref"`
	Value       int64             `db:"value"`
	AcquiredAt  time.Time         `db:"acquired_at"`
}

// NewDepositedCollectible creates a collectible from an external deposit.
// Clients send raw image file names, so a trailing ".png" is stripped from
// the display name.
func NewDepositedCollectible(userID, name, externalRef string, value int64) *Collectible {
	return &Collectible{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSuffix(name, ".png"),
		Origin:      CollectibleOriginDeposited,
		ExternalRef: &externalRef,
		Value:       value,
		AcquiredAt:  time.Now().UTC(),
	}
}

// NewDrawReward creates a collectible won on the prize wheel
func NewDrawReward(userID, name string, value int64) *Collectible {
	return &Collectible{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Origin:     CollectibleOriginDrawReward,
		Value:      value,
		AcquiredAt: time.Now().UTC(),
	}
}

// Validate checks the collectible invariants
func (c *Collectible) Validate() error {
	if c.ID == "" {
		return errors.New("collectible ID must be set")
	}
	if c.UserID == "" {
		return errors.New("collectible owner must be set")
	}
	if c.Name == "" {
		return errors.New("collectible name must be set")
	}
	if c.Value <= 0 {
		return errors.New("collectible value must be positive")
	}
	if c.Origin == CollectibleOriginDeposited && c.ExternalRef == nil {
		return errors.New("deposited collectible must carry an external reference")
	}
	return nil
}
