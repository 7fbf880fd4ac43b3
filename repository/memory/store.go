// Package memory provides an in-memory implementation of the domain
// repositories backed by a process-wide object map. A single mutex
// serializes every operation, which gives each read-modify-write call the
// atomicity the core contract requires. It backs the no-database mode and
// the service-level tests.
package memory

import (
	"sync"
	"time"

	"giftspin/domain/entities"
	"giftspin/domain/interfaces"
)

// Store holds all per-user state behind one lock
type Store struct {
	mu            sync.Mutex
	users         map[string]*entities.User
	collectibles  map[string][]*entities.Collectible
	upgrades      map[string][]*entities.Upgrade
	referrals     map[string]map[string]*entities.Referral
	history       map[string][]*entities.BalanceHistory
	nextHistoryID int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users:        make(map[string]*entities.User),
		collectibles: make(map[string][]*entities.Collectible),
		upgrades:     make(map[string][]*entities.Upgrade),
		referrals:    make(map[string]map[string]*entities.Referral),
		history:      make(map[string][]*entities.BalanceHistory),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() interfaces.UserRepository {
	return &userRepository{store: s}
}

// Collectibles returns the collectible repository view of the store
func (s *Store) Collectibles() interfaces.CollectibleRepository {
	return &collectibleRepository{store: s}
}

// Upgrades returns the upgrade repository view of the store
func (s *Store) Upgrades() interfaces.UpgradeRepository {
	return &upgradeRepository{store: s}
}

// Referrals returns the referral repository view of the store
func (s *Store) Referrals() interfaces.ReferralRepository {
	return &referralRepository{store: s}
}

// BalanceHistory returns the balance history repository view of the store
func (s *Store) BalanceHistory() interfaces.BalanceHistoryRepository {
	return &balanceHistoryRepository{store: s}
}

func copyUser(u *entities.User) *entities.User {
	c := *u
	if u.LastFreeDrawAt != nil {
		at := *u.LastFreeDrawAt
		c.LastFreeDrawAt = &at
	}
	return &c
}

func copyUpgrade(u *entities.Upgrade) *entities.Upgrade {
	c := *u
	if u.Outcome != nil {
		outcome := *u.Outcome
		c.Outcome = &outcome
	}
	if u.ResolvedAt != nil {
		at := *u.ResolvedAt
		c.ResolvedAt = &at
	}
	return &c
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
