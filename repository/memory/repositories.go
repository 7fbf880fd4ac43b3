package memory

import (
	"context"
	"fmt"
	"time"

	"giftspin/domain/entities"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return nil, nil
	}
	return copyUser(user), nil
}

func (r *userRepository) Create(ctx context.Context, userID string) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := nowUTC()
	user := &entities.User{
		ID:        userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.store.users[userID] = user
	return copyUser(user), nil
}

func (r *userRepository) UpdateBalance(ctx context.Context, userID string, newBalance int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return entities.ErrUserNotFound
	}
	user.Balance = newBalance
	user.UpdatedAt = nowUTC()
	return nil
}

func (r *userRepository) AddEarnedReferralStars(ctx context.Context, userID string, amount int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return entities.ErrUserNotFound
	}
	user.EarnedReferralStars += amount
	user.UpdatedAt = nowUTC()
	return nil
}

func (r *userRepository) SetLastFreeDrawAt(ctx context.Context, userID string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return entities.ErrUserNotFound
	}
	user.LastFreeDrawAt = &at
	user.UpdatedAt = nowUTC()
	return nil
}

type collectibleRepository struct {
	store *Store
}

func (r *collectibleRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Collectible, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.collectibles[userID]
	out := make([]*entities.Collectible, len(items))
	copy(out, items)
	return out, nil
}

func (r *collectibleRepository) GetByID(ctx context.Context, userID, collectibleID string) (*entities.Collectible, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range r.store.collectibles[userID] {
		if item.ID == collectibleID {
			return item, nil
		}
	}
	return nil, nil
}

func (r *collectibleRepository) ExistsByExternalRef(ctx context.Context, userID, externalRef string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range r.store.collectibles[userID] {
		if item.ExternalRef != nil && *item.ExternalRef == externalRef {
			return true, nil
		}
	}
	return false, nil
}

func (r *collectibleRepository) Add(ctx context.Context, collectible *entities.Collectible) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *collectible
	r.store.collectibles[collectible.UserID] = append(r.store.collectibles[collectible.UserID], &c)
	return nil
}

func (r *collectibleRepository) Remove(ctx context.Context, userID, collectibleID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.collectibles[userID]
	for i, item := range items {
		if item.ID == collectibleID {
			r.store.collectibles[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return entities.ErrCollectibleNotFound
}

type upgradeRepository struct {
	store *Store
}

func (r *upgradeRepository) Create(ctx context.Context, upgrade *entities.Upgrade) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.upgrades[upgrade.UserID] = append(r.store.upgrades[upgrade.UserID], copyUpgrade(upgrade))
	return nil
}

func (r *upgradeRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Upgrade, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.upgrades[userID]
	out := make([]*entities.Upgrade, 0, len(items))
	for _, item := range items {
		out = append(out, copyUpgrade(item))
	}
	return out, nil
}

func (r *upgradeRepository) GetMaturedPending(ctx context.Context, now time.Time) ([]*entities.Upgrade, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entities.Upgrade
	for _, items := range r.store.upgrades {
		for _, item := range items {
			if item.Status == entities.UpgradeStatusPending && item.IsMatured(now) {
				out = append(out, copyUpgrade(item))
			}
		}
	}
	return out, nil
}

func (r *upgradeRepository) Update(ctx context.Context, upgrade *entities.Upgrade) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.upgrades[upgrade.UserID]
	for i, item := range items {
		if item.ID == upgrade.ID {
			items[i] = copyUpgrade(upgrade)
			return nil
		}
	}
	return fmt.Errorf("upgrade %s not found", upgrade.ID)
}

type referralRepository struct {
	store *Store
}

func (r *referralRepository) Exists(ctx context.Context, referrerID, refereeID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	edges, ok := r.store.referrals[referrerID]
	if !ok {
		return false, nil
	}
	_, ok = edges[refereeID]
	return ok, nil
}

func (r *referralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	edges, ok := r.store.referrals[referral.ReferrerID]
	if !ok {
		edges = make(map[string]*entities.Referral)
		r.store.referrals[referral.ReferrerID] = edges
	}
	c := *referral
	edges[referral.RefereeID] = &c
	return nil
}

func (r *referralRepository) CountByReferrer(ctx context.Context, referrerID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return len(r.store.referrals[referrerID]), nil
}

type balanceHistoryRepository struct {
	store *Store
}

func (r *balanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextHistoryID++
	c := *history
	c.ID = r.store.nextHistoryID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}
	r.store.history[history.UserID] = append(r.store.history[history.UserID], &c)
	history.ID = c.ID
	return nil
}

func (r *balanceHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*entities.BalanceHistory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.history[userID]
	out := make([]*entities.BalanceHistory, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		c := *items[i]
		out = append(out, &c)
	}
	return out, nil
}
