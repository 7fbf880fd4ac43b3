package services

import (
	"context"
	"fmt"
	"time"

	"giftspin/config"
	"giftspin/domain/entities"
	"giftspin/domain/events"
	"giftspin/domain/interfaces"
	"giftspin/domain/utils"

	log "github.com/sirupsen/logrus"
)

type upgradeService struct {
	userRepo           interfaces.UserRepository
	collectibleRepo    interfaces.CollectibleRepository
	upgradeRepo        interfaces.UpgradeRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	rand               interfaces.Rand
}

// NewUpgradeService creates a new upgrade service
func NewUpgradeService(
	userRepo interfaces.UserRepository,
	collectibleRepo interfaces.CollectibleRepository,
	upgradeRepo interfaces.UpgradeRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	rand interfaces.Rand,
) interfaces.UpgradeService {
	return &upgradeService{
		userRepo:           userRepo,
		collectibleRepo:    collectibleRepo,
		upgradeRepo:        upgradeRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		rand:               rand,
	}
}

func (s *upgradeService) Stake(ctx context.Context, userID, collectibleID string, target entities.UpgradeTarget) (*entities.Upgrade, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("stake for user %s: %w", userID, entities.ErrUserNotFound)
	}

	collectible, err := s.collectibleRepo.GetByID(ctx, userID, collectibleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collectible: %w", err)
	}
	if collectible == nil {
		return nil, fmt.Errorf("stake collectible %s: %w", collectibleID, entities.ErrCollectibleNotFound)
	}

	now := time.Now().UTC()
	upgrade := entities.NewUpgrade(userID, collectible, target, now, config.Get().UpgradeDelay)

	// Ownership transfers to the upgrade record; the snapshot on the
	// upgrade is all that survives of the collectible
	if err := s.collectibleRepo.Remove(ctx, userID, collectibleID); err != nil {
		return nil, fmt.Errorf("failed to remove staked collectible: %w", err)
	}
	if err := s.upgradeRepo.Create(ctx, upgrade); err != nil {
		return nil, fmt.Errorf("failed to create upgrade: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":    userID,
		"upgradeID": upgrade.ID,
		"target":    upgrade.Target,
		"maturesAt": upgrade.MaturesAt,
	}).Info("Collectible staked for upgrade")

	return upgrade, nil
}

// Resolve transitions a matured pending upgrade to its outcome. It is safe
// to call on any upgrade: unmatured and already resolved upgrades are
// returned unchanged.
func (s *upgradeService) Resolve(ctx context.Context, upgrade *entities.Upgrade, now time.Time) (*entities.Upgrade, error) {
	if upgrade.IsResolved() || !upgrade.IsMatured(now) {
		return upgrade, nil
	}

	cfg := config.Get()

	// Resolution uses the flat probability regardless of target or staked
	// value; DisplayChance is marketing only
	won := s.rand.Float64() < cfg.UpgradeSuccessProbability
	if err := upgrade.Resolve(won, now); err != nil {
		return nil, fmt.Errorf("failed to resolve upgrade %s: %w", upgrade.ID, err)
	}
	if err := s.upgradeRepo.Update(ctx, upgrade); err != nil {
		return nil, fmt.Errorf("failed to persist upgrade resolution: %w", err)
	}

	var reward int64
	if won && upgrade.Target == entities.UpgradeTargetStars {
		reward = cfg.UpgradeStarsReward
		if err := s.creditReward(ctx, upgrade, reward); err != nil {
			return nil, err
		}
	}
	// Rare and legendary targets record the win but grant nothing

	log.WithFields(log.Fields{
		"upgradeID": upgrade.ID,
		"userID":    upgrade.UserID,
		"target":    upgrade.Target,
		"won":       won,
		"reward":    reward,
	}).Info("Upgrade resolved")

	event := events.UpgradeResolvedEvent{
		UpgradeID: upgrade.ID,
		UserID:    upgrade.UserID,
		Target:    upgrade.Target,
		Won:       won,
		Reward:    reward,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish upgrade resolved event")
	}

	return upgrade, nil
}

func (s *upgradeService) creditReward(ctx context.Context, upgrade *entities.Upgrade, reward int64) error {
	user, err := s.userRepo.GetByID(ctx, upgrade.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user for upgrade reward: %w", err)
	}
	if user == nil {
		return fmt.Errorf("upgrade reward for user %s: %w", upgrade.UserID, entities.ErrUserNotFound)
	}

	newBalance := user.CalculateNewBalance(reward)
	if err := s.userRepo.UpdateBalance(ctx, upgrade.UserID, newBalance); err != nil {
		return fmt.Errorf("failed to credit upgrade reward: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          upgrade.UserID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    reward,
		TransactionType: entities.TransactionTypeUpgradeReward,
		TransactionMetadata: map[string]any{
			"upgradeID":   upgrade.ID,
			"collectible": upgrade.CollectibleName,
		},
	}
	return utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history)
}

// ListForUser resolves every matured pending upgrade of the user before
// returning the list, so polling alone is enough to land outcomes; the
// sweep worker only makes them land without a poll.
func (s *upgradeService) ListForUser(ctx context.Context, userID string, now time.Time) ([]*entities.Upgrade, error) {
	upgrades, err := s.upgradeRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list upgrades: %w", err)
	}

	for i, upgrade := range upgrades {
		resolved, err := s.Resolve(ctx, upgrade, now)
		if err != nil {
			return nil, err
		}
		upgrades[i] = resolved
	}

	return upgrades, nil
}

func (s *upgradeService) SweepMatured(ctx context.Context, now time.Time) (int, error) {
	matured, err := s.upgradeRepo.GetMaturedPending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to query matured upgrades: %w", err)
	}

	resolved := 0
	for _, upgrade := range matured {
		if _, err := s.Resolve(ctx, upgrade, now); err != nil {
			return resolved, err
		}
		resolved++
	}

	return resolved, nil
}
