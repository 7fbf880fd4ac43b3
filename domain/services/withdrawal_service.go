package services

import (
	"context"
	"fmt"
	"math"

	"giftspin/config"
	"giftspin/domain/entities"
	"giftspin/domain/interfaces"
	"giftspin/domain/utils"

	log "github.com/sirupsen/logrus"
)

type withdrawalService struct {
	userRepo           interfaces.UserRepository
	collectibleRepo    interfaces.CollectibleRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	userRepo interfaces.UserRepository,
	collectibleRepo interfaces.CollectibleRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.WithdrawalService {
	return &withdrawalService{
		userRepo:           userRepo,
		collectibleRepo:    collectibleRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// Withdraw converts every eligible collectible into stars in one shot.
// There is no partial withdrawal: a successful call consumes all items at
// or above the value threshold.
func (s *withdrawalService) Withdraw(ctx context.Context, userID string) (*interfaces.WithdrawResult, error) {
	cfg := config.Get()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("withdraw for user %s: %w", userID, entities.ErrUserNotFound)
	}

	inventory, err := s.collectibleRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	var eligible []*entities.Collectible
	var totalValue int64
	for _, item := range inventory {
		if item.Value >= cfg.WithdrawalItemThreshold {
			eligible = append(eligible, item)
			totalValue += item.Value
		}
	}

	if len(inventory) < cfg.WithdrawalMinCount || len(eligible) < cfg.WithdrawalMinCount {
		return nil, fmt.Errorf("need at least %d collectibles worth %d stars each: %w",
			cfg.WithdrawalMinCount, cfg.WithdrawalItemThreshold, entities.ErrIneligibleWithdrawal)
	}
	if totalValue < cfg.WithdrawalMinTotal {
		return nil, fmt.Errorf("combined value %d below the %d star minimum: %w",
			totalValue, cfg.WithdrawalMinTotal, entities.ErrIneligibleWithdrawal)
	}

	payout := int64(math.Floor(float64(totalValue) * (1 - cfg.WithdrawalFeeRate)))

	for _, item := range eligible {
		if err := s.collectibleRepo.Remove(ctx, userID, item.ID); err != nil {
			return nil, fmt.Errorf("failed to consume collectible %s: %w", item.ID, err)
		}
	}

	newBalance := user.CalculateNewBalance(payout)
	if err := s.userRepo.UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to credit payout: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    payout,
		TransactionType: entities.TransactionTypeWithdrawalPayout,
		TransactionMetadata: map[string]any{
			"itemsConsumed": len(eligible),
			"totalValue":    totalValue,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":        userID,
		"payout":        payout,
		"itemsConsumed": len(eligible),
	}).Info("Withdrawal completed")

	return &interfaces.WithdrawResult{
		Amount:        payout,
		ItemsConsumed: len(eligible),
		NewBalance:    newBalance,
	}, nil
}
