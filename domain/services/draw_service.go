package services

import (
	"context"
	"fmt"

	"giftspin/config"
	"giftspin/domain/entities"
	"giftspin/domain/events"
	"giftspin/domain/interfaces"
	"giftspin/domain/utils"

	log "github.com/sirupsen/logrus"
)

// prizeTable lists the collectibles a winning draw can award
var prizeTable = []string{
	"Astral Shard", "B-Day Candle", "Berry Box", "Crystal Ball",
	"Diamond Ring", "Eternal Rose", "Gem Signet", "Magic Potion",
}

type drawService struct {
	userRepo           interfaces.UserRepository
	collectibleRepo    interfaces.CollectibleRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	rand               interfaces.Rand
}

// NewDrawService creates a new draw service
func NewDrawService(
	userRepo interfaces.UserRepository,
	collectibleRepo interfaces.CollectibleRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	rand interfaces.Rand,
) interfaces.DrawService {
	return &drawService{
		userRepo:           userRepo,
		collectibleRepo:    collectibleRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		rand:               rand,
	}
}

// Draw performs a single wheel trial. The once-per-day free draw cap is the
// caller's contract: the transport layer checks User.CanClaimFreeDraw and
// records usage via LedgerService.MarkFreeDrawUsed after granting a free
// draw. Nothing here double-checks it.
func (s *drawService) Draw(ctx context.Context, userID string, isFree bool) (*interfaces.DrawResult, error) {
	cfg := config.Get()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("draw for user %s: %w", userID, entities.ErrUserNotFound)
	}

	balance := user.Balance
	if !isFree {
		if err := user.ValidateAmount(cfg.DrawCost); err != nil {
			return nil, fmt.Errorf("paid draw for user %s: %w", userID, err)
		}

		balance = user.CalculateNewBalance(-cfg.DrawCost)
		if err := s.userRepo.UpdateBalance(ctx, userID, balance); err != nil {
			return nil, fmt.Errorf("failed to debit draw cost: %w", err)
		}

		history := &entities.BalanceHistory{
			UserID:          userID,
			BalanceBefore:   user.Balance,
			BalanceAfter:    balance,
			ChangeAmount:    -cfg.DrawCost,
			TransactionType: entities.TransactionTypeDrawCost,
		}
		if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
			return nil, err
		}
	}

	result := &interfaces.DrawResult{
		IsFree:     isFree,
		NewBalance: balance,
	}

	// The draw cost is sunk before the roll; the outcome never touches
	// the balance
	if s.rand.Float64() >= cfg.DrawWinProbability {
		return result, nil
	}

	name := prizeTable[s.rand.IntN(len(prizeTable))]
	prize := entities.NewDrawReward(userID, name, cfg.PrizeValue)
	if err := s.collectibleRepo.Add(ctx, prize); err != nil {
		return nil, fmt.Errorf("failed to add prize collectible: %w", err)
	}

	result.Won = true
	result.Prize = prize

	log.WithFields(log.Fields{
		"userID": userID,
		"prize":  name,
		"isFree": isFree,
	}).Info("Draw won a collectible")

	event := events.CollectibleWonEvent{
		UserID:        userID,
		CollectibleID: prize.ID,
		Name:          prize.Name,
		Value:         prize.Value,
		IsFree:        isFree,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish collectible won event")
	}

	return result, nil
}
