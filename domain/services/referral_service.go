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

type referralService struct {
	userRepo           interfaces.UserRepository
	referralRepo       interfaces.ReferralRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewReferralService creates a new referral service
func NewReferralService(
	userRepo interfaces.UserRepository,
	referralRepo interfaces.ReferralRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.ReferralService {
	return &referralService{
		userRepo:           userRepo,
		referralRepo:       referralRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// RecordReferral records an invite edge and grants the batch bonus when the
// referrer's total invite count hits a multiple of the batch size. Repeated
// calls for the same pair are no-ops that still report current standing.
func (s *referralService) RecordReferral(ctx context.Context, referrerID, refereeID string) (*interfaces.ReferralResult, error) {
	referrer, err := s.userRepo.GetByID(ctx, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrer: %w", err)
	}
	if referrer == nil {
		return nil, fmt.Errorf("referrer %s: %w", referrerID, entities.ErrUserNotFound)
	}

	referral := &entities.Referral{
		ReferrerID: referrerID,
		RefereeID:  refereeID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := referral.Validate(); err != nil {
		return nil, fmt.Errorf("invalid referral: %w", err)
	}

	exists, err := s.referralRepo.Exists(ctx, referrerID, refereeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check referral edge: %w", err)
	}
	if exists {
		total, err := s.referralRepo.CountByReferrer(ctx, referrerID)
		if err != nil {
			return nil, fmt.Errorf("failed to count referrals: %w", err)
		}
		return &interfaces.ReferralResult{
			TotalReferrals: total,
			EarnedStars:    referrer.EarnedReferralStars,
		}, nil
	}

	if err := s.referralRepo.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to record referral: %w", err)
	}

	total, err := s.referralRepo.CountByReferrer(ctx, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}

	cfg := config.Get()
	result := &interfaces.ReferralResult{
		TotalReferrals: total,
		EarnedStars:    referrer.EarnedReferralStars,
	}

	if total%cfg.ReferralBatchSize != 0 {
		return result, nil
	}

	// Bonus lands on every full batch: 3rd, 6th, 9th invite and so on
	bonus := cfg.ReferralBonus
	newBalance := referrer.CalculateNewBalance(bonus)
	if err := s.userRepo.UpdateBalance(ctx, referrerID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to credit referral bonus: %w", err)
	}
	if err := s.userRepo.AddEarnedReferralStars(ctx, referrerID, bonus); err != nil {
		return nil, fmt.Errorf("failed to accumulate referral earnings: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          referrerID,
		BalanceBefore:   referrer.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    bonus,
		TransactionType: entities.TransactionTypeReferralBonus,
		TransactionMetadata: map[string]any{
			"refereeID":      refereeID,
			"totalReferrals": total,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"referrerID":     referrerID,
		"totalReferrals": total,
		"bonus":          bonus,
	}).Info("Referral bonus granted")

	event := events.ReferralBonusEvent{
		ReferrerID:     referrerID,
		TotalReferrals: total,
		Bonus:          bonus,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish referral bonus event")
	}

	result.EarnedStars = referrer.EarnedReferralStars + bonus
	result.BonusGranted = true
	return result, nil
}
