package services

import (
	"context"
	"fmt"
	"time"

	"giftspin/config"
	"giftspin/domain/entities"
	"giftspin/domain/interfaces"
	"giftspin/domain/utils"
)

type ledgerService struct {
	userRepo           interfaces.UserRepository
	collectibleRepo    interfaces.CollectibleRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	userRepo interfaces.UserRepository,
	collectibleRepo interfaces.CollectibleRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		userRepo:           userRepo,
		collectibleRepo:    collectibleRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

func (s *ledgerService) GetOrCreateUser(ctx context.Context, userID string) (*entities.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID must not be empty")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          user.ID,
		BalanceBefore:   0,
		BalanceAfter:    user.Balance,
		ChangeAmount:    user.Balance,
		TransactionType: entities.TransactionTypeInitial,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *ledgerService) Credit(ctx context.Context, userID string, amount int64, txType entities.TransactionType, metadata map[string]any) (*entities.User, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}

	// Crediting an absent user creates the account first, mirroring
	// GetOrCreateUser semantics
	user, err := s.GetOrCreateUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	newBalance := user.CalculateNewBalance(amount)
	if err := s.userRepo.UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:              userID,
		BalanceBefore:       user.Balance,
		BalanceAfter:        newBalance,
		ChangeAmount:        amount,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	user.Balance = newBalance
	return user, nil
}

func (s *ledgerService) Debit(ctx context.Context, userID string, amount int64, txType entities.TransactionType, metadata map[string]any) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("debit user %s: %w", userID, entities.ErrUserNotFound)
	}

	if err := user.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("debit %d from user %s: %w", amount, userID, err)
	}

	newBalance := user.CalculateNewBalance(-amount)
	if err := s.userRepo.UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:              userID,
		BalanceBefore:       user.Balance,
		BalanceAfter:        newBalance,
		ChangeAmount:        -amount,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	user.Balance = newBalance
	return user, nil
}

func (s *ledgerService) DepositCollectible(ctx context.Context, userID, name, externalRef string) (*entities.Collectible, error) {
	if name == "" {
		return nil, fmt.Errorf("collectible name must not be empty")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("deposit for user %s: %w", userID, entities.ErrUserNotFound)
	}

	exists, err := s.collectibleRepo.ExistsByExternalRef(ctx, userID, externalRef)
	if err != nil {
		return nil, fmt.Errorf("failed to check deposit reference: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("deposit %q for user %s: %w", externalRef, userID, entities.ErrDuplicateDeposit)
	}

	collectible := entities.NewDepositedCollectible(userID, name, externalRef, config.Get().DepositValue)
	if err := collectible.Validate(); err != nil {
		return nil, fmt.Errorf("invalid collectible: %w", err)
	}
	if err := s.collectibleRepo.Add(ctx, collectible); err != nil {
		return nil, fmt.Errorf("failed to add collectible: %w", err)
	}

	return collectible, nil
}

func (s *ledgerService) Inventory(ctx context.Context, userID string) ([]*entities.Collectible, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("inventory for user %s: %w", userID, entities.ErrUserNotFound)
	}

	return s.collectibleRepo.GetByUser(ctx, userID)
}

func (s *ledgerService) MarkFreeDrawUsed(ctx context.Context, userID string, at time.Time) error {
	if err := s.userRepo.SetLastFreeDrawAt(ctx, userID, at); err != nil {
		return fmt.Errorf("failed to mark free draw for user %s: %w", userID, err)
	}
	return nil
}
