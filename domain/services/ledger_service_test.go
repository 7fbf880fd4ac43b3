package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"giftspin/config"
	"giftspin/domain/entities"
	"giftspin/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetOrCreateUser_Existing(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)
	mockHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, mockHistoryRepo, mockPublisher)

	existing := &entities.User{ID: "user-1", Balance: 500}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(existing, nil)

	user, err := service.GetOrCreateUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, existing, user)

	// No creation and no opening history entry for an existing account
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockHistoryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	mockUserRepo.AssertExpectations(t)
}

func TestLedgerService_GetOrCreateUser_CreatesWithOpeningEntry(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)
	mockHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, mockHistoryRepo, mockPublisher)

	created := &entities.User{ID: "user-1", Balance: 0}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(nil, nil)
	mockUserRepo.On("Create", ctx, "user-1").Return(created, nil)

	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.UserID == "user-1" &&
			h.BalanceBefore == 0 &&
			h.BalanceAfter == 0 &&
			h.ChangeAmount == 0 &&
			h.TransactionType == entities.TransactionTypeInitial
	})).Return(nil)

	mockPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	mockPublisher.On("Publish", mock.AnythingOfType("events.UserCreatedEvent")).Return(nil)

	user, err := service.GetOrCreateUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, created, user)

	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestLedgerService_GetOrCreateUser_EmptyID(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	service := NewLedgerService(
		new(testhelpers.MockUserRepository),
		new(testhelpers.MockCollectibleRepository),
		new(testhelpers.MockBalanceHistoryRepository),
		new(testhelpers.MockEventPublisher),
	)

	user, err := service.GetOrCreateUser(context.Background(), "")
	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestLedgerService_Credit(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)
	mockHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, mockHistoryRepo, mockPublisher)

	existing := &entities.User{ID: "user-1", Balance: 100}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(existing, nil)
	mockUserRepo.On("UpdateBalance", ctx, "user-1", int64(350)).Return(nil)

	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.UserID == "user-1" &&
			h.BalanceBefore == 100 &&
			h.BalanceAfter == 350 &&
			h.ChangeAmount == 250 &&
			h.TransactionType == entities.TransactionTypeWithdrawalPayout
	})).Return(nil)

	mockPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)

	user, err := service.Credit(ctx, "user-1", 250, entities.TransactionTypeWithdrawalPayout, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(350), user.Balance)

	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestLedgerService_Credit_CreatesAbsentUser(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)
	mockHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, mockHistoryRepo, mockPublisher)

	created := &entities.User{ID: "new-user", Balance: 0}
	mockUserRepo.On("GetByID", ctx, "new-user").Return(nil, nil)
	mockUserRepo.On("Create", ctx, "new-user").Return(created, nil)
	mockUserRepo.On("UpdateBalance", ctx, "new-user", int64(25)).Return(nil)

	mockHistoryRepo.On("Record", ctx, mock.AnythingOfType("*entities.BalanceHistory")).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return(nil)

	user, err := service.Credit(ctx, "new-user", 25, entities.TransactionTypeReferralBonus, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(25), user.Balance)

	mockUserRepo.AssertExpectations(t)
}

func TestLedgerService_Credit_RejectsNonPositiveAmount(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	service := NewLedgerService(
		new(testhelpers.MockUserRepository),
		new(testhelpers.MockCollectibleRepository),
		new(testhelpers.MockBalanceHistoryRepository),
		new(testhelpers.MockEventPublisher),
	)

	_, err := service.Credit(context.Background(), "user-1", 0, entities.TransactionTypeReferralBonus, nil)
	assert.Error(t, err)

	_, err = service.Credit(context.Background(), "user-1", -10, entities.TransactionTypeReferralBonus, nil)
	assert.Error(t, err)
}

func TestLedgerService_Debit(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)
	mockHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, mockHistoryRepo, mockPublisher)

	existing := &entities.User{ID: "user-1", Balance: 100}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(existing, nil)
	mockUserRepo.On("UpdateBalance", ctx, "user-1", int64(50)).Return(nil)

	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.BalanceBefore == 100 &&
			h.BalanceAfter == 50 &&
			h.ChangeAmount == -50 &&
			h.TransactionType == entities.TransactionTypeDrawCost
	})).Return(nil)

	mockPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)

	user, err := service.Debit(ctx, "user-1", 50, entities.TransactionTypeDrawCost, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(50), user.Balance)

	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestLedgerService_Debit_InsufficientFunds(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)

	service := NewLedgerService(mockUserRepo, new(testhelpers.MockCollectibleRepository), mockHistoryRepo, new(testhelpers.MockEventPublisher))

	existing := &entities.User{ID: "user-1", Balance: 49}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(existing, nil)

	user, err := service.Debit(ctx, "user-1", 50, entities.TransactionTypeDrawCost, nil)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, entities.ErrInsufficientFunds))

	// Balance untouched on failure
	mockUserRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	mockHistoryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_Debit_UserNotFound(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockUserRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

	service := NewLedgerService(mockUserRepo, new(testhelpers.MockCollectibleRepository), new(testhelpers.MockBalanceHistoryRepository), new(testhelpers.MockEventPublisher))

	user, err := service.Debit(ctx, "ghost", 50, entities.TransactionTypeDrawCost, nil)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, entities.ErrUserNotFound))
}

func TestLedgerService_DepositCollectible(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, new(testhelpers.MockBalanceHistoryRepository), new(testhelpers.MockEventPublisher))

	existing := &entities.User{ID: "user-1", Balance: 0}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(existing, nil)
	mockCollectibleRepo.On("ExistsByExternalRef", ctx, "user-1", "msg-42").Return(false, nil)
	mockCollectibleRepo.On("Add", ctx, mock.MatchedBy(func(c *entities.Collectible) bool {
		return c.UserID == "user-1" &&
			c.Name == "Eternal Rose" &&
			c.Origin == entities.CollectibleOriginDeposited &&
			c.ExternalRef != nil && *c.ExternalRef == "msg-42" &&
			c.Value == 250
	})).Return(nil)

	collectible, err := service.DepositCollectible(ctx, "user-1", "Eternal Rose.png", "msg-42")
	require.NoError(t, err)
	require.NotNil(t, collectible)

	// Image file suffix is stripped from the display name
	assert.Equal(t, "Eternal Rose", collectible.Name)
	assert.Equal(t, int64(250), collectible.Value)

	mockCollectibleRepo.AssertExpectations(t)
}

func TestLedgerService_DepositCollectible_Duplicate(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, new(testhelpers.MockBalanceHistoryRepository), new(testhelpers.MockEventPublisher))

	existing := &entities.User{ID: "user-1"}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(existing, nil)
	mockCollectibleRepo.On("ExistsByExternalRef", ctx, "user-1", "msg-42").Return(true, nil)

	collectible, err := service.DepositCollectible(ctx, "user-1", "Eternal Rose.png", "msg-42")
	assert.Nil(t, collectible)
	assert.True(t, errors.Is(err, entities.ErrDuplicateDeposit))

	mockCollectibleRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestLedgerService_DepositCollectible_UserNotFound(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockUserRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

	service := NewLedgerService(mockUserRepo, new(testhelpers.MockCollectibleRepository), new(testhelpers.MockBalanceHistoryRepository), new(testhelpers.MockEventPublisher))

	collectible, err := service.DepositCollectible(ctx, "ghost", "Eternal Rose.png", "msg-42")
	assert.Nil(t, collectible)
	assert.True(t, errors.Is(err, entities.ErrUserNotFound))
}

func TestLedgerService_Inventory(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockCollectibleRepo := new(testhelpers.MockCollectibleRepository)

	service := NewLedgerService(mockUserRepo, mockCollectibleRepo, new(testhelpers.MockBalanceHistoryRepository), new(testhelpers.MockEventPublisher))

	existing := &entities.User{ID: "user-1"}
	items := []*entities.Collectible{
		{ID: "c1", UserID: "user-1", Name: "Berry Box", Value: 250},
	}
	mockUserRepo.On("GetByID", ctx, "user-1").Return(existing, nil)
	mockCollectibleRepo.On("GetByUser", ctx, "user-1").Return(items, nil)

	inventory, err := service.Inventory(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, items, inventory)
}

func TestLedgerService_MarkFreeDrawUsed(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockUserRepo.On("SetLastFreeDrawAt", ctx, "user-1", at).Return(nil)

	service := NewLedgerService(mockUserRepo, new(testhelpers.MockCollectibleRepository), new(testhelpers.MockBalanceHistoryRepository), new(testhelpers.MockEventPublisher))

	err := service.MarkFreeDrawUsed(ctx, "user-1", at)
	require.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}
