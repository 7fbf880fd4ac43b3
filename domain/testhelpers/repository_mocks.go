package testhelpers

import (
	"context"
	"time"

	"giftspin/domain/entities"
	"giftspin/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateBalance(ctx context.Context, userID string, newBalance int64) error {
	args := m.Called(ctx, userID, newBalance)
	return args.Error(0)
}

func (m *MockUserRepository) AddEarnedReferralStars(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) SetLastFreeDrawAt(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

// MockCollectibleRepository is a mock implementation of CollectibleRepository
type MockCollectibleRepository struct {
	mock.Mock
}

func (m *MockCollectibleRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Collectible, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Collectible), args.Error(1)
}

func (m *MockCollectibleRepository) GetByID(ctx context.Context, userID, collectibleID string) (*entities.Collectible, error) {
	args := m.Called(ctx, userID, collectibleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Collectible), args.Error(1)
}

func (m *MockCollectibleRepository) ExistsByExternalRef(ctx context.Context, userID, externalRef string) (bool, error) {
	args := m.Called(ctx, userID, externalRef)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectibleRepository) Add(ctx context.Context, collectible *entities.Collectible) error {
	args := m.Called(ctx, collectible)
	return args.Error(0)
}

func (m *MockCollectibleRepository) Remove(ctx context.Context, userID, collectibleID string) error {
	args := m.Called(ctx, userID, collectibleID)
	return args.Error(0)
}

// MockUpgradeRepository is a mock implementation of UpgradeRepository
type MockUpgradeRepository struct {
	mock.Mock
}

func (m *MockUpgradeRepository) Create(ctx context.Context, upgrade *entities.Upgrade) error {
	args := m.Called(ctx, upgrade)
	return args.Error(0)
}

func (m *MockUpgradeRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Upgrade, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Upgrade), args.Error(1)
}

func (m *MockUpgradeRepository) GetMaturedPending(ctx context.Context, now time.Time) ([]*entities.Upgrade, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Upgrade), args.Error(1)
}

func (m *MockUpgradeRepository) Update(ctx context.Context, upgrade *entities.Upgrade) error {
	args := m.Called(ctx, upgrade)
	return args.Error(0)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Exists(ctx context.Context, referrerID, refereeID string) (bool, error) {
	args := m.Called(ctx, referrerID, refereeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

func (m *MockReferralRepository) CountByReferrer(ctx context.Context, referrerID string) (int, error) {
	args := m.Called(ctx, referrerID)
	return args.Int(0), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
