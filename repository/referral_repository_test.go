package repository

import (
	"context"
	"testing"
	"time"

	"giftspin/domain/entities"
	"giftspin/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewReferralRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "referrer")
	require.NoError(t, err)
	_, err = userRepo.Create(ctx, "other-referrer")
	require.NoError(t, err)

	now := time.Now().UTC()

	t.Run("edge does not exist initially", func(t *testing.T) {
		exists, err := repo.Exists(ctx, "referrer", "friend-1")
		require.NoError(t, err)
		assert.False(t, exists)

		count, err := repo.CountByReferrer(ctx, "referrer")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("create and count", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.Referral{ReferrerID: "referrer", RefereeID: "friend-1", CreatedAt: now}))
		require.NoError(t, repo.Create(ctx, &entities.Referral{ReferrerID: "referrer", RefereeID: "friend-2", CreatedAt: now}))

		exists, err := repo.Exists(ctx, "referrer", "friend-1")
		require.NoError(t, err)
		assert.True(t, exists)

		count, err := repo.CountByReferrer(ctx, "referrer")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("duplicate edge is a silent no-op", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.Referral{ReferrerID: "referrer", RefereeID: "friend-1", CreatedAt: now}))

		count, err := repo.CountByReferrer(ctx, "referrer")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("same referee under a different referrer counts separately", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.Referral{ReferrerID: "other-referrer", RefereeID: "friend-1", CreatedAt: now}))

		count, err := repo.CountByReferrer(ctx, "other-referrer")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = repo.CountByReferrer(ctx, "referrer")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
