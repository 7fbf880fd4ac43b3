package memory

import (
	"context"
	"testing"
	"time"

	"giftspin/config"
	"giftspin/domain/entities"
	"giftspin/domain/services"
	"giftspin/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays a fixed sequence of rolls
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// TestEconomyFlow runs the whole player journey against the in-memory store:
// account creation, paid draws, a deposit, a withdrawal, a staked upgrade and
// a referral batch.
func TestEconomyFlow(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	store := NewStore()
	bus := events.NewBus()

	userRepo := store.Users()
	collectibleRepo := store.Collectibles()
	upgradeRepo := store.Upgrades()
	referralRepo := store.Referrals()
	historyRepo := store.BalanceHistory()

	rand := &scriptedRand{
		floats: []float64{
			0.5,   // first draw, a loss
			0.005, // second draw, a win
			0.1,   // upgrade resolution, a win
		},
		ints: []int{5}, // prize index for the winning draw
	}

	ledger := services.NewLedgerService(userRepo, collectibleRepo, historyRepo, bus)
	draw := services.NewDrawService(userRepo, collectibleRepo, historyRepo, bus, rand)
	upgrade := services.NewUpgradeService(userRepo, collectibleRepo, upgradeRepo, historyRepo, bus, rand)
	withdrawal := services.NewWithdrawalService(userRepo, collectibleRepo, historyRepo, bus)
	referral := services.NewReferralService(userRepo, referralRepo, historyRepo, bus)

	// A fresh account starts at zero
	user, err := ledger.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.Balance)

	// Seed some stars
	user, err = ledger.Credit(ctx, "alice", 100, entities.TransactionTypeReferralBonus, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Balance)

	// Two paid draws: one loss, one win
	result, err := draw.Draw(ctx, "alice", false)
	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.Equal(t, int64(50), result.NewBalance)

	result, err = draw.Draw(ctx, "alice", false)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, int64(0), result.NewBalance)
	require.NotNil(t, result.Prize)
	assert.Equal(t, "Eternal Rose", result.Prize.Name)

	// Deposits stack on top of the won prize; duplicates bounce
	_, err = ledger.DepositCollectible(ctx, "alice", "Magic Potion.png", "msg-1")
	require.NoError(t, err)
	_, err = ledger.DepositCollectible(ctx, "alice", "Magic Potion.png", "msg-1")
	assert.ErrorIs(t, err, entities.ErrDuplicateDeposit)
	_, err = ledger.DepositCollectible(ctx, "alice", "Berry Box.png", "msg-2")
	require.NoError(t, err)

	inventory, err := ledger.Inventory(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, inventory, 3)

	// Withdraw: 3 items at 250 each, 5% fee on 750 leaves 712
	withdrawResult, err := withdrawal.Withdraw(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(712), withdrawResult.Amount)
	assert.Equal(t, 3, withdrawResult.ItemsConsumed)
	assert.Equal(t, int64(712), withdrawResult.NewBalance)

	inventory, err = ledger.Inventory(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, inventory)

	// Stake a fresh deposit on a stars upgrade
	deposited, err := ledger.DepositCollectible(ctx, "alice", "Gem Signet.png", "msg-3")
	require.NoError(t, err)

	staked, err := upgrade.Stake(ctx, "alice", deposited.ID, entities.UpgradeTargetStars)
	require.NoError(t, err)

	inventory, err = ledger.Inventory(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, inventory)

	// Nothing resolves before maturation
	resolved, err := upgrade.SweepMatured(ctx, staked.MaturesAt.Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, resolved)

	// One sweep past maturity lands the win and its 100 star reward
	resolved, err = upgrade.SweepMatured(ctx, staked.MaturesAt.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	user, err = ledger.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(812), user.Balance)

	// Three invites complete a batch and grant the bonus
	for _, friend := range []string{"bob", "carol", "dave"} {
		_, err = referral.RecordReferral(ctx, "alice", friend)
		require.NoError(t, err)
	}

	user, err = ledger.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(837), user.Balance)
	assert.Equal(t, int64(25), user.EarnedReferralStars)

	// The audit trail accounts for every change
	history, err := historyRepo.GetByUser(ctx, "alice", 50)
	require.NoError(t, err)
	for _, entry := range history {
		assert.NoError(t, entry.Validate())
		assert.GreaterOrEqual(t, entry.BalanceAfter, int64(0))
	}
}
