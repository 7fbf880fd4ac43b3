package repository

import (
	"context"
	"fmt"

	"giftspin/database"
	"giftspin/domain/entities"
)

// ReferralRepository implements the ReferralRepository interface
type ReferralRepository struct {
	q Queryable
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

// newReferralRepositoryWithTx creates a new referral repository bound to a transaction
func newReferralRepositoryWithTx(tx Queryable) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

// Exists reports whether the (referrer, referee) edge is already recorded
func (r *ReferralRepository) Exists(ctx context.Context, referrerID, refereeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM referrals
			WHERE referrer_id = $1 AND referee_id = $2
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, referrerID, refereeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check referral edge: %w", err)
	}

	return exists, nil
}

// Create records a new referral edge
func (r *ReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, referee_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (referrer_id, referee_id) DO NOTHING
	`

	_, err := r.q.Exec(ctx, query, referral.ReferrerID, referral.RefereeID, referral.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create referral edge: %w", err)
	}

	return nil
}

// CountByReferrer returns how many referees the referrer has invited
func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM referrals
		WHERE referrer_id = $1
	`

	var count int
	if err := r.q.QueryRow(ctx, query, referrerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count referrals for %s: %w", referrerID, err)
	}

	return count, nil
}
