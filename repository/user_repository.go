package repository

import (
	"context"
	"fmt"
	"time"

	"giftspin/database"
	"giftspin/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByID retrieves a user by their external identifier
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	query := `
		SELECT id, balance, earned_referral_stars, last_free_draw_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Balance,
		&user.EarnedReferralStars,
		&user.LastFreeDrawAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	return &user, nil
}

// Create creates a new user with a zero balance
func (r *UserRepository) Create(ctx context.Context, userID string) (*entities.User, error) {
	query := `
		INSERT INTO users (id, balance)
		VALUES ($1, 0)
		RETURNING id, balance, earned_referral_stars, last_free_draw_at, created_at, updated_at
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Balance,
		&user.EarnedReferralStars,
		&user.LastFreeDrawAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", userID, err)
	}

	return &user, nil
}

// UpdateBalance updates a user's balance
func (r *UserRepository) UpdateBalance(ctx context.Context, userID string, newBalance int64) error {
	query := `
		UPDATE users
		SET balance = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, userID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}

// AddEarnedReferralStars accumulates the informational referral counter
func (r *UserRepository) AddEarnedReferralStars(ctx context.Context, userID string, amount int64) error {
	query := `
		UPDATE users
		SET earned_referral_stars = earned_referral_stars + $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to add referral earnings for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}

// SetLastFreeDrawAt records when the daily free draw was used
func (r *UserRepository) SetLastFreeDrawAt(ctx context.Context, userID string, at time.Time) error {
	query := `
		UPDATE users
		SET last_free_draw_at = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, userID, at)
	if err != nil {
		return fmt.Errorf("failed to set free draw timestamp for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}
