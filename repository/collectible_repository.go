package repository

import (
	"context"
	"errors"
	"fmt"

	"giftspin/database"
	"giftspin/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CollectibleRepository implements the CollectibleRepository interface
type CollectibleRepository struct {
	q Queryable
}

// NewCollectibleRepository creates a new collectible repository
func NewCollectibleRepository(db *database.DB) *CollectibleRepository {
	return &CollectibleRepository{q: db.Pool}
}

// newCollectibleRepositoryWithTx creates a new collectible repository bound to a transaction
func newCollectibleRepositoryWithTx(tx Queryable) *CollectibleRepository {
	return &CollectibleRepository{q: tx}
}

// GetByUser returns the user's inventory in acquisition order
func (r *CollectibleRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Collectible, error) {
	query := `
		SELECT id, user_id, name, origin, external_ref, value, acquired_at
		FROM collectibles
		WHERE user_id = $1
		ORDER BY acquired_at, id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory for user %s: %w", userID, err)
	}
	defer rows.Close()

	var collectibles []*entities.Collectible
	for rows.Next() {
		var c entities.Collectible
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Origin, &c.ExternalRef, &c.Value, &c.AcquiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan collectible: %w", err)
		}
		collectibles = append(collectibles, &c)
	}

	return collectibles, rows.Err()
}

// GetByID retrieves a single collectible owned by the user
func (r *CollectibleRepository) GetByID(ctx context.Context, userID, collectibleID string) (*entities.Collectible, error) {
	query := `
		SELECT id, user_id, name, origin, external_ref, value, acquired_at
		FROM collectibles
		WHERE user_id = $1 AND id = $2
	`

	var c entities.Collectible
	err := r.q.QueryRow(ctx, query, userID, collectibleID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Origin, &c.ExternalRef, &c.Value, &c.AcquiredAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collectible %s: %w", collectibleID, err)
	}

	return &c, nil
}

// ExistsByExternalRef reports whether the user already deposited this reference
func (r *CollectibleRepository) ExistsByExternalRef(ctx context.Context, userID, externalRef string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM collectibles
			WHERE user_id = $1 AND external_ref = $2
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, userID, externalRef).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check external reference: %w", err)
	}

	return exists, nil
}

// Add appends a collectible to the user's inventory
func (r *CollectibleRepository) Add(ctx context.Context, collectible *entities.Collectible) error {
	query := `
		INSERT INTO collectibles (id, user_id, name, origin, external_ref, value, acquired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		collectible.ID,
		collectible.UserID,
		collectible.Name,
		collectible.Origin,
		collectible.ExternalRef,
		collectible.Value,
		collectible.AcquiredAt,
	)
	if err != nil {
		// The partial unique index on (user_id, external_ref) backs the
		// dedup invariant
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entities.ErrDuplicateDeposit
		}
		return fmt.Errorf("failed to add collectible %s: %w", collectible.ID, err)
	}

	return nil
}

// Remove deletes a collectible from the user's inventory
func (r *CollectibleRepository) Remove(ctx context.Context, userID, collectibleID string) error {
	query := `
		DELETE FROM collectibles
		WHERE user_id = $1 AND id = $2
	`

	tag, err := r.q.Exec(ctx, query, userID, collectibleID)
	if err != nil {
		return fmt.Errorf("failed to remove collectible %s: %w", collectibleID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrCollectibleNotFound
	}

	return nil
}
