package repository

import (
	"context"
	"fmt"
	"time"

	"giftspin/database"
	"giftspin/domain/entities"
)

// UpgradeRepository implements the UpgradeRepository interface
type UpgradeRepository struct {
	q Queryable
}

// NewUpgradeRepository creates a new upgrade repository
func NewUpgradeRepository(db *database.DB) *UpgradeRepository {
	return &UpgradeRepository{q: db.Pool}
}

// newUpgradeRepositoryWithTx creates a new upgrade repository bound to a transaction
func newUpgradeRepositoryWithTx(tx Queryable) *UpgradeRepository {
	return &UpgradeRepository{q: tx}
}

const upgradeColumns = `
	id, user_id, collectible_id, collectible_name, collectible_value,
	target, status, outcome, created_at, matures_at, resolved_at
`

// Create persists a new pending upgrade
func (r *UpgradeRepository) Create(ctx context.Context, upgrade *entities.Upgrade) error {
	query := `
		INSERT INTO upgrades (
			id, user_id, collectible_id, collectible_name, collectible_value,
			target, status, created_at, matures_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		upgrade.ID,
		upgrade.UserID,
		upgrade.CollectibleID,
		upgrade.CollectibleName,
		upgrade.CollectibleValue,
		upgrade.Target,
		upgrade.Status,
		upgrade.CreatedAt,
		upgrade.MaturesAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create upgrade %s: %w", upgrade.ID, err)
	}

	return nil
}

// GetByUser returns all upgrades of a user, oldest first
func (r *UpgradeRepository) GetByUser(ctx context.Context, userID string) ([]*entities.Upgrade, error) {
	query := `
		SELECT ` + upgradeColumns + `
		FROM upgrades
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query upgrades for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanUpgrades(rows)
}

// GetMaturedPending returns pending upgrades whose maturation time has passed
func (r *UpgradeRepository) GetMaturedPending(ctx context.Context, now time.Time) ([]*entities.Upgrade, error) {
	query := `
		SELECT ` + upgradeColumns + `
		FROM upgrades
		WHERE status = 'pending' AND matures_at <= $1
		ORDER BY matures_at, id
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query matured upgrades: %w", err)
	}
	defer rows.Close()

	return scanUpgrades(rows)
}

// Update persists the resolution state of an upgrade
func (r *UpgradeRepository) Update(ctx context.Context, upgrade *entities.Upgrade) error {
	query := `
		UPDATE upgrades
		SET status = $2, outcome = $3, resolved_at = $4
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, upgrade.ID, upgrade.Status, upgrade.Outcome, upgrade.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to update upgrade %s: %w", upgrade.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("upgrade %s not found", upgrade.ID)
	}

	return nil
}

type upgradeRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanUpgrades(rows upgradeRows) ([]*entities.Upgrade, error) {
	var upgrades []*entities.Upgrade
	for rows.Next() {
		var u entities.Upgrade
		if err := rows.Scan(
			&u.ID,
			&u.UserID,
			&u.CollectibleID,
			&u.CollectibleName,
			&u.CollectibleValue,
			&u.Target,
			&u.Status,
			&u.Outcome,
			&u.CreatedAt,
			&u.MaturesAt,
			&u.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan upgrade: %w", err)
		}
		upgrades = append(upgrades, &u)
	}

	return upgrades, rows.Err()
}
