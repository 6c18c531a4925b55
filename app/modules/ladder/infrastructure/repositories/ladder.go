// Package ladderdb persists the rank ladder catalog.
package ladderdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// LadderDBImpl is the bun-backed ladder repository.
type LadderDBImpl struct {
	DB *bun.DB
}

// Seed replaces the stored catalog with defs inside one transaction.
func (db *LadderDBImpl) Seed(ctx context.Context, defs []sharedtypes.RankDefinition) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NewDelete().Model((*RankDefinition)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear rank catalog: %w", err)
	}

	rows := make([]RankDefinition, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, RankDefinition{
			Order:          d.Order,
			Name:           d.Name,
			PointsRequired: d.PointsRequired,
			RobloxRankRef:  d.RobloxRankRef,
			AdminOnly:      d.AdminOnly,
		})
	}
	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert rank catalog: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AllRanks returns every definition ordered ascending by rank order.
func (db *LadderDBImpl) AllRanks(ctx context.Context) ([]sharedtypes.RankDefinition, error) {
	var rows []RankDefinition
	err := db.DB.NewSelect().
		Model(&rows).
		Order("rank_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranks: %w", err)
	}

	defs := make([]sharedtypes.RankDefinition, 0, len(rows))
	for i := range rows {
		defs = append(defs, rows[i].toShared())
	}
	return defs, nil
}

// ByOrder returns the definition at order.
func (db *LadderDBImpl) ByOrder(ctx context.Context, order sharedtypes.RankOrder) (*sharedtypes.RankDefinition, error) {
	row := &RankDefinition{}
	err := db.DB.NewSelect().
		Model(row).
		Where("rank_order = ?", order).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRankNotFound
		}
		return nil, err
	}
	def := row.toShared()
	return &def, nil
}

// NextRank returns the immediately succeeding definition, honoring the
// admin-only filter. Returns nil, nil at the ceiling.
func (db *LadderDBImpl) NextRank(ctx context.Context, currentOrder sharedtypes.RankOrder, includeAdminOnly bool) (*sharedtypes.RankDefinition, error) {
	row := &RankDefinition{}
	q := db.DB.NewSelect().
		Model(row).
		Where("rank_order > ?", currentOrder).
		Order("rank_order ASC").
		Limit(1)
	if !includeAdminOnly {
		q = q.Where("admin_only = FALSE")
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	def := row.toShared()
	return &def, nil
}

// ByExternalRef matches by primaryRef first, then by secondaryRef. Primary
// always wins when both refs match different entries.
func (db *LadderDBImpl) ByExternalRef(ctx context.Context, primaryRef, secondaryRef int64) (*sharedtypes.RankDefinition, error) {
	for _, ref := range []int64{primaryRef, secondaryRef} {
		row := &RankDefinition{}
		err := db.DB.NewSelect().
			Model(row).
			Where("roblox_rank_ref = ?", ref).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		def := row.toShared()
		return &def, nil
	}
	return nil, nil
}

var _ Repository = (*LadderDBImpl)(nil)
