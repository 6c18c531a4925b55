// Package memberdb persists member records.
package memberdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// MemberDBImpl is the bun-backed member repository.
type MemberDBImpl struct {
	DB *bun.DB
}

// Create inserts a new member within a transaction, rejecting duplicate
// Roblox identities case-insensitively.
func (db *MemberDBImpl) Create(ctx context.Context, member *sharedtypes.Member) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := tx.NewSelect().
		Model((*Member)(nil)).
		Where("LOWER(roblox_username) = LOWER(?)", member.RobloxUsername).
		Where("discord_id != ?", member.DiscordID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing identity: %w", err)
	}
	if exists {
		return ErrDuplicateIdentity
	}

	row := &Member{
		DiscordID:      member.DiscordID,
		RobloxUsername: member.RobloxUsername,
		CurrentRank:    member.CurrentRankOrder,
		Points:         member.Points,
		TotalPoints:    member.TotalPoints,
	}
	if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateRobloxUsername rebinds an existing member to a new Roblox username
// within a transaction. Rank and points are untouched; the duplicate check
// mirrors Create.
func (db *MemberDBImpl) UpdateRobloxUsername(ctx context.Context, discordID sharedtypes.DiscordID, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := tx.NewSelect().
		Model((*Member)(nil)).
		Where("LOWER(roblox_username) = LOWER(?)", username).
		Where("discord_id != ?", discordID).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing identity: %w", err)
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	result, err := tx.NewUpdate().
		Model((*Member)(nil)).
		Set("roblox_username = ?", username).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update roblox username: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrMemberNotFound
	}

	row := &Member{}
	if err := tx.NewSelect().Model(row).Where("discord_id = ?", discordID).Scan(ctx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	m := row.toShared()
	return &m, nil
}

// GetByDiscordID retrieves a member by Discord ID.
func (db *MemberDBImpl) GetByDiscordID(ctx context.Context, discordID sharedtypes.DiscordID) (*sharedtypes.Member, error) {
	row := &Member{}
	err := db.DB.NewSelect().Model(row).Where("discord_id = ?", discordID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	m := row.toShared()
	return &m, nil
}

// GetByRobloxUsername retrieves a member by Roblox username, ignoring case.
func (db *MemberDBImpl) GetByRobloxUsername(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error) {
	row := &Member{}
	err := db.DB.NewSelect().
		Model(row).
		Where("LOWER(roblox_username) = LOWER(?)", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	m := row.toShared()
	return &m, nil
}

// GetAll returns every member in creation order.
func (db *MemberDBImpl) GetAll(ctx context.Context) ([]sharedtypes.Member, error) {
	var rows []Member
	err := db.DB.NewSelect().
		Model(&rows).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]sharedtypes.Member, 0, len(rows))
	for i := range rows {
		members = append(members, rows[i].toShared())
	}
	return members, nil
}

// ListTopByTotalPoints returns the lifetime-points leaderboard.
func (db *MemberDBImpl) ListTopByTotalPoints(ctx context.Context, limit int) ([]sharedtypes.Member, error) {
	var rows []Member
	err := db.DB.NewSelect().
		Model(&rows).
		Order("total_points DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}

	members := make([]sharedtypes.Member, 0, len(rows))
	for i := range rows {
		members = append(members, rows[i].toShared())
	}
	return members, nil
}

// AddPoints applies a point delta within a transaction. totalPoints only
// moves for positive deltas.
func (db *MemberDBImpl) AddPoints(ctx context.Context, discordID sharedtypes.DiscordID, delta int) (*sharedtypes.Member, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lifetime := delta
	if lifetime < 0 {
		lifetime = 0
	}

	result, err := tx.NewUpdate().
		Model((*Member)(nil)).
		Set("points = points + ?", delta).
		Set("total_points = total_points + ?", lifetime).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to apply point delta: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrMemberNotFound
	}

	row := &Member{}
	if err := tx.NewSelect().Model(row).Where("discord_id = ?", discordID).Scan(ctx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	m := row.toShared()
	return &m, nil
}

// SetRank commits a new rank order and resets points to zero in one
// transaction. The ladder reference is verified here rather than assumed.
func (db *MemberDBImpl) SetRank(ctx context.Context, discordID sharedtypes.DiscordID, newOrder sharedtypes.RankOrder) (*sharedtypes.Member, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	known, err := tx.NewSelect().
		Table("rank_definitions").
		Where("rank_order = ?", newOrder).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check rank order: %w", err)
	}
	if !known {
		return nil, ErrUnknownRank
	}

	result, err := tx.NewUpdate().
		Model((*Member)(nil)).
		Set("current_rank_order = ?", newOrder).
		Set("points = 0").
		Where("discord_id = ?", discordID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set rank: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrMemberNotFound
	}

	row := &Member{}
	if err := tx.NewSelect().Model(row).Where("discord_id = ?", discordID).Scan(ctx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	m := row.toShared()
	return &m, nil
}

var _ Repository = (*MemberDBImpl)(nil)
