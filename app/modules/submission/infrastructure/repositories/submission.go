// Package submissiondb persists event submissions awaiting review.
package submissiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// SubmissionDBImpl is the bun-backed submission repository.
type SubmissionDBImpl struct {
	DB *bun.DB
}

// Create stores a new pending submission and fills in its ID.
func (db *SubmissionDBImpl) Create(ctx context.Context, submission *EventSubmission) error {
	submission.Status = StatusPending
	if _, err := db.DB.NewInsert().Model(submission).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by ID.
func (db *SubmissionDBImpl) GetByID(ctx context.Context, id int64) (*EventSubmission, error) {
	row := &EventSubmission{}
	err := db.DB.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return row, nil
}

// ListPending returns unresolved submissions, oldest first.
func (db *SubmissionDBImpl) ListPending(ctx context.Context) ([]EventSubmission, error) {
	var rows []EventSubmission
	err := db.DB.NewSelect().
		Model(&rows).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending submissions: %w", err)
	}
	return rows, nil
}

// Resolve moves a pending submission to approved or denied in one
// transaction. The pending-only guard makes resolution one-shot.
func (db *SubmissionDBImpl) Resolve(ctx context.Context, id int64, status SubmissionStatus, reviewerID sharedtypes.DiscordID) (*EventSubmission, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.NewUpdate().
		Model((*EventSubmission)(nil)).
		Set("status = ?", status).
		Set("reviewed_by = ?", reviewerID).
		Set("reviewed_at = ?", now).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve submission: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		exists, err := tx.NewSelect().
			Model((*EventSubmission)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrSubmissionNotFound
		}
		return nil, ErrSubmissionResolved
	}

	row := &EventSubmission{}
	if err := tx.NewSelect().Model(row).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return row, nil
}

var _ Repository = (*SubmissionDBImpl)(nil)
