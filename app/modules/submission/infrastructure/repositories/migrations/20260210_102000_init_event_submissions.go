package submissionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS event_submissions (
				id BIGSERIAL PRIMARY KEY,
				submitter_id TEXT NOT NULL,
				event_name TEXT NOT NULL,
				points INT NOT NULL,
				participants JSONB NOT NULL,
				occurred_at TIMESTAMPTZ,
				image_url TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				reviewed_by TEXT,
				reviewed_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_event_submissions_status ON event_submissions (status);
		`)
		if err != nil {
			return fmt.Errorf("failed to create event_submissions table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS event_submissions;`)
		if err != nil {
			return fmt.Errorf("failed to drop event_submissions table: %w", err)
		}
		return nil
	})
}
