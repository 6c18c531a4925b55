package membermigrations

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
			CREATE TABLE IF NOT EXISTS members (
				discord_id VARCHAR(20) PRIMARY KEY,
				roblox_username VARCHAR(50) NOT NULL UNIQUE,
				current_rank_order BIGINT NOT NULL,
				points INT NOT NULL DEFAULT 0,
				total_points INT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_members_current_rank_order ON members (current_rank_order);
		`)
		if err != nil {
			return fmt.Errorf("failed to create members table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS members;`)
		if err != nil {
			return fmt.Errorf("failed to drop members table: %w", err)
		}
		return nil
	})
}
