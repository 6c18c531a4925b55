package laddermigrations

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
			CREATE TABLE IF NOT EXISTS rank_definitions (
				rank_order BIGINT PRIMARY KEY,
				name VARCHAR(64) NOT NULL UNIQUE,
				points_required INT NOT NULL DEFAULT 0,
				roblox_rank_ref BIGINT NOT NULL,
				admin_only BOOLEAN NOT NULL DEFAULT FALSE
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create rank_definitions table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS rank_definitions;`)
		if err != nil {
			return fmt.Errorf("failed to drop rank_definitions table: %w", err)
		}
		return nil
	})
}
