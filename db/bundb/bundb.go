// Package bundb owns the Postgres connection pool and hands out the
// module repositories bound to it.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	submissiondb "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories"
	"github.com/clanworks/clanbot/config"
)

// DBService bundles the bun-backed repositories over one connection pool.
type DBService struct {
	LadderDB     *ladderdb.LadderDBImpl
	MemberDB     *memberdb.MemberDBImpl
	SubmissionDB *submissiondb.SubmissionDBImpl
	db           *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close releases the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and wires up the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(&ladderdb.RankDefinition{})
	db.RegisterModel(&memberdb.Member{})
	db.RegisterModel(&submissiondb.EventSubmission{})

	return &DBService{
		LadderDB:     &ladderdb.LadderDBImpl{DB: db},
		MemberDB:     &memberdb.MemberDBImpl{DB: db},
		SubmissionDB: &submissiondb.SubmissionDBImpl{DB: db},
		db:           db,
	}, nil
}
