package memberdb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// Member is the persisted per-member state.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	DiscordID      sharedtypes.DiscordID      `bun:"discord_id,pk,notnull,type:varchar(20)"`
	RobloxUsername sharedtypes.RobloxUsername `bun:"roblox_username,notnull,unique,type:varchar(50)"`
	CurrentRank    sharedtypes.RankOrder      `bun:"current_rank_order,notnull"`
	Points         int                        `bun:"points,notnull,default:0"`
	TotalPoints    int                        `bun:"total_points,notnull,default:0"`
	CreatedAt      time.Time                  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (m *Member) toShared() sharedtypes.Member {
	return sharedtypes.Member{
		DiscordID:        m.DiscordID,
		RobloxUsername:   m.RobloxUsername,
		CurrentRankOrder: m.CurrentRank,
		Points:           m.Points,
		TotalPoints:      m.TotalPoints,
		CreatedAt:        m.CreatedAt,
	}
}
