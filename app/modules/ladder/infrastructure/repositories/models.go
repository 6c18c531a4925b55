package ladderdb

import (
	"github.com/uptrace/bun"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// RankDefinition is one rung of the ladder. Seeded once at startup from the
// configured catalog; read-only afterwards.
type RankDefinition struct {
	bun.BaseModel `bun:"table:rank_definitions,alias:rd"`

	Order          sharedtypes.RankOrder `bun:"rank_order,pk,notnull"`
	Name           string                `bun:"name,notnull,unique,type:varchar(64)"`
	PointsRequired int                   `bun:"points_required,notnull,default:0"`
	// RobloxRankRef is the join key against the group authority. Catalogs mix
	// two addressing schemes: the opaque role ID or the small rank number.
	RobloxRankRef int64 `bun:"roblox_rank_ref,notnull"`
	AdminOnly     bool  `bun:"admin_only,notnull,default:false"`
}

func (rd *RankDefinition) toShared() sharedtypes.RankDefinition {
	return sharedtypes.RankDefinition{
		Order:          rd.Order,
		Name:           rd.Name,
		PointsRequired: rd.PointsRequired,
		RobloxRankRef:  rd.RobloxRankRef,
		AdminOnly:      rd.AdminOnly,
	}
}
