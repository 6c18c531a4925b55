package sharedtypes

import "time"

// DiscordID is a Discord user snowflake stored as a string.
type DiscordID string

// RobloxUsername is the member's Roblox account name. Comparisons are
// case-insensitive everywhere a username is used as a lookup key.
type RobloxUsername string

// RankOrder is the position of a rank in the ladder. Orders form a strictly
// increasing sequence; "next rank" means the smallest order greater than the
// current one.
type RankOrder int

// RankDefinition is one entry in the rank ladder. RobloxRankRef is the join
// key against the Roblox group: it holds either the group role's opaque ID or
// its small 0-255 rank number, depending on how the catalog was configured.
// Both addressing styles are accepted when matching (see ladder.ByExternalRef).
type RankDefinition struct {
	Order          RankOrder `json:"order"`
	Name           string    `json:"name"`
	PointsRequired int       `json:"points_required"`
	RobloxRankRef  int64     `json:"roblox_rank_ref"`
	AdminOnly      bool      `json:"admin_only"`
}

// Member is the locally stored record for a linked clan member.
type Member struct {
	DiscordID        DiscordID      `json:"discord_id"`
	RobloxUsername   RobloxUsername `json:"roblox_username"`
	CurrentRankOrder RankOrder      `json:"current_rank_order"`
	Points           int            `json:"points"`
	TotalPoints      int            `json:"total_points"`
	CreatedAt        time.Time      `json:"created_at"`
}

// GroupRank is the authoritative rank Roblox reports for a member. RoleID is
// the opaque group role ID, RankNumber the coarse 0-255 ordinal.
type GroupRank struct {
	RoleID     int64  `json:"role_id"`
	RankNumber int    `json:"rank_number"`
	Name       string `json:"name"`
}

// GroupRole is one role definition in the Roblox group.
type GroupRole struct {
	RoleID     int64  `json:"role_id"`
	RankNumber int    `json:"rank_number"`
	Name       string `json:"name"`
}
