package eventbus

import (
	"context"
	"fmt"

	"github.com/clanworks/clanbot/app/events"
)

// streamSubjects maps each stream to the subject wildcard it retains.
var streamSubjects = map[string][]string{
	events.MemberStream:    {"member.>"},
	events.RankStream:      {"rank.>"},
	events.PromotionStream: {"promotion.>"},
	events.RoleStream:      {"role.>"},
}

// InitializeStreams provisions every stream the modules publish to. Called
// once at startup before any router runs.
func InitializeStreams(ctx context.Context, bus EventBus) error {
	for stream, subjects := range streamSubjects {
		if err := bus.CreateStream(ctx, stream, subjects...); err != nil {
			return fmt.Errorf("initialize stream %s: %w", stream, err)
		}
	}
	return nil
}
