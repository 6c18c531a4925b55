package projectionservice

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/discord"
)

// Projection step names, reported on partial failure.
const (
	StepRemoveOld = "remove_old"
	StepEnsureNew = "ensure_new"
	StepAddNew    = "add_new"
)

// Project mirrors a committed rank change onto guild roles. Steps run in
// order and the first abandoned step ends the projection; whatever already
// happened is not undone, the next sweep converges the rest.
func (s *ProjectionService) Project(ctx context.Context, discordID sharedtypes.DiscordID, oldOrder, newOrder sharedtypes.RankOrder) (ProjectionResult, error) {
	return s.serviceWrapper(ctx, "Project", discordID, func(ctx context.Context) (ProjectionResult, error) {
		result := ProjectionResult{DiscordID: discordID}

		newDef, err := s.ladder.ByOrder(ctx, newOrder)
		if err != nil {
			if errors.Is(err, ladderdb.ErrRankNotFound) {
				// The catalog changed under us. Nothing to project.
				s.logger.WarnContext(ctx, "New rank vanished from the catalog, skipping projection",
					attr.String("discord_id", string(discordID)),
					attr.Int("new_rank_order", int(newOrder)),
				)
				return result, nil
			}
			return result, err
		}

		var oldDef *sharedtypes.RankDefinition
		if oldOrder != newOrder {
			oldDef, err = s.ladder.ByOrder(ctx, oldOrder)
			if err != nil && !errors.Is(err, ladderdb.ErrRankNotFound) {
				return result, err
			}
		}

		if oldDef != nil && oldDef.Name != newDef.Name {
			if err := s.runStep(ctx, StepRemoveOld, func(ctx context.Context) error {
				roleID, err := s.roles.FindRole(ctx, oldDef.Name)
				if err != nil || roleID == "" {
					return err
				}
				held, err := s.roles.MemberHoldsRole(ctx, string(discordID), roleID)
				if err != nil || !held {
					return err
				}
				return s.roles.RemoveRole(ctx, string(discordID), roleID)
			}); err != nil {
				return s.abandon(ctx, result, StepRemoveOld, err), nil
			}
		}

		var newRoleID string
		if err := s.runStep(ctx, StepEnsureNew, func(ctx context.Context) error {
			id, err := s.roles.EnsureRole(ctx, newDef.Name)
			newRoleID = id
			return err
		}); err != nil {
			return s.abandon(ctx, result, StepEnsureNew, err), nil
		}

		if err := s.runStep(ctx, StepAddNew, func(ctx context.Context) error {
			held, err := s.roles.MemberHoldsRole(ctx, string(discordID), newRoleID)
			if err != nil || held {
				return err
			}
			return s.roles.AddRole(ctx, string(discordID), newRoleID)
		}); err != nil {
			return s.abandon(ctx, result, StepAddNew, err), nil
		}

		return result, nil
	})
}

// runStep executes one projection step under the shared rate limiter, with
// exponential backoff on rate limits and transient faults. Permission errors
// abort immediately.
func (s *ProjectionService) runStep(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	op := func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, discord.ErrPermissionDenied) {
			return backoff.Permanent(err)
		}

		var rateLimited *discord.RateLimitedError
		if errors.As(err, &rateLimited) {
			s.metrics.RecordProjectionRetry(ctx, step)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.baseDelay

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, s.maxRetries), ctx))
}

// abandon converts a final step error into a partial-failure result.
func (s *ProjectionService) abandon(ctx context.Context, result ProjectionResult, step string, err error) ProjectionResult {
	s.metrics.RecordProjectionPartialFailure(ctx, step)
	result.Step = step
	result.Reason = err.Error()
	return result
}
