package ladderservice

import (
	"context"
	"errors"
	"fmt"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// SeedCatalog validates and installs the configured ladder. Orders must be
// strictly increasing, names unique, and thresholds non-negative; a broken
// catalog is a startup failure, not something to limp along with.
func (s *LadderService) SeedCatalog(ctx context.Context, defs []sharedtypes.RankDefinition) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "SeedCatalog", func(ctx context.Context) (results.OperationResult, error) {
		if len(defs) == 0 {
			err := errors.New("rank catalog is empty")
			return results.OperationResult{Error: err}, err
		}

		names := make(map[string]bool, len(defs))
		prevOrder := sharedtypes.RankOrder(-1)
		for i, d := range defs {
			if i > 0 && d.Order <= prevOrder {
				err := fmt.Errorf("rank orders must be strictly increasing: %d after %d", d.Order, prevOrder)
				return results.OperationResult{Error: err}, err
			}
			prevOrder = d.Order
			if names[d.Name] {
				err := fmt.Errorf("duplicate rank name %q", d.Name)
				return results.OperationResult{Error: err}, err
			}
			names[d.Name] = true
			if d.PointsRequired < 0 {
				err := fmt.Errorf("rank %q has negative points threshold", d.Name)
				return results.OperationResult{Error: err}, err
			}
		}

		if err := s.repo.Seed(ctx, defs); err != nil {
			return results.OperationResult{Error: err}, err
		}
		return results.OperationResult{Success: len(defs)}, nil
	})
}

// GetCatalog returns the full ladder ordered ascending.
func (s *LadderService) GetCatalog(ctx context.Context) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "GetCatalog", func(ctx context.Context) (results.OperationResult, error) {
		defs, err := s.repo.AllRanks(ctx)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}
		return results.OperationResult{Success: defs}, nil
	})
}
