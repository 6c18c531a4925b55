package memberservice

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/roblox"
)

// fakeResolver stubs the Roblox identity lookup.
type fakeResolver struct {
	GetUserIDFunc func(ctx context.Context, username sharedtypes.RobloxUsername) (int64, error)
}

func (f *fakeResolver) GetUserID(ctx context.Context, username sharedtypes.RobloxUsername) (int64, error) {
	if f.GetUserIDFunc != nil {
		return f.GetUserIDFunc(ctx, username)
	}
	return 12345, nil
}

// unknownResolver always reports the username as missing.
func unknownResolver() *fakeResolver {
	return &fakeResolver{
		GetUserIDFunc: func(ctx context.Context, username sharedtypes.RobloxUsername) (int64, error) {
			return 0, roblox.ErrMemberNotFound
		},
	}
}

var _ IdentityResolver = (*fakeResolver)(nil)
